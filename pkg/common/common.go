package common

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/bwmarrin/snowflake"
	"golang.org/x/crypto/pbkdf2"
)

const (
	ENABLED  = "enabled"
	DISABLED = "disabled"
)

var snowflakeNode *snowflake.Node

func init() {
	var err error
	snowflakeNode, err = snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
}

// UUIDint64 returns a snowflake id suitable for database primary keys.
func UUIDint64() int64 {
	return snowflakeNode.Generate().Int64()
}

// UUID returns a snowflake id in base58 string form.
func UUID() string {
	return snowflakeNode.Generate().Base58()
}

// OrderUID builds the user-facing order identifier.
func OrderUID(at time.Time) string {
	return fmt.Sprintf("ORD-%d", at.UnixMilli())
}

// GetSecretSalt reads the shared secret salt, falling back to a fixed
// development value when unset.
func GetSecretSalt() string {
	if s := os.Getenv("VOLTDESK_SECRET"); s != "" {
		return s
	}
	return "voltdesk-secret"
}

// Sha256HashWithSalt hashes a value with the given salt.
func Sha256HashWithSalt(src string, salt string) string {
	h := sha256.New()
	h.Write([]byte(src))
	h.Write([]byte(salt))
	return hex.EncodeToString(h.Sum(nil))
}

// Pbkdf2Hash derives a password hash; used for operator accounts.
func Pbkdf2Hash(password string, salt string) string {
	dk := pbkdf2.Key([]byte(password), []byte(salt), 4096, 32, sha256.New)
	return hex.EncodeToString(dk)
}

// RandomBytesHex returns n random bytes hex encoded.
func RandomBytesHex(n int) string {
	buf := make([]byte, n)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

// FileExists reports whether path exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
