package cart

import (
	"context"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/talkincode/voltdesk/internal/domain"
)

// Store is the cart persistence port. Implementations must treat a missing
// session as an empty cart and must never surface a decode failure: a corrupt
// blob decodes to an empty cart.
type Store interface {
	Get(ctx context.Context, sessionID string) ([]domain.CartItem, error)
	Put(ctx context.Context, sessionID string, items []domain.CartItem) error
	Delete(ctx context.Context, sessionID string) error
}

var cjson = jsoniter.ConfigCompatibleWithStandardLibrary

func encodeItems(items []domain.CartItem) ([]byte, error) {
	return cjson.Marshal(items)
}

// decodeItems falls back to an empty cart on malformed data instead of
// propagating a parse error into request handling.
func decodeItems(data []byte) []domain.CartItem {
	if len(data) == 0 {
		return nil
	}
	var items []domain.CartItem
	if err := cjson.Unmarshal(data, &items); err != nil {
		zap.L().Warn("cart: discarding corrupt cart blob", zap.Error(err))
		return nil
	}
	return items
}

// MemoryStore keeps carts in process memory; used in tests and single-node
// development setups.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string][]byte)}
}

func (s *MemoryStore) Get(_ context.Context, sessionID string) ([]domain.CartItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return decodeItems(s.carts[sessionID]), nil
}

func (s *MemoryStore) Put(_ context.Context, sessionID string, items []domain.CartItem) error {
	data, err := encodeItems(items)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[sessionID] = data
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
	return nil
}

// BoltStore persists carts in a local bbolt file under the workdir.
type BoltStore struct {
	db     *bolt.DB
	bucket []byte
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 3 * time.Second})
	if err != nil {
		return nil, err
	}
	s := &BoltStore{db: db, bucket: []byte("carts")}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(s.bucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *BoltStore) Get(_ context.Context, sessionID string) ([]domain.CartItem, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(s.bucket).Get([]byte(sessionID)); v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return decodeItems(data), nil
}

func (s *BoltStore) Put(_ context.Context, sessionID string, items []domain.CartItem) error {
	data, err := encodeItems(items)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Put([]byte(sessionID), data)
	})
}

func (s *BoltStore) Delete(_ context.Context, sessionID string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Delete([]byte(sessionID))
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

// RedisStore keeps carts in Redis with a sliding 24h TTL.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: 24 * time.Hour}
}

func (s *RedisStore) key(sessionID string) string {
	return "voltdesk:cart:" + sessionID
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) ([]domain.CartItem, error) {
	val, err := s.rdb.Get(ctx, s.key(sessionID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	return decodeItems(val), nil
}

func (s *RedisStore) Put(ctx context.Context, sessionID string, items []domain.CartItem) error {
	data, err := encodeItems(items)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, s.key(sessionID), data, s.ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, s.key(sessionID)).Err()
}
