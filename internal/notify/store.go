// Package notify keeps the user-facing notification feed: a capped list of
// the most recent order events, persisted behind a small store port.
package notify

import (
	"context"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
)

// Notification types.
const (
	TypeOrderCreated  = "order_created"
	TypeStatusChanged = "order_status_changed"
	TypeOrderAssigned = "order_assigned"
	TypePayment       = "payment_received"
	TypeSystem        = "system"
)

// Notification is one feed entry.
type Notification struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	OrderUID  string `json:"order_uid,omitempty"`
	Read      bool   `json:"read"`
	CreatedAt int64  `json:"created_at"`
}

// Store persists the feed as one blob. A corrupt blob loads as an empty
// feed.
type Store interface {
	Load(ctx context.Context) ([]Notification, error)
	Save(ctx context.Context, list []Notification) error
}

var njson = jsoniter.ConfigCompatibleWithStandardLibrary

func decodeFeed(data []byte) []Notification {
	if len(data) == 0 {
		return nil
	}
	var list []Notification
	if err := njson.Unmarshal(data, &list); err != nil {
		zap.L().Warn("notify: discarding corrupt feed blob", zap.Error(err))
		return nil
	}
	return list
}

// MemoryStore keeps the feed in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	data []byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(_ context.Context) ([]Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return decodeFeed(s.data), nil
}

func (s *MemoryStore) Save(_ context.Context, list []Notification) error {
	data, err := njson.Marshal(list)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	return nil
}

// BoltStore persists the feed in a bbolt file.
type BoltStore struct {
	db     *bolt.DB
	bucket []byte
	key    []byte
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 3 * time.Second})
	if err != nil {
		return nil, err
	}
	s := &BoltStore{db: db, bucket: []byte("notifications"), key: []byte("feed")}
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

func (s *BoltStore) Load(_ context.Context) ([]Notification, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(s.bucket).Get(s.key); v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return decodeFeed(data), nil
}

func (s *BoltStore) Save(_ context.Context, list []Notification) error {
	data, err := njson.Marshal(list)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Put(s.key, data)
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

// RedisStore persists the feed in Redis.
type RedisStore struct {
	rdb *redis.Client
	key string
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb, key: "voltdesk:notifications"}
}

func (s *RedisStore) Load(ctx context.Context) ([]Notification, error) {
	val, err := s.rdb.Get(ctx, s.key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	return decodeFeed(val), nil
}

func (s *RedisStore) Save(ctx context.Context, list []Notification) error {
	data, err := njson.Marshal(list)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, s.key, data, 0).Err()
}
