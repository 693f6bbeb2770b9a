package personachat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// HistoryStore is an optional session-scoped turn cache for transports whose
// clients do not carry their own history. The core pipeline never reads it
// directly; it only ever sees the bounded window handed to Chat.
type HistoryStore interface {
	Append(ctx context.Context, session string, turns ...ConversationTurn) error
	Recent(ctx context.Context, session string, n int) ([]ConversationTurn, error)
	Clear(ctx context.Context, session string) error
}

// historyKeep caps stored turns per session.
const historyKeep = 50

// InMemoryHistoryStore is a thread-safe in-memory HistoryStore for
// development. Data is lost on restart.
type InMemoryHistoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]ConversationTurn
}

// NewInMemoryHistoryStore creates a new in-memory store.
func NewInMemoryHistoryStore() *InMemoryHistoryStore {
	return &InMemoryHistoryStore{sessions: make(map[string][]ConversationTurn)}
}

func (s *InMemoryHistoryStore) Append(_ context.Context, session string, turns ...ConversationTurn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := append(s.sessions[session], turns...)
	if len(list) > historyKeep {
		list = list[len(list)-historyKeep:]
	}
	s.sessions[session] = list
	return nil
}

func (s *InMemoryHistoryStore) Recent(_ context.Context, session string, n int) ([]ConversationTurn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.sessions[session]
	if n > 0 && len(list) > n {
		list = list[len(list)-n:]
	}
	out := make([]ConversationTurn, len(list))
	copy(out, list)
	return out, nil
}

func (s *InMemoryHistoryStore) Clear(_ context.Context, session string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, session)
	return nil
}

// RedisHistoryStore keeps session turns in a Redis list keyed
// "{prefix}:{session}:turns", trimmed to the newest historyKeep entries,
// with an optional idle TTL.
type RedisHistoryStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// RedisHistoryConfig configures the Redis store.
type RedisHistoryConfig struct {
	Prefix string        // key prefix, default "chat"
	TTL    time.Duration // session idle expiry, 0 = no expiry
}

// NewRedisHistoryStore creates a HistoryStore backed by Redis.
func NewRedisHistoryStore(client *redis.Client, config ...RedisHistoryConfig) *RedisHistoryStore {
	cfg := RedisHistoryConfig{Prefix: "chat"}
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "chat"
	}
	return &RedisHistoryStore{client: client, prefix: cfg.Prefix, ttl: cfg.TTL}
}

func (s *RedisHistoryStore) key(session string) string {
	return fmt.Sprintf("%s:%s:turns", s.prefix, session)
}

func (s *RedisHistoryStore) Append(ctx context.Context, session string, turns ...ConversationTurn) error {
	if len(turns) == 0 {
		return nil
	}
	key := s.key(session)
	values := make([]interface{}, 0, len(turns))
	for _, turn := range turns {
		data, err := json.Marshal(turn)
		if err != nil {
			return fmt.Errorf("marshal turn: %w", err)
		}
		values = append(values, data)
	}
	if err := s.client.RPush(ctx, key, values...).Err(); err != nil {
		return err
	}
	if err := s.client.LTrim(ctx, key, -int64(historyKeep), -1).Err(); err != nil {
		return err
	}
	if s.ttl > 0 {
		return s.client.Expire(ctx, key, s.ttl).Err()
	}
	return nil
}

func (s *RedisHistoryStore) Recent(ctx context.Context, session string, n int) ([]ConversationTurn, error) {
	start := int64(0)
	if n > 0 {
		start = -int64(n)
	}
	raw, err := s.client.LRange(ctx, s.key(session), start, -1).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	turns := make([]ConversationTurn, 0, len(raw))
	for _, item := range raw {
		var turn ConversationTurn
		if err := json.Unmarshal([]byte(item), &turn); err != nil {
			return nil, fmt.Errorf("decode turn: %w", err)
		}
		turns = append(turns, turn)
	}
	return turns, nil
}

func (s *RedisHistoryStore) Clear(ctx context.Context, session string) error {
	return s.client.Del(ctx, s.key(session)).Err()
}
