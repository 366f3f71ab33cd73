package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/redis/go-redis/v9"

	"meishiClient/internal/modules/gateway/domain"
)

// MemoryTokenStore keeps tokens for the lifetime of the process.
type MemoryTokenStore struct {
	mu     sync.RWMutex
	tokens domain.Tokens
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

func (s *MemoryTokenStore) Load(context.Context) (domain.Tokens, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens, nil
}

func (s *MemoryTokenStore) Save(_ context.Context, tokens domain.Tokens) error {
	s.mu.Lock()
	s.tokens = tokens
	s.mu.Unlock()
	return nil
}

func (s *MemoryTokenStore) Clear(context.Context) error {
	s.mu.Lock()
	s.tokens = domain.Tokens{}
	s.mu.Unlock()
	return nil
}

// FileTokenStore keeps tokens in a JSON document under the fixed keys access, refresh
// and role, so separate CLI invocations share one session.
type FileTokenStore struct {
	path string
	mu   sync.Mutex
}

func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

func (s *FileTokenStore) Load(context.Context) (domain.Tokens, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return domain.Tokens{}, nil
	}
	if err != nil {
		return domain.Tokens{}, fmt.Errorf("read token file: %w", err)
	}
	var tokens domain.Tokens
	if err := json.Unmarshal(data, &tokens); err != nil {
		return domain.Tokens{}, fmt.Errorf("decode token file: %w", err)
	}
	return tokens, nil
}

func (s *FileTokenStore) Save(_ context.Context, tokens domain.Tokens) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := json.MarshalIndent(tokens, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create token dir: %w", err)
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return os.Rename(tmp, s.path)
}

func (s *FileTokenStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}

// RedisTokenStore keeps tokens in a redis hash so several local processes can share
// one session.
type RedisTokenStore struct {
	client *redis.Client
	key    string
}

func NewRedisTokenStore(client *redis.Client, key string) *RedisTokenStore {
	if key == "" {
		key = "meishi:tokens"
	}
	return &RedisTokenStore{client: client, key: key}
}

// NewRedisClient parses rawURL and pings the server.
func NewRedisClient(ctx context.Context, rawURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

func (s *RedisTokenStore) Load(ctx context.Context) (domain.Tokens, error) {
	values, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return domain.Tokens{}, fmt.Errorf("redis load tokens: %w", err)
	}
	return domain.Tokens{
		Access:  values["access"],
		Refresh: values["refresh"],
		Role:    domain.Role(values["role"]),
	}, nil
}

func (s *RedisTokenStore) Save(ctx context.Context, tokens domain.Tokens) error {
	err := s.client.HSet(ctx, s.key,
		"access", tokens.Access,
		"refresh", tokens.Refresh,
		"role", string(tokens.Role),
	).Err()
	if err != nil {
		return fmt.Errorf("redis save tokens: %w", err)
	}
	return nil
}

func (s *RedisTokenStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis clear tokens: %w", err)
	}
	return nil
}
