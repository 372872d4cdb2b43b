package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/PabloGalante/lumen-console/internal/domain"
)

// stateKey is the single fixed key the console-state blob lives under.
const stateKey = "lumen:console_state"

// Config holds the Redis connection settings.
type Config struct {
	Addr     string
	Password string
	DB       int
}

// StateStore persists the console-state blob as one JSON value in Redis.
type StateStore struct {
	rdb *redis.Client
}

// NewStateStore connects to Redis and validates the connection with a ping.
func NewStateStore(cfg Config) (*StateStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &StateStore{rdb: rdb}, nil
}

func (s *StateStore) Load(ctx context.Context) (*domain.ConsoleState, error) {
	blob, err := s.rdb.Get(ctx, stateKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrStateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get console state: %w", err)
	}

	var state domain.ConsoleState
	if err := json.Unmarshal(blob, &state); err != nil {
		return nil, fmt.Errorf("decoding console state: %w", err)
	}
	return &state, nil
}

func (s *StateStore) Save(ctx context.Context, state *domain.ConsoleState) error {
	blob, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding console state: %w", err)
	}

	if err := s.rdb.Set(ctx, stateKey, blob, 0).Err(); err != nil {
		return fmt.Errorf("redis set console state: %w", err)
	}
	return nil
}
