// Package redis keeps the last ventilation state in Redis so it survives restarts
// and is shared between replicas.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/boreas/internal/ventilation"
)

func New(address, username, password string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     address,
		Username: username,
		Password: password,
		DB:       0,
	})
}

// Ping checks the connection with a short timeout.
func Ping(ctx context.Context, client *redis.Client) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// StateCache implements ventilation.StateStore.
type StateCache struct {
	client *redis.Client
	prefix string
}

func NewStateCache(client *redis.Client, prefix string) *StateCache {
	return &StateCache{client: client, prefix: prefix}
}

func (s *StateCache) key(action string) string {
	return fmt.Sprintf("%s:ventilation:%s", s.prefix, action)
}

func (s *StateCache) Load(ctx context.Context, action string) (ventilation.State, bool, error) {
	raw, err := s.client.Get(ctx, s.key(action)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ventilation.State{}, false, nil
	}
	if err != nil {
		return ventilation.State{}, false, fmt.Errorf("redis get %s: %w", s.key(action), err)
	}

	var st ventilation.State
	if err := json.Unmarshal(raw, &st); err != nil {
		log.Warn().Err(err).Str("key", s.key(action)).Msg("discarding unreadable ventilation state")
		return ventilation.State{}, false, nil
	}
	return st, true, nil
}

func (s *StateCache) Save(ctx context.Context, action string, st ventilation.State) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key(action), raw, 0).Err(); err != nil {
		log.Error().Err(err).Str("key", s.key(action)).Msg("failed to store ventilation state")
		return fmt.Errorf("redis set %s: %w", s.key(action), err)
	}
	return nil
}
