// Package presence implements the shared presence registry on Redis sets.
package presence

import (
	"context"
	"strings"
	"time"

	"beacon/config"
	domainerrors "beacon/internal/domain/errors"
	"beacon/internal/domain/service"

	goredis "github.com/redis/go-redis/v9"
)

const scanBatchSize = 200

// redisRegistry keeps one set of connection ids per user under keyPrefix+userID.
type redisRegistry struct {
	client    goredis.UniversalClient
	keyPrefix string
	ttl       time.Duration
}

// NewRedisRegistry creates a presence registry backed by Redis.
func NewRedisRegistry(client goredis.UniversalClient, cfg *config.Config) service.PresenceRegistry {
	return &redisRegistry{
		client:    client,
		keyPrefix: cfg.Presence.KeyPrefix,
		ttl:       cfg.Presence.TTL,
	}
}

func (r *redisRegistry) key(userID string) string {
	return r.keyPrefix + userID
}

// AddConnection adds the connection and re-arms the expiry in one transaction.
func (r *redisRegistry) AddConnection(ctx context.Context, userID, connectionID string) error {
	key := r.key(userID)

	_, err := r.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.SAdd(ctx, key, connectionID)
		pipe.Expire(ctx, key, r.ttl)

		return nil
	})
	if err != nil {
		return domainerrors.NewPresenceRegistryError(err, "failed to add connection")
	}

	return nil
}

// RemoveConnection drops the connection; Redis deletes the key once the set is empty.
func (r *redisRegistry) RemoveConnection(ctx context.Context, userID, connectionID string) error {
	if err := r.client.SRem(ctx, r.key(userID), connectionID).Err(); err != nil {
		return domainerrors.NewPresenceRegistryError(err, "failed to remove connection")
	}

	return nil
}

func (r *redisRegistry) HasAny(ctx context.Context, userID string) (bool, error) {
	count, err := r.client.SCard(ctx, r.key(userID)).Result()
	if err != nil {
		return false, domainerrors.NewPresenceRegistryError(err, "failed to read presence")
	}

	return count > 0, nil
}

// ListUsersWithPresence scans every presence key.
func (r *redisRegistry) ListUsersWithPresence(ctx context.Context) ([]string, error) {
	users := make([]string, 0)

	err := r.scan(ctx, func(key string) error {
		users = append(users, strings.TrimPrefix(key, r.keyPrefix))

		return nil
	})
	if err != nil {
		return nil, err
	}

	return users, nil
}

// CountAll sums the connections of every user.
func (r *redisRegistry) CountAll(ctx context.Context) (int64, error) {
	var total int64

	err := r.scan(ctx, func(key string) error {
		count, err := r.client.SCard(ctx, key).Result()
		if err != nil {
			return domainerrors.NewPresenceRegistryError(err, "failed to count connections")
		}
		total += count

		return nil
	})
	if err != nil {
		return 0, err
	}

	return total, nil
}

func (r *redisRegistry) scan(ctx context.Context, fn func(key string) error) error {
	iter := r.client.Scan(ctx, 0, r.keyPrefix+"*", scanBatchSize).Iterator()
	for iter.Next(ctx) {
		if err := fn(iter.Val()); err != nil {
			return err
		}
	}

	if err := iter.Err(); err != nil {
		return domainerrors.NewPresenceRegistryError(err, "failed to scan presence keys")
	}

	return nil
}
