// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Attenda Contributors

package store

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"
)

// RedisKV backs a storage tier with Redis. Values are stored without TTL:
// session lifetime is governed by the login flow, not by key expiry.
type RedisKV struct {
	client *redis.Client
}

// NewRedisKV creates a RedisKV over an existing client.
func NewRedisKV(client *redis.Client) (*RedisKV, error) {
	if client == nil {
		return nil, oops.Errorf("redis kv requires a client")
	}
	return &RedisKV{client: client}, nil
}

// Get returns the value stored under key.
func (r *RedisKV) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, oops.Code("AUTH_STORAGE_ERROR").
			With("backend", "redis").
			With("op", "get").
			Wrap(err)
	}
	return v, true, nil
}

// Set stores the value under key.
func (r *RedisKV) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		return oops.Code("AUTH_STORAGE_ERROR").
			With("backend", "redis").
			With("op", "set").
			Wrap(err)
	}
	return nil
}

// Delete removes the key.
func (r *RedisKV) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return oops.Code("AUTH_STORAGE_ERROR").
			With("backend", "redis").
			With("op", "delete").
			Wrap(err)
	}
	return nil
}
