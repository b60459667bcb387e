// Package redisstore backs the key-value store with Redis, mirroring
// the original implementation's StoreMixin: each node addresses its own
// logical Redis database by node id, so one shared Redis instance can
// serve a whole local cluster without keys from different nodes
// colliding.
package redisstore

import (
	"context"

	"github.com/redis/go-redis/v9"
)

type Store struct {
	client *redis.Client
	ctx    context.Context
}

// Open connects to the Redis instance at addr, selecting DB nodeID.
func Open(addr string, nodeID int64) *Store {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   int(nodeID),
	})
	return &Store{client: client, ctx: context.Background()}
}

func (s *Store) Get(key string) ([]byte, bool) {
	v, err := s.client.Get(s.ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return v, true
}

func (s *Store) Set(key string, value []byte) error {
	return s.client.Set(s.ctx, key, value, 0).Err()
}

func (s *Store) Close() error { return s.client.Close() }
