package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RedisStore is a Store implementation backed by Redis. Documents are stored
// as JSON strings, each collection keeps a set of member ids, and a pub/sub
// channel per collection drives live listeners.
type RedisStore struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisStore creates a Store on top of an existing Redis client.
func NewRedisStore(client *redis.Client, logger *zap.Logger) *RedisStore {
	return &RedisStore{client: client, logger: logger}
}

func docKey(collection, id string) string {
	return fmt.Sprintf("doc:%s:%s", collection, id)
}

func collectionKey(collection string) string {
	return fmt.Sprintf("col:%s", collection)
}

func channelKey(collection string) string {
	return fmt.Sprintf("docs:%s", collection)
}

func (r *RedisStore) Get(ctx context.Context, collection, id string) (Document, error) {
	raw, err := r.client.Get(ctx, docKey(collection, id)).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("decoding document %s/%s: %w", collection, id, err)
	}
	return doc, nil
}

func (r *RedisStore) Set(ctx context.Context, collection, id string, doc Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding document %s/%s: %w", collection, id, err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, docKey(collection, id), raw, 0)
	pipe.SAdd(ctx, collectionKey(collection), id)
	pipe.Publish(ctx, channelKey(collection), id)
	_, err = pipe.Exec(ctx)
	return err
}

func (r *RedisStore) Update(ctx context.Context, collection, id string, fields Document) error {
	// Read-merge-write; last writer wins, same as Set.
	doc, err := r.Get(ctx, collection, id)
	if err != nil {
		return err
	}
	for k, v := range fields {
		doc[k] = v
	}
	return r.Set(ctx, collection, id, doc)
}

func (r *RedisStore) Delete(ctx context.Context, collection, id string) error {
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, docKey(collection, id))
	pipe.SRem(ctx, collectionKey(collection), id)
	pipe.Publish(ctx, channelKey(collection), id)
	_, err := pipe.Exec(ctx)
	return err
}

func (r *RedisStore) GetAll(ctx context.Context, collection string, filter *Filter) ([]Snapshot, error) {
	ids, err := r.client.SMembers(ctx, collectionKey(collection)).Result()
	if err != nil {
		return nil, err
	}

	snaps := make([]Snapshot, 0, len(ids))
	for _, id := range ids {
		doc, err := r.Get(ctx, collection, id)
		if err == ErrNotFound {
			// Membership set can briefly outlive a deleted document.
			continue
		}
		if err != nil {
			return nil, err
		}
		if !filter.Matches(doc) {
			continue
		}
		snaps = append(snaps, Snapshot{ID: id, Data: doc})
	}
	return snaps, nil
}

func (r *RedisStore) Listen(collection string, filter *Filter, onUpdate func([]Snapshot), onError func(error)) Subscription {
	ctx := context.Background()
	pubsub := r.client.Subscribe(ctx, channelKey(collection))
	sub := &redisSubscription{pubsub: pubsub}

	go func() {
		deliver := func() {
			snaps, err := r.GetAll(ctx, collection, filter)
			if err != nil {
				sub.fail(onError, err)
				return
			}
			sub.deliver(onUpdate, snaps)
		}

		deliver()
		for range pubsub.Channel() {
			deliver()
		}
	}()

	if r.logger != nil {
		r.logger.Debug("listener opened", zap.String("collection", collection))
	}
	return sub
}

func (r *RedisStore) NewID() string {
	return uuid.New().String()
}

type redisSubscription struct {
	mu        sync.Mutex
	cancelled bool
	pubsub    *redis.PubSub
}

func (s *redisSubscription) Cancel() {
	s.mu.Lock()
	s.cancelled = true
	s.mu.Unlock()
	_ = s.pubsub.Close()
}

func (s *redisSubscription) deliver(onUpdate func([]Snapshot), snaps []Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelled {
		return
	}
	onUpdate(snaps)
}

func (s *redisSubscription) fail(onError func(error), err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelled {
		return
	}
	onError(err)
}
