package rendition

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to the Redis server holding the rendition index.
func NewRedisClient(addr, pw string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: pw,
		DB:       db,
	})
}

// RedisStore is a Store keeping each rendition as a JSON value, plus one set
// per image listing its rendition keys.
//
// Renditions never expire; they are removed with DeleteAll.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore creates a RedisStore using rdb.
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func imageIndexKey(imageID int64) string {
	return fmt.Sprintf("renditions:%d", imageID)
}

// Get loads a rendition by key, mapping a missing key to ErrNotFound.
func (s *RedisStore) Get(ctx context.Context, imageID int64, spec, focalPointKey string) (*Rendition, error) {
	return s.get(ctx, renditionKey(imageID, spec, focalPointKey))
}

func (s *RedisStore) get(ctx context.Context, key string) (*Rendition, error) {
	data, err := s.rdb.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, ErrNotFound
	case err != nil:
		return nil, fmt.Errorf("failed to get rendition: %w", err)
	}

	var r Rendition
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to decode rendition %s: %w", key, err)
	}
	return &r, nil
}

// Create writes r with SETNX and indexes it under its image. When the key
// is already taken the stored rendition is returned with created false.
func (s *RedisStore) Create(ctx context.Context, r *Rendition) (*Rendition, bool, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, false, fmt.Errorf("failed to encode rendition: %w", err)
	}

	key := r.key()
	created, err := s.rdb.SetNX(ctx, key, data, 0).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to store rendition: %w", err)
	}

	if !created {
		existing, err := s.get(ctx, key)
		if err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}

	if err := s.rdb.SAdd(ctx, imageIndexKey(r.ImageID), key).Err(); err != nil {
		return nil, false, fmt.Errorf("failed to index rendition: %w", err)
	}
	return r, true, nil
}

// List loads every rendition in the image's index set. Index entries whose
// record has gone are skipped.
func (s *RedisStore) List(ctx context.Context, imageID int64) ([]*Rendition, error) {
	keys, err := s.rdb.SMembers(ctx, imageIndexKey(imageID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list renditions: %w", err)
	}

	list := make([]*Rendition, 0, len(keys))
	for _, key := range keys {
		r, err := s.get(ctx, key)
		if errors.Is(err, ErrNotFound) {
			// Value removed but index not yet updated.
			continue
		}
		if err != nil {
			return nil, err
		}
		list = append(list, r)
	}

	sortRenditions(list)
	return list, nil
}

// DeleteAll removes the image's renditions and its index set.
func (s *RedisStore) DeleteAll(ctx context.Context, imageID int64) ([]*Rendition, error) {
	list, err := s.List(ctx, imageID)
	if err != nil {
		return nil, err
	}

	keys := []string{imageIndexKey(imageID)}
	for _, r := range list {
		keys = append(keys, r.key())
	}

	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		return nil, fmt.Errorf("failed to delete renditions: %w", err)
	}
	return list, nil
}
