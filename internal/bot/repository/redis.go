package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"forex-signal-relay/internal/entity"
	redisPkg "forex-signal-relay/pkg/redis"

	"github.com/redis/go-redis/v9"
)

type redisDocumentStore struct {
	client *redisPkg.Client
	key    string
}

// NewRedisDocumentStore creates a DocumentStore backed by a single Redis
// key. A missing key loads as an empty document.
func NewRedisDocumentStore(client *redisPkg.Client, key string) DocumentStore {
	return &redisDocumentStore{client: client, key: key}
}

func (s *redisDocumentStore) Load(ctx context.Context) (*entity.Document, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return entity.NewDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read key %s: %w", s.key, err)
	}

	doc := entity.NewDocument()
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("failed to parse key %s: %w", s.key, err)
	}
	if doc.Journal == nil {
		doc.Journal = map[string][]entity.JournalRecord{}
	}
	return doc, nil
}

func (s *redisDocumentStore) Save(ctx context.Context, doc *entity.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key, data, 0).Err()
}
