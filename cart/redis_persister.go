package cart

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"tienda-gateway/models"
)

// Carts of shoppers who never come back expire eventually.
const redisCartTTL = 30 * 24 * time.Hour

// RedisPersister stores each session's cart as a single versioned JSON
// document under cart:<session>.
type RedisPersister struct {
	client *redis.Client
}

func NewRedisPersister(client *redis.Client) *RedisPersister {
	return &RedisPersister{client: client}
}

func (p *RedisPersister) Load(ctx context.Context, sessionID string) ([]models.LineItem, error) {
	data, err := p.client.Get(ctx, p.key(sessionID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeCartDocument(data)
}

func (p *RedisPersister) Save(ctx context.Context, sessionID string, items []models.LineItem) error {
	data, err := encodeCartDocument(items)
	if err != nil {
		return err
	}
	return p.client.Set(ctx, p.key(sessionID), data, redisCartTTL).Err()
}

func (p *RedisPersister) Delete(ctx context.Context, sessionID string) error {
	return p.client.Del(ctx, p.key(sessionID)).Err()
}

func (p *RedisPersister) key(sessionID string) string {
	return "cart:" + sessionID
}
