package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"catalog-service/internal/config"
)

// Redis implementa Cache sobre go-redis para compartir el caché entre instancias.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis crea el cliente y comprueba la conexión.
func NewRedis(ctx context.Context, cfg config.RedisConfig, defaultTTL time.Duration) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return NewRedisFromClient(client, defaultTTL), nil
}

// NewRedisFromClient envuelve un cliente ya creado.
func NewRedisFromClient(client *redis.Client, defaultTTL time.Duration) *Redis {
	return &Redis{client: client, ttl: defaultTTL}
}

func (r *Redis) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = r.ttl
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *Redis) Get(ctx context.Context, key string, target interface{}) (bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, target); err != nil {
		return false, err
	}
	return true, nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

// DeleteByPrefix recorre las claves con SCAN y las borra por bloques.
func (r *Redis) DeleteByPrefix(ctx context.Context, prefix string) error {
	iter := r.client.Scan(ctx, 0, prefix+"*", 100).Iterator()

	batch := make([]string, 0, 100)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := r.client.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return r.client.Del(ctx, batch...).Err()
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}

var (
	_ Cache = (*Memory)(nil)
	_ Cache = (*Redis)(nil)
)

// Open usa Redis si está configurado y, si no, un caché en memoria.
func Open(ctx context.Context, cfg *config.Config) (Cache, error) {
	if cfg.Redis.Addr == "" {
		return NewMemory(cfg.Cache.TTL), nil
	}
	r, err := NewRedis(ctx, cfg.Redis, cfg.Cache.TTL)
	if err != nil {
		return nil, err
	}
	return r, nil
}
