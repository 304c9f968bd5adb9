package cache

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"
)

// Cache guarda respuestas serializadas en JSON con TTL.
type Cache interface {
	// Get deserializa en target el valor guardado; devuelve false si no existe o expiró.
	Get(ctx context.Context, key string, target interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
	Close() error
}

type item struct {
	value      []byte
	expiration int64
}

// Memory es un caché en proceso. Un goroutine limpia los items expirados
// hasta que se llama a Close.
type Memory struct {
	items map[string]item
	mu    sync.RWMutex
	ttl   time.Duration
	stop  chan struct{}
	once  sync.Once
}

// NewMemory crea un caché en memoria con un TTL por defecto.
func NewMemory(defaultTTL time.Duration) *Memory {
	c := &Memory{
		items: make(map[string]item),
		ttl:   defaultTTL,
		stop:  make(chan struct{}),
	}
	go c.cleanupExpired(5 * time.Minute)
	return c
}

// Set guarda un valor en caché. ttl <= 0 usa el TTL por defecto.
func (c *Memory) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	if ttl <= 0 {
		ttl = c.ttl
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = item{
		value:      data,
		expiration: time.Now().Add(ttl).UnixNano(),
	}
	return nil
}

// Get obtiene y deserializa un valor del caché
func (c *Memory) Get(_ context.Context, key string, target interface{}) (bool, error) {
	c.mu.RLock()
	it, found := c.items[key]
	c.mu.RUnlock()

	if !found || time.Now().UnixNano() > it.expiration {
		return false, nil
	}

	if err := json.Unmarshal(it.value, target); err != nil {
		return false, err
	}
	return true, nil
}

// Delete elimina un valor del caché
func (c *Memory) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	return nil
}

// DeleteByPrefix elimina todas las claves que empiecen con un prefijo
func (c *Memory) DeleteByPrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.items {
		if strings.HasPrefix(key, prefix) {
			delete(c.items, key)
		}
	}
	return nil
}

// Size retorna el número de items en caché
func (c *Memory) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Close detiene la limpieza periódica.
func (c *Memory) Close() error {
	c.once.Do(func() { close(c.stop) })
	return nil
}

// cleanupExpired limpia items expirados periódicamente
func (c *Memory) cleanupExpired(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.removeExpired(time.Now())
		}
	}
}

func (c *Memory) removeExpired(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, it := range c.items {
		if now.UnixNano() > it.expiration {
			delete(c.items, key)
		}
	}
}
