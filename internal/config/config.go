package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

// Config reúne la configuración del servicio, leída de variables de entorno.
type Config struct {
	Env         string
	Port        string
	Store       string
	SeedOnStart bool
	CORSOrigins []string

	Mongo MongoConfig
	Redis RedisConfig
	Cache CacheConfig
}

// MongoConfig contiene los parámetros de conexión a MongoDB.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration
}

// RedisConfig contiene los parámetros de Redis. Addr vacío desactiva Redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type CacheConfig struct {
	TTL time.Duration
}

// Load lee .env si existe (solo en desarrollo local) y después el entorno.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("loading .env: %w", err)
		}
	}

	cfg := &Config{
		Env:         getEnv("ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		Store:       strings.ToLower(getEnv("CATALOG_STORE", StoreMongo)),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),
		Mongo: MongoConfig{
			URI:        getEnv("MONGO_URI", ""),
			Database:   getEnv("MONGO_DB", "productCatalog"),
			Collection: getEnv("MONGO_COLLECTION", "products"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
	}

	var err error
	if cfg.SeedOnStart, err = getBool("SEED_ON_START", false); err != nil {
		return nil, err
	}
	if cfg.Mongo.Timeout, err = getDuration("MONGO_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.Cache.TTL, err = getDuration("CACHE_TTL", time.Minute); err != nil {
		return nil, err
	}
	if cfg.Redis.DB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Store {
	case StoreMongo:
		if c.Mongo.URI == "" {
			return errors.New("MONGO_URI is required when CATALOG_STORE=mongo")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("CATALOG_STORE must be %q or %q, got %q", StoreMongo, StoreMemory, c.Store)
	}
	return nil
}

// IsProduction indica si el servicio corre en producción.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", key, raw)
	}
	return n, nil
}

func getBool(key string, fallback bool) (bool, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s: invalid boolean %q", key, raw)
	}
	return b, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q", key, raw)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
