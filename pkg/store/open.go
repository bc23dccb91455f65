package store

import (
	"context"
	"fmt"
)

// Backend names accepted by [Open].
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Config selects and configures a backend.
type Config struct {
	Backend         string `toml:"backend"`
	Dir             string `toml:"dir"`
	RedisAddr       string `toml:"redis_addr"`
	RedisDB         int    `toml:"redis_db"`
	RedisPrefix     string `toml:"redis_prefix"`
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// DefaultConfig returns an in-memory configuration.
func DefaultConfig() Config {
	return Config{
		Backend:         BackendMemory,
		Dir:             "data",
		RedisAddr:       "localhost:6379",
		RedisPrefix:     "pagecraft:",
		MongoURI:        "mongodb://localhost:27017",
		MongoDatabase:   "pagecraft",
		MongoCollection: "content",
	}
}

// Validate checks that the backend is known and has what it needs.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendMemory:
	case BackendFile:
		if c.Dir == "" {
			return fmt.Errorf("store: file backend requires dir")
		}
	case BackendRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("store: redis backend requires redis_addr")
		}
	case BackendMongo:
		if c.MongoURI == "" || c.MongoDatabase == "" || c.MongoCollection == "" {
			return fmt.Errorf("store: mongo backend requires mongo_uri, mongo_database and mongo_collection")
		}
	default:
		return fmt.Errorf("store: unknown backend %q", c.Backend)
	}
	return nil
}

// OpenBackend connects the configured backend.
func OpenBackend(ctx context.Context, cfg Config) (Backend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Backend {
	case BackendFile:
		return NewFileBackend(cfg.Dir)
	case BackendRedis:
		return NewRedisBackend(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.RedisPrefix)
	case BackendMongo:
		return NewMongoBackend(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
	default:
		return NewMemoryBackend(), nil
	}
}

// Open connects the configured backend and returns a store over it.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	b, err := OpenBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return New(b), nil
}
