// Package config loads the pagecraft configuration from a TOML file with
// PAGECRAFT_* environment overrides.
//
// Example pagecraft.toml:
//
//	listen = ":8080"
//	log_level = "info"
//
//	[store]
//	backend = "file"
//	dir = "/var/lib/pagecraft"
//
//	[editor]
//	history_depth = 200
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/pagecraft/pkg/store"
	"github.com/matzehuels/pagecraft/pkg/transform"
)

// FileName is the config file looked up when no path is given.
const FileName = "pagecraft.toml"

// Config is the full application configuration.
type Config struct {
	Listen   string       `toml:"listen"`
	LogLevel string       `toml:"log_level"`
	Store    store.Config `toml:"store"`
	Editor   Editor       `toml:"editor"`
}

// Editor configures editing sessions.
type Editor struct {
	HistoryDepth int `toml:"history_depth"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Listen:   ":8080",
		LogLevel: "info",
		Store:    store.DefaultConfig(),
		Editor:   Editor{HistoryDepth: transform.DefaultHistoryDepth},
	}
}

// Load reads path over the defaults and applies environment overrides. An
// empty path tries [FileName] in the working directory; a missing default
// file is not an error, a missing explicit file is.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = FileName
	}
	if _, err := os.Stat(path); err == nil {
		md, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return cfg, fmt.Errorf("parse %s: unknown key %q", path, undecoded[0].String())
		}
	} else if explicit {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// applyEnv overrides fields from PAGECRAFT_* variables.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := map[string]*string{
		"PAGECRAFT_LISTEN":           &c.Listen,
		"PAGECRAFT_LOG_LEVEL":        &c.LogLevel,
		"PAGECRAFT_STORE_BACKEND":    &c.Store.Backend,
		"PAGECRAFT_STORE_DIR":        &c.Store.Dir,
		"PAGECRAFT_REDIS_ADDR":       &c.Store.RedisAddr,
		"PAGECRAFT_REDIS_PREFIX":     &c.Store.RedisPrefix,
		"PAGECRAFT_MONGO_URI":        &c.Store.MongoURI,
		"PAGECRAFT_MONGO_DATABASE":   &c.Store.MongoDatabase,
		"PAGECRAFT_MONGO_COLLECTION": &c.Store.MongoCollection,
	}
	for name, dst := range str {
		if v, ok := lookup(name); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"PAGECRAFT_REDIS_DB":      &c.Store.RedisDB,
		"PAGECRAFT_HISTORY_DEPTH": &c.Editor.HistoryDepth,
	}
	for name, dst := range ints {
		v, ok := lookup(name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		*dst = n
	}
	return nil
}

// Validate checks the configuration.
func (c Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level: unknown level %q", c.LogLevel)
	}
	if c.Listen == "" {
		return fmt.Errorf("listen: address required")
	}
	if c.Editor.HistoryDepth < 0 {
		return fmt.Errorf("editor.history_depth: must not be negative")
	}
	return c.Store.Validate()
}
