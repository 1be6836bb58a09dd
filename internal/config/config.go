// Package config loads statespace settings from defaults, a YAML file,
// STATESPACE_ environment variables and command-line flags.
package config

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/aretw0/statespace/internal/logging"
	"github.com/aretw0/statespace/pkg/export"
	"github.com/aretw0/statespace/pkg/gate"
)

// Cache backends.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// MCP transports.
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
)

// Config holds all CLI configuration options.
type Config struct {
	LogLevel    string       `koanf:"log_level"`
	Format      string       `koanf:"format"`
	RFC4180     bool         `koanf:"rfc4180"`
	Policy      string       `koanf:"policy"`
	UniqueNames bool         `koanf:"unique_names"`
	MaxStates   int          `koanf:"max_states"`
	Sets        SetsConfig   `koanf:"sets"`
	Cache       CacheConfig  `koanf:"cache"`
	Server      ServerConfig `koanf:"server"`
	MCP         MCPConfig    `koanf:"mcp"`
}

// SetsConfig locates named variable sets.
// Dir is a loam repository; File is a single YAML or JSON document.
type SetsConfig struct {
	Dir  string `koanf:"dir"`
	File string `koanf:"file"`
}

// CacheConfig selects the export cache backend.
// EncryptionKey and FallbackKeys are base64 encoded 32-byte keys; when set,
// cached exports are sealed before they reach the backend.
type CacheConfig struct {
	Backend       string        `koanf:"backend"`
	RedisAddr     string        `koanf:"redis_addr"`
	RedisPassword string        `koanf:"redis_password"`
	RedisDB       int           `koanf:"redis_db"`
	TTL           time.Duration `koanf:"ttl"`
	Prefix        string        `koanf:"prefix"`
	EncryptionKey string        `koanf:"encryption_key"`
	FallbackKeys  []string      `koanf:"fallback_keys"`
}

// Keys decodes the encryption keys. A nil active key means encryption is off.
func (c CacheConfig) Keys() ([]byte, [][]byte, error) {
	if c.EncryptionKey == "" {
		return nil, nil, nil
	}
	active, err := decodeKey(c.EncryptionKey)
	if err != nil {
		return nil, nil, fmt.Errorf("cache.encryption_key: %w", err)
	}
	var fallback [][]byte
	for i, raw := range c.FallbackKeys {
		k, err := decodeKey(raw)
		if err != nil {
			return nil, nil, fmt.Errorf("cache.fallback_keys[%d]: %w", i, err)
		}
		fallback = append(fallback, k)
	}
	return active, fallback, nil
}

func decodeKey(raw string) ([]byte, error) {
	k, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid base64: %w", err)
	}
	if len(k) != 32 {
		return nil, fmt.Errorf("key must decode to 32 bytes, got %d", len(k))
	}
	return k, nil
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `koanf:"port"`
}

// MCPConfig holds MCP server settings.
type MCPConfig struct {
	Transport string `koanf:"transport"`
	Port      int    `koanf:"port"`
}

// Defaults returns the flat default key map.
func Defaults() map[string]any {
	return map[string]any{
		"log_level":            "info",
		"format":               string(export.FormatJSON),
		"rfc4180":              false,
		"policy":               string(gate.PolicyStrict),
		"unique_names":         false,
		"max_states":           0,
		"sets.dir":             "",
		"sets.file":            "",
		"cache.backend":        CacheNone,
		"cache.redis_addr":     "localhost:6379",
		"cache.redis_password": "",
		"cache.redis_db":       0,
		"cache.ttl":            "1h",
		"cache.prefix":         "statespace:export:",
		"cache.encryption_key": "",
		"cache.fallback_keys":  []string{},
		"server.port":          8080,
		"mcp.transport":        TransportStdio,
		"mcp.port":             8081,
	}
}

// Validate checks enumerated fields and ranges.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if _, err := export.ParseFormat(c.Format); err != nil {
		return err
	}
	if _, err := gate.ParsePolicy(c.Policy); err != nil {
		return err
	}
	if c.MaxStates < 0 {
		return fmt.Errorf("max_states must not be negative, got %d", c.MaxStates)
	}
	switch c.Cache.Backend {
	case CacheNone, CacheMemory, CacheRedis:
	default:
		return fmt.Errorf("unknown cache backend %q (want none, memory or redis)", c.Cache.Backend)
	}
	if _, _, err := c.Cache.Keys(); err != nil {
		return err
	}
	switch c.MCP.Transport {
	case TransportStdio, TransportSSE:
	default:
		return fmt.Errorf("unknown mcp transport %q (want stdio or sse)", c.MCP.Transport)
	}
	return nil
}

// FormatValue returns the parsed output format.
func (c *Config) FormatValue() export.Format {
	f, _ := export.ParseFormat(c.Format)
	return f
}

// PolicyValue returns the parsed gate policy.
func (c *Config) PolicyValue() gate.Policy {
	p, _ := gate.ParsePolicy(c.Policy)
	return p
}
