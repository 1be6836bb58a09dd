package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/aretw0/statespace/pkg/gate"
)

// EnvPrefix prefixes every environment variable read by Load.
// A double underscore separates nesting levels: STATESPACE_CACHE__REDIS_ADDR -> cache.redis_addr.
const EnvPrefix = "STATESPACE_"

// DefaultFiles are searched in the working directory when no file is given.
var DefaultFiles = []string{"statespace.yaml", "statespace.yml"}

// flagKeys maps CLI flag names to config keys.
var flagKeys = map[string]string{
	"log-level":    "log_level",
	"format":       "format",
	"rfc4180":      "rfc4180",
	"policy":       "policy",
	"unique-names": "unique_names",
	"max-states":   "max_states",
	"dir":          "sets.dir",
	"file":         "sets.file",
	"cache":        "cache.backend",
	"redis-addr":   "cache.redis_addr",
	"redis-db":     "cache.redis_db",
	"cache-ttl":    "cache.ttl",
	"cache-prefix": "cache.prefix",
	"port":         "server.port",
	"transport":    "mcp.transport",
	"sse-port":     "mcp.port",
}

// findConfigFile finds the config file to use.
// Priority: explicit path > statespace.yaml > statespace.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range DefaultFiles {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Load loads configuration from defaults, file, environment variables and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults.
// It returns the file actually used, or "" when none was found.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, string, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, "", fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	used := findConfigFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, "", fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// 3. Environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, "", fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags, only the ones explicitly set
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			if f.Name == "lenient" {
				if on, _ := flags.GetBool("lenient"); on {
					return "policy", string(gate.PolicyLenient)
				}
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, "", fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, "", fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, used, nil
}

// envKey transforms STATESPACE_CACHE__REDIS_ADDR into cache.redis_addr.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}
