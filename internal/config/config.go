package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bibdex/bibdex/internal/domain/entity"
	"github.com/bibdex/bibdex/internal/domain/search/schema"
)

// Config holds the bibdex configuration.
type Config struct {
	Env      string                  `yaml:"env"`
	HTTP     HTTPConfig              `yaml:"http"`
	Elastic  ElasticConfig           `yaml:"elastic"`
	Cache    CacheConfig             `yaml:"cache"`
	Auth     AuthConfig              `yaml:"auth"`
	Search   SearchConfig            `yaml:"search"`
	Entities map[string]EntityConfig `yaml:"entities"`
	Logging  LoggingConfig           `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	// EditorKeys are bearer keys that unlock internal (editorial) search.
	EditorKeys []string `yaml:"editor_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port              int `yaml:"port"`
	ReadTimeoutSec    int `yaml:"read_timeout_sec"`
	WriteTimeoutSec   int `yaml:"write_timeout_sec"`
	ShutdownSec       int `yaml:"shutdown_timeout_sec"`
	RequestTimeoutSec int `yaml:"request_timeout_sec"`
}

// ElasticConfig holds search engine connection settings.
type ElasticConfig struct {
	Addresses        []string `yaml:"addresses"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	IndexPrefix      string   `yaml:"index_prefix"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// CacheConfig holds the response cache settings.
type CacheConfig struct {
	Enabled          bool     `yaml:"enabled"`
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	TTLSec           int      `yaml:"ttl_sec"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// SearchConfig holds search and indexing limits.
type SearchConfig struct {
	DefaultLimit           int    `yaml:"default_limit"`
	MaxLimit               int    `yaml:"max_limit"`
	MaxFacetSize           int    `yaml:"max_facet_size"`
	ConcurrentAggregations *bool  `yaml:"concurrent_aggregations"`
	PreTag                 string `yaml:"highlight_pre_tag"`
	PostTag                string `yaml:"highlight_post_tag"`
	BulkChunkSize          int    `yaml:"bulk_chunk_size"`
	VerseBatchSize         int    `yaml:"verse_batch_size"`
}

// EntityConfig overrides the identifier and role definitions of one entity.
// A nil list keeps the built-in definitions; an empty list removes them.
type EntityConfig struct {
	Identifiers []DefinitionConfig `yaml:"identifiers"`
	Roles       []DefinitionConfig `yaml:"roles"`
}

// DefinitionConfig is an identifier or role definition.
type DefinitionConfig struct {
	Name  string `yaml:"name"`
	Label string `yaml:"label"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
// CONFIG_PATH, when set, points at the file directly.
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}
	return Parse(data, env)
}

// Parse decodes, defaults and validates a configuration document.
func Parse(data []byte, env string) (Config, error) {
	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Env == "" {
		cfg.Env = env
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.HTTP.RequestTimeoutSec <= 0 {
		c.HTTP.RequestTimeoutSec = 20
	}
	if c.Elastic.IndexPrefix == "" {
		c.Elastic.IndexPrefix = "bibdex"
	}
	if c.Elastic.ReadinessTimeout <= 0 {
		c.Elastic.ReadinessTimeout = 30
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 600
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
	if c.Search.DefaultLimit <= 0 {
		c.Search.DefaultLimit = 25
	}
	if c.Search.MaxLimit <= 0 {
		c.Search.MaxLimit = 1000
	}
	if c.Search.MaxFacetSize <= 0 {
		c.Search.MaxFacetSize = 10000
	}
	if c.Search.ConcurrentAggregations == nil {
		on := true
		c.Search.ConcurrentAggregations = &on
	}
	if c.Search.PreTag == "" {
		c.Search.PreTag = "<mark>"
	}
	if c.Search.PostTag == "" {
		c.Search.PostTag = "</mark>"
	}
	if c.Search.BulkChunkSize <= 0 {
		c.Search.BulkChunkSize = 500
	}
	if c.Search.VerseBatchSize <= 0 {
		c.Search.VerseBatchSize = 10
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Elastic.Addresses) == 0 {
		return fmt.Errorf("elastic.addresses is required")
	}
	if c.Cache.Enabled && len(c.Cache.Addrs) == 0 {
		return fmt.Errorf("cache.addrs is required when the cache is enabled")
	}
	if c.Search.DefaultLimit > c.Search.MaxLimit {
		return fmt.Errorf("search.default_limit %d exceeds search.max_limit %d", c.Search.DefaultLimit, c.Search.MaxLimit)
	}
	for i, k := range c.Auth.EditorKeys {
		if strings.TrimSpace(k) == "" {
			return fmt.Errorf("auth.editor_keys[%d] must not be empty", i)
		}
	}
	for name, e := range c.Entities {
		if _, err := entity.Parse(name); err != nil {
			return fmt.Errorf("entities.%s: %w", name, err)
		}
		for i, d := range append(append([]DefinitionConfig{}, e.Identifiers...), e.Roles...) {
			if d.Name == "" {
				return fmt.Errorf("entities.%s: definition %d has no name", name, i)
			}
		}
	}
	return nil
}

// CacheTTL returns the response cache TTL.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSec) * time.Second
}

// ToSchemaConfig builds the entity search configuration, applying identifier
// and role overrides on top of the built-in definitions.
func (c *Config) ToSchemaConfig() (schema.Config, error) {
	provider := entity.DefaultProvider()
	for raw, e := range c.Entities {
		name, err := entity.Parse(raw)
		if err != nil {
			return schema.Config{}, fmt.Errorf("entities.%s: %w", raw, err)
		}
		current := provider[name]
		identifiers, roles := current.Identifiers(), current.Roles()
		if e.Identifiers != nil {
			identifiers = definitions(e.Identifiers)
		}
		if e.Roles != nil {
			roles = definitions(e.Roles)
		}
		provider[name] = entity.NewMetadata(identifiers, roles)
	}
	return schema.Config{IndexPrefix: c.Elastic.IndexPrefix, Provider: provider}, nil
}

func definitions(in []DefinitionConfig) []entity.Definition {
	out := make([]entity.Definition, 0, len(in))
	for _, d := range in {
		out = append(out, entity.NewDefinition(d.Name, d.Label))
	}
	return out
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}

	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
