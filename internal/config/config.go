package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/spf13/viper"
)

const (
	DefaultListenAddr     = ":8080"
	DefaultCacheTTLMin    = 10
	DefaultCacheSweepMin  = 2
	DefaultFuzziness      = 1
	DefaultMinMatchLength = 2
	DefaultSnippetLength  = 500
	DefaultSearchLimit    = 20
)

// CacheConfig tunes the render cache.
type CacheConfig struct {
	TTLMinutes   int `yaml:"ttl_minutes"   json:"ttl_minutes"`
	SweepMinutes int `yaml:"sweep_minutes" json:"sweep_minutes"`
}

// SearchConfig tunes the fuzzy index.
type SearchConfig struct {
	Fuzziness      int `yaml:"fuzziness"        json:"fuzziness"`
	MinMatchLength int `yaml:"min_match_length" json:"min_match_length"`
	SnippetLength  int `yaml:"snippet_length"   json:"snippet_length"`
	DefaultLimit   int `yaml:"default_limit"    json:"default_limit"`
}

// Config is the service configuration, loaded from the YAML config file with
// viper environment overrides (SCRIBE_* variables).
type Config struct {
	ContentDir    string       `yaml:"contentdir"     json:"content_dir"`
	ListenAddr    string       `yaml:"listen_addr"    json:"listen_addr"`
	AuthSecret    string       `yaml:"auth_secret"    json:"auth_secret"`
	EnableWatcher bool         `yaml:"enable_watcher" json:"enable_watcher"`
	Cache         CacheConfig  `yaml:"cache"          json:"cache"`
	Search        SearchConfig `yaml:"search"         json:"search"`
}

func defaultConfig() *Config {
	return &Config{
		ListenAddr:    DefaultListenAddr,
		EnableWatcher: true,
		Cache: CacheConfig{
			TTLMinutes:   DefaultCacheTTLMin,
			SweepMinutes: DefaultCacheSweepMin,
		},
		Search: SearchConfig{
			Fuzziness:      DefaultFuzziness,
			MinMatchLength: DefaultMinMatchLength,
			SnippetLength:  DefaultSnippetLength,
			DefaultLimit:   DefaultSearchLimit,
		},
	}
}

func (cfg *Config) ensureDefaults() {
	if strings.TrimSpace(cfg.ListenAddr) == "" {
		cfg.ListenAddr = DefaultListenAddr
	}
	if cfg.Cache.TTLMinutes <= 0 {
		cfg.Cache.TTLMinutes = DefaultCacheTTLMin
	}
	if cfg.Cache.SweepMinutes <= 0 {
		cfg.Cache.SweepMinutes = DefaultCacheSweepMin
	}
	if cfg.Search.Fuzziness <= 0 {
		cfg.Search.Fuzziness = DefaultFuzziness
	}
	if cfg.Search.MinMatchLength <= 0 {
		cfg.Search.MinMatchLength = DefaultMinMatchLength
	}
	if cfg.Search.SnippetLength <= 0 {
		cfg.Search.SnippetLength = DefaultSnippetLength
	}
	if cfg.Search.DefaultLimit <= 0 {
		cfg.Search.DefaultLimit = DefaultSearchLimit
	}
}

// GetConfigPath returns the config file location under the given home
// directory.
func GetConfigPath(home string) string {
	return filepath.Join(home, ".scribe", "cfg.yaml")
}

// EnsureConfigExists writes an empty config file if none is present so a
// first run starts from defaults.
func EnsureConfigExists(home string) error {
	path := GetConfigPath(home)
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(path, []byte{}, 0o644)
}

// Load reads the config file under home, applying defaults and viper
// environment overrides.
func Load(home string) (*Config, error) {
	return FromFile(GetConfigPath(home))
}

// FromFile reads the config at path, applying defaults and viper
// environment overrides.
func FromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := defaultConfig()
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)
	cfg.ensureDefaults()
	return cfg, nil
}

// Validate checks the config is complete enough to run the service. Called
// after flag overrides are applied, not during load.
func (cfg *Config) Validate() error {
	if strings.TrimSpace(cfg.ContentDir) == "" {
		return errors.New("contentdir is required (set it in the config file or pass --dir)")
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	v := viper.New()
	v.SetEnvPrefix("scribe")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if dir := v.GetString("contentdir"); dir != "" {
		cfg.ContentDir = dir
	}
	if addr := v.GetString("listen_addr"); addr != "" {
		cfg.ListenAddr = addr
	}
	if secret := v.GetString("auth_secret"); secret != "" {
		cfg.AuthSecret = secret
	}
}

// Save writes the config back to its canonical location under home.
func (cfg *Config) Save(home string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	path := GetConfigPath(home)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
