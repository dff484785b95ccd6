package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultDir is the per-project directory holding parley's config.
	DefaultDir = ".parley"

	// FallbackModel is used by the REPL when neither a flag nor the
	// config names a model.
	FallbackModel = "mock:default"
)

// DefaultPath is the config file used when --config is not given.
var DefaultPath = filepath.Join(DefaultDir, "config.json")

// Config holds all parley configuration
type Config struct {
	// Model used when --model is not given, e.g. "mock:default".
	DefaultModel string `json:"defaultModel,omitempty" toml:"defaultModel,omitempty" yaml:"defaultModel,omitempty"`

	// Log level: debug, info, warn, error
	LogLevel string `json:"logLevel,omitempty" toml:"logLevel,omitempty" yaml:"logLevel,omitempty"`

	// Provider settings keyed by model prefix ("openai", "mock", ...)
	Providers map[string]ProviderConfig `json:"providers,omitempty" toml:"providers,omitempty" yaml:"providers,omitempty"`
}

type ProviderConfig struct {
	APIKeyEnv string `json:"apiKeyEnv,omitempty" toml:"apiKeyEnv,omitempty" yaml:"apiKeyEnv,omitempty"`
	BaseURL   string `json:"baseURL,omitempty" toml:"baseURL,omitempty" yaml:"baseURL,omitempty"`
}

// Provider returns the settings for the named provider, or the zero value.
func (c *Config) Provider(name string) ProviderConfig {
	if c == nil || c.Providers == nil {
		return ProviderConfig{}
	}
	return c.Providers[name]
}

// DefaultConfig returns the configuration written by `parley init`
func DefaultConfig() *Config {
	return &Config{
		DefaultModel: FallbackModel,
		Providers: map[string]ProviderConfig{
			"openai": {
				APIKeyEnv: "OPENAI_API_KEY",
				BaseURL:   "https://api.openai.com/v1",
			},
		},
	}
}

// EnsureDir creates the directory holding path. It never creates or
// touches the config file itself.
func EnsureDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return nil
}

// Load reads config from path. The format follows the file extension:
// .toml, .yaml/.yml, anything else is JSON. A missing file is not an error
// and yields an empty config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &Config{}
	switch format(path) {
	case "toml":
		err = toml.Unmarshal(data, cfg)
	case "yaml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}

// Save writes config to path in the format implied by its extension
func (c *Config) Save(path string) error {
	if err := EnsureDir(path); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	switch format(path) {
	case "toml":
		var buf bytes.Buffer
		err = toml.NewEncoder(&buf).Encode(c)
		data = buf.Bytes()
	case "yaml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0640)
}

// WriteDefault writes DefaultConfig to path unless a file already exists
// there. It reports whether a file was created.
func WriteDefault(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("stat config: %w", err)
	}

	if err := DefaultConfig().Save(path); err != nil {
		return false, err
	}
	return true, nil
}

func format(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return "toml"
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}
