package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	defaultPort = 2336
	defaultEnv  = "development"
	defaultDSN  = "root:password@tcp(127.0.0.1:3306)/issa_plus?charset=utf8mb4&parseTime=True&loc=Local"
)

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int                `yaml:"port"`
	Env            string             `yaml:"env"` // "development" | "production"
	DSN            string             `yaml:"dsn"` // MySQL DSN
	RedisURL       string             `yaml:"redis_url"`
	JWTSecret      string             `yaml:"jwt_secret"`
	Timezone       string             `yaml:"timezone"`
	AllowedOrigins []string           `yaml:"allowed_origins"`
	Paths          RuntimePathsConfig `yaml:"paths"`
	S3             S3Options          `yaml:"s3"`
	AI             AIConfig           `yaml:"ai"`
	RDP            RDPOptions         `yaml:"rdp"`
}

// RDPOptions points at the terminal-server admin API used to mirror local
// user accounts into RDP groups. Optional: empty endpoint disables the calls.
type RDPOptions struct {
	Endpoint string `yaml:"endpoint"`
	Token    string `yaml:"token"`
}

type RuntimePathsConfig struct {
	Static string `yaml:"static"`
	Logs   string `yaml:"logs"`
}

// S3Options configures the optional object-storage backend for uploads.
// When Enable is false, uploads go to the local static directory.
type S3Options struct {
	Enable          bool   `yaml:"enable"`
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	Endpoint        string `yaml:"endpoint"`
	CustomDomain    string `yaml:"custom_domain"`
	PathStyleAccess bool   `yaml:"path_style_access"`
}

// AIConfig lists available text-generation providers for greeting drafts.
type AIConfig struct {
	Providers         []AIProvider `yaml:"providers"`
	GreetingProvider  string       `yaml:"greeting_provider"` // provider id, empty = first enabled
	GreetingLanguage  string       `yaml:"greeting_language"`
	GreetingMaxTokens int          `yaml:"greeting_max_tokens"`
}

type AIProvider struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	Type         string `yaml:"type"` // OpenAI | OpenAI-Compatible | Anthropic
	APIKey       string `yaml:"api_key"`
	Endpoint     string `yaml:"endpoint"`
	DefaultModel string `yaml:"default_model"`
	Enabled      bool   `yaml:"enabled"`
}

// Load reads the YAML config file at path, layering it over built-in defaults.
// A missing file is not an error: defaults apply.
func Load(path string) (*AppConfig, error) {
	cfg := &AppConfig{
		Port: defaultPort,
		Env:  defaultEnv,
		DSN:  defaultDSN,
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Port <= 0 {
		cfg.Port = defaultPort
	}
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = defaultEnv
	}
	if strings.TrimSpace(cfg.DSN) == "" {
		cfg.DSN = defaultDSN
	}
	return cfg, nil
}

// IsDev reports whether the app runs in development mode.
func (c *AppConfig) IsDev() bool {
	return strings.ToLower(strings.TrimSpace(c.Env)) != "production"
}

// StaticDir returns the absolute static file directory.
func (c *AppConfig) StaticDir() string {
	return resolveRuntimePath(c.Paths.Static, "static")
}

// LogDir returns the absolute log directory.
func (c *AppConfig) LogDir() string {
	return resolveRuntimePath(c.Paths.Logs, "logs")
}

// GreetingProvider returns the configured AI provider for greeting drafts,
// or nil when none is usable.
func (c *AIConfig) Provider() *AIProvider {
	want := strings.TrimSpace(c.GreetingProvider)
	for i := range c.Providers {
		p := &c.Providers[i]
		if !p.Enabled {
			continue
		}
		if want == "" || p.ID == want {
			return p
		}
	}
	return nil
}

func resolveRuntimePath(configured, fallback string) string {
	p := strings.TrimSpace(configured)
	if p == "" {
		p = fallback
	}
	if filepath.IsAbs(p) {
		return p
	}
	wd, err := os.Getwd()
	if err != nil {
		return p
	}
	return filepath.Join(wd, p)
}
