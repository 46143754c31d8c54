package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	defaultPort     = 8000
	defaultEnv      = "development"
	defaultDSN      = "root:password@tcp(127.0.0.1:3306)/geoexplorer?charset=utf8mb4&parseTime=True&loc=Local"
	defaultRedisURL = "redis://localhost:6379/0"

	defaultOpenAIEndpoint     = "https://api.openai.com"
	defaultClassifierEndpoint = "https://openrouter.ai/api"
	defaultClassifierModel    = "google/gemma-2-9b-it"
	defaultSweepIntervalHours = 24
)

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int              `yaml:"port"`
	Env            string           `yaml:"env"` // "development" | "production"
	DSN            string           `yaml:"dsn"` // MySQL DSN
	RedisURL       string           `yaml:"redis_url"`
	JWTSecret      string           `yaml:"jwt_secret"`
	AllowedOrigins []string         `yaml:"allowed_origins"`
	OpenAI         ProviderConfig   `yaml:"openai"`
	Classifier     ClassifierConfig `yaml:"classifier"`
	Sweep          SweepConfig      `yaml:"sweep"`
}

// ProviderConfig configures the monitored-model provider API.
type ProviderConfig struct {
	APIKey   string `yaml:"api_key"`
	Endpoint string `yaml:"endpoint"`
}

// ClassifierConfig configures the secondary classification model.
type ClassifierConfig struct {
	APIKey   string `yaml:"api_key"`
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
}

// SweepConfig controls the scheduled monitoring sweep.
type SweepConfig struct {
	Enable        bool `yaml:"enable"`
	IntervalHours int  `yaml:"interval_hours"`
}

func (c *AppConfig) IsDev() bool { return c.Env != "production" }

// Load reads the YAML config, applies defaults and environment overrides.
// A missing file is not an error; defaults plus environment apply.
func Load(configPath string) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	if path == "" {
		path = DefaultConfigPath
	}

	cfg := defaultAppConfig()

	content, err := os.ReadFile(path)
	if err == nil {
		decoder := yaml.NewDecoder(bytes.NewReader(content))
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parse config file %q: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}

	applyEnvOverrides(&cfg)
	normalize(&cfg)

	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d, expected 1-65535", cfg.Port)
	}
	if cfg.Sweep.IntervalHours < 1 {
		return nil, fmt.Errorf("invalid sweep.interval_hours %d, expected >= 1", cfg.Sweep.IntervalHours)
	}

	return &cfg, nil
}

func defaultAppConfig() AppConfig {
	return AppConfig{
		Port:     defaultPort,
		Env:      defaultEnv,
		DSN:      defaultDSN,
		RedisURL: defaultRedisURL,
		OpenAI: ProviderConfig{
			Endpoint: defaultOpenAIEndpoint,
		},
		Classifier: ClassifierConfig{
			Endpoint: defaultClassifierEndpoint,
			Model:    defaultClassifierModel,
		},
		Sweep: SweepConfig{
			IntervalHours: defaultSweepIntervalHours,
		},
	}
}

// applyEnvOverrides lets process environment supply the secrets that do not
// belong in the config file.
func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); v != "" {
		cfg.OpenAI.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("OPENROUTER_API_KEY")); v != "" {
		cfg.Classifier.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("DATABASE_DSN")); v != "" {
		cfg.DSN = v
	}
	if v := strings.TrimSpace(os.Getenv("REDIS_URL")); v != "" {
		cfg.RedisURL = v
	}
	if v := strings.TrimSpace(os.Getenv("JWT_SECRET")); v != "" {
		cfg.JWTSecret = v
	}
}

func normalize(cfg *AppConfig) {
	cfg.Env = strings.ToLower(strings.TrimSpace(cfg.Env))
	if cfg.Env == "" {
		cfg.Env = defaultEnv
	}
	cfg.OpenAI.Endpoint = strings.TrimRight(strings.TrimSpace(cfg.OpenAI.Endpoint), "/")
	if cfg.OpenAI.Endpoint == "" {
		cfg.OpenAI.Endpoint = defaultOpenAIEndpoint
	}
	cfg.Classifier.Endpoint = strings.TrimRight(strings.TrimSpace(cfg.Classifier.Endpoint), "/")
	if cfg.Classifier.Endpoint == "" {
		cfg.Classifier.Endpoint = defaultClassifierEndpoint
	}
	if strings.TrimSpace(cfg.Classifier.Model) == "" {
		cfg.Classifier.Model = defaultClassifierModel
	}

	origins := make([]string, 0, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		o = strings.TrimSpace(o)
		if o != "" {
			origins = append(origins, o)
		}
	}
	cfg.AllowedOrigins = origins
}
