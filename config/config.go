package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration for the application
type Config struct {
	Env Environment `koanf:"-"`

	Server    ServerConfig    `koanf:"server"`
	DB        DBConfig        `koanf:"db"`
	Redis     RedisConfig     `koanf:"redis"`
	JWT       JWTConfig       `koanf:"jwt"`
	Storage   StorageConfig   `koanf:"storage"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	Log       LogConfig       `koanf:"log"`
}

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            string        `koanf:"port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins     []string      `koanf:"cors_origins"`
}

// Addr returns the listen address
func (c ServerConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// DBConfig selects and configures the relational store
type DBConfig struct {
	Driver        string `koanf:"driver"` // postgres or sqlite
	Host          string `koanf:"host"`
	Port          string `koanf:"port"`
	User          string `koanf:"user"`
	Password      string `koanf:"password"`
	Name          string `koanf:"name"`
	SSLMode       string `koanf:"ssl_mode"`
	Path          string `koanf:"path"` // sqlite file path
	MigrationsDir string `koanf:"migrations_dir"`
	MaxOpenConns  int    `koanf:"max_open_conns"`
}

// DSN builds the PostgreSQL connection string
func (c DBConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// RedisConfig holds the Redis connection settings. Redis is optional:
// an empty Host and URL disables rate limiting.
type RedisConfig struct {
	Host     string `koanf:"host"`
	Port     string `koanf:"port"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
	URL      string `koanf:"url"`
}

// Enabled reports whether a Redis endpoint is configured
func (c RedisConfig) Enabled() bool {
	return c.URL != "" || c.Host != ""
}

// JWTConfig holds token signing settings
type JWTConfig struct {
	Secret string        `koanf:"secret"`
	TTL    time.Duration `koanf:"ttl"`
}

// StorageConfig selects where recipe images are written
type StorageConfig struct {
	Driver    string `koanf:"driver"` // local or s3
	LocalDir  string `koanf:"local_dir"`
	PublicURL string `koanf:"public_url"`
	Bucket    string `koanf:"bucket"`
	Region    string `koanf:"region"`
	Endpoint  string `koanf:"endpoint"`
}

// RateLimitConfig bounds recipe creation per user
type RateLimitConfig struct {
	RecipeCreateLimit int           `koanf:"recipe_create_limit"`
	Window            time.Duration `koanf:"window"`
}

// LogConfig configures the global logger
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// ConfigPathEnvVar overrides the YAML config file location
const ConfigPathEnvVar = "CONFIG_PATH"

var defaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/foodgram/config.yaml",
}

// sections are the top-level koanf keys environment variables may address
var sections = []string{"server", "db", "redis", "jwt", "storage", "rate_limit", "log"}

// envAliases maps legacy variable names onto koanf paths
var envAliases = map[string]string{
	"s3_bucket_name": "storage.bucket",
	"aws_region":     "storage.region",
	"s3_endpoint":    "storage.endpoint",
}

// secretFiles maps Docker secret file names onto koanf paths
var secretFiles = map[string]string{
	"db_password":    "db.password",
	"jwt_secret":     "jwt.secret",
	"redis_password": "redis.password",
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            "8080",
			ShutdownTimeout: 5 * time.Second,
			CORSOrigins:     []string{"http://localhost:3000"},
		},
		DB: DBConfig{
			Driver:        "postgres",
			Host:          "localhost",
			Port:          "5432",
			User:          "postgres",
			Name:          "foodgram",
			SSLMode:       "disable",
			Path:          "foodgram.db",
			MigrationsDir: "migrations",
			MaxOpenConns:  25,
		},
		Redis: RedisConfig{
			Port: "6379",
		},
		JWT: JWTConfig{
			TTL: 24 * time.Hour,
		},
		Storage: StorageConfig{
			Driver:    "local",
			LocalDir:  "media",
			PublicURL: "/media",
		},
		RateLimit: RateLimitConfig{
			RecipeCreateLimit: 20,
			Window:            time.Hour,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadConfig builds the configuration from, in increasing priority: built-in
// defaults, an optional YAML file, environment variables and Docker secrets.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := loadSecrets(k); err != nil {
		return nil, fmt.Errorf("failed to load secrets: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	cfg.Env = GetEnvironment()

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range defaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// envTransformFunc maps DB_SSL_MODE to db.ssl_mode and RATE_LIMIT_WINDOW to
// rate_limit.window. Variables outside the known sections are ignored.
func envTransformFunc(key string) string {
	key = strings.ToLower(key)
	if alias, ok := envAliases[key]; ok {
		return alias
	}
	for _, section := range sections {
		if rest, ok := strings.CutPrefix(key, section+"_"); ok && rest != "" {
			return section + "." + rest
		}
	}
	return ""
}

// loadSecrets overlays Docker secrets found in SECRETS_DIR
func loadSecrets(k *koanf.Koanf) error {
	for name, path := range secretFiles {
		value := readSecret(name)
		if value == "" {
			continue
		}
		if err := k.Set(path, value); err != nil {
			return err
		}
	}
	return nil
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	data, err := os.ReadFile(filepath.Join(secretsDir, name))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
