package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that the configuration is usable for the current environment
func ValidateConfig(cfg *Config) error {
	var errs []string
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg}.Error())
	}

	if strings.TrimSpace(cfg.Server.Port) == "" {
		add("server.port", "must not be empty")
	}

	switch cfg.DB.Driver {
	case "postgres":
		if cfg.DB.Host == "" || cfg.DB.Name == "" {
			add("db", "host and name are required for postgres")
		}
	case "sqlite":
		if cfg.DB.Path == "" {
			add("db.path", "is required for sqlite")
		}
	default:
		add("db.driver", fmt.Sprintf("unsupported driver %q", cfg.DB.Driver))
	}

	switch cfg.Storage.Driver {
	case "local":
		if cfg.Storage.LocalDir == "" {
			add("storage.local_dir", "is required for local storage")
		}
	case "s3":
		if cfg.Storage.Bucket == "" {
			add("storage.bucket", "is required for s3 storage")
		}
	default:
		add("storage.driver", fmt.Sprintf("unsupported driver %q", cfg.Storage.Driver))
	}

	if cfg.RateLimit.RecipeCreateLimit < 0 {
		add("rate_limit.recipe_create_limit", "must not be negative")
	}

	// Sensitive values must be supplied outside of development
	if cfg.Env == Production || cfg.Env == CI {
		if cfg.JWT.Secret == "" {
			add("jwt.secret", "is required")
		}
		if cfg.DB.Driver == "postgres" && cfg.DB.Password == "" {
			add("db.password", "is required")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}
	return nil
}
