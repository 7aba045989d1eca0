package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load configuration from environment variables and optionally a .env file.
// Environment variables take precedence over values from the .env file.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	// Load a .env file into the process environment if one exists.
	// Missing files are fine; real environments set variables directly.
	_ = godotenv.Load()

	v := viper.New()

	setDefaults(v)

	// Read environment variables with the TASKHIVE_ prefix, mapping nested
	// keys like server.port to TASKHIVE_SERVER_PORT.
	v.SetEnvPrefix("TASKHIVE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")

	// Keys without meaningful defaults still need to be registered so that
	// AutomaticEnv picks them up during Unmarshal.
	v.SetDefault("database.url", "")

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_lifetime_hours", 24)
	v.SetDefault("auth.refresh_token_lifetime_hours", 720)
	v.SetDefault("auth.bcrypt_cost", 0)

	v.SetDefault("cache.redis_addr", "localhost:6379")
	v.SetDefault("cache.redis_password", "")
	v.SetDefault("cache.redis_db", 0)
	v.SetDefault("cache.comment_ttl", 10*time.Minute)

	v.SetDefault("mail.smtp_host", "localhost")
	v.SetDefault("mail.smtp_port", 25)
	v.SetDefault("mail.username", "")
	v.SetDefault("mail.password", "")

	v.SetDefault("object_store.endpoint", "")
	v.SetDefault("object_store.access_key", "")
	v.SetDefault("object_store.secret_key", "")
	v.SetDefault("object_store.bucket", "")
	v.SetDefault("object_store.use_ssl", false)

	v.SetDefault("translate.api_key", "")

	v.SetDefault("worker.count", 2)
	v.SetDefault("worker.queue_size", 100)
	v.SetDefault("worker.email_max_attempts", 3)
	v.SetDefault("worker.email_retry_delay", 5*time.Second)
	v.SetDefault("worker.daily_summary_hour", 7)
	v.SetDefault("worker.stuck_job_age", 30*time.Minute)
	v.SetDefault("worker.stuck_job_interval", 5*time.Minute)
}
