package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server      ServerConfig      `mapstructure:"server" validate:"required"`
	Database    DatabaseConfig    `mapstructure:"database" validate:"required"`
	Auth        AuthConfig        `mapstructure:"auth" validate:"required"`
	Cache       CacheConfig       `mapstructure:"cache" validate:"required"`
	Mail        MailConfig        `mapstructure:"mail" validate:"required"`
	ObjectStore ObjectStoreConfig `mapstructure:"object_store"`
	Translate   TranslateConfig   `mapstructure:"translate"`
	Worker      WorkerConfig      `mapstructure:"worker" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret                 string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeHours        int    `mapstructure:"token_lifetime_hours" validate:"required,gt=0"`
	RefreshTokenLifetimeHours int    `mapstructure:"refresh_token_lifetime_hours" validate:"required,gt=0"`
	BcryptCost                int    `mapstructure:"bcrypt_cost" validate:"gte=0,lte=31"`
}

// CacheConfig contains Redis cache settings. Cached comment listings expire
// after CommentTTL; there is no explicit invalidation.
type CacheConfig struct {
	RedisAddr     string        `mapstructure:"redis_addr" validate:"required"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db" validate:"gte=0"`
	CommentTTL    time.Duration `mapstructure:"comment_ttl" validate:"required,gt=0"`
}

// MailConfig contains SMTP delivery settings.
type MailConfig struct {
	SMTPHost string `mapstructure:"smtp_host" validate:"required"`
	SMTPPort int    `mapstructure:"smtp_port" validate:"required,gt=0,lt=65536"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// ObjectStoreConfig contains settings for the attachment file store.
// Optional: when Endpoint is empty, attachment uploads are disabled.
type ObjectStoreConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

// TranslateConfig contains settings for the comment translation endpoint.
// Optional: when APIKey is empty, translation requests are rejected.
type TranslateConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// WorkerConfig contains background job processing settings.
type WorkerConfig struct {
	Count            int           `mapstructure:"count" validate:"required,gt=0"`
	QueueSize        int           `mapstructure:"queue_size" validate:"required,gt=0"`
	EmailMaxAttempts int           `mapstructure:"email_max_attempts" validate:"required,gt=0"`
	EmailRetryDelay  time.Duration `mapstructure:"email_retry_delay" validate:"required,gt=0"`
	DailySummaryHour int           `mapstructure:"daily_summary_hour" validate:"gte=0,lt=24"`
	StuckJobAge      time.Duration `mapstructure:"stuck_job_age" validate:"required,gt=0"`
	StuckJobInterval time.Duration `mapstructure:"stuck_job_interval" validate:"required,gt=0"`
}
