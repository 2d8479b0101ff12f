package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"     validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database"   validate:"required"`
	Auth       AuthConfig       `mapstructure:"auth"       validate:"required"`
	Pagination PaginationConfig `mapstructure:"pagination" validate:"required"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                  int    `mapstructure:"port"                    validate:"required,gt=0,lt=65536"`
	LogLevel              string `mapstructure:"log_level"               validate:"required,oneof=debug info warn error"`
	RequestTimeoutSeconds int    `mapstructure:"request_timeout_seconds" validate:"required,gt=0"`
	// CORSAllowedOrigin is sent as Access-Control-Allow-Origin. "*" allows any
	// origin without credentials.
	CORSAllowedOrigin     string `mapstructure:"cors_allowed_origin"     validate:"required"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL          string `mapstructure:"url"            validate:"required,url"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=1"`
	MaxIdleConns int    `mapstructure:"max_idle_conns" validate:"gte=0"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0,lte=10080"`
	BCryptCost           int    `mapstructure:"bcrypt_cost"            validate:"required,gte=4,lte=31"`
}

// PaginationConfig holds the per-resource list defaults.
type PaginationConfig struct {
	TaskDefaultLimit int `mapstructure:"task_default_limit" validate:"required,gt=0"`
	UserDefaultLimit int `mapstructure:"user_default_limit" validate:"required,gt=0"`
	MaxLimit         int `mapstructure:"max_limit"          validate:"required,gt=0"`
}

// RateLimitConfig throttles credential checks on the login endpoint.
type RateLimitConfig struct {
	LoginPerMinute int `mapstructure:"login_per_minute" validate:"required,gt=0"`
	LoginBurst     int `mapstructure:"login_burst"      validate:"required,gt=0"`
}
