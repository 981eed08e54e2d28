package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Predictor PredictorConfig
	Mail      MailConfig
	Cache     CacheConfig
	Upload    UploadConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig holds the Postgres connection settings
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

// DSN renders the GORM Postgres connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode)
}

// AuthConfig holds JWT and OTP settings
type AuthConfig struct {
	Secret     string        `mapstructure:"secret"`
	AccessTTL  time.Duration `mapstructure:"access_ttl"`
	RefreshTTL time.Duration `mapstructure:"refresh_ttl"`
	OTPTTL     time.Duration `mapstructure:"otp_ttl"`
	OTPLength  int           `mapstructure:"otp_length"`
}

// PredictorConfig holds the external ML predictor settings. An empty base URL
// selects the built-in stub.
type PredictorConfig struct {
	BaseURL       string        `mapstructure:"base_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
	RatePerMinute int           `mapstructure:"rate_per_minute"`
}

// MailConfig holds OTP email delivery settings. When SES is disabled the
// codes are logged instead of sent.
type MailConfig struct {
	SESEnabled bool   `mapstructure:"ses_enabled"`
	Region     string `mapstructure:"region"`
	FromEmail  string `mapstructure:"from_email"`
}

// CacheConfig holds the nutrition report cache settings
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// UploadConfig holds inference image storage settings
type UploadConfig struct {
	Dir string `mapstructure:"dir"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/safebite/")

	v.SetEnvPrefix("SAFEBITE")
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env vars and defaults cover everything.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "safebite")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("auth.access_ttl", "30m")
	v.SetDefault("auth.refresh_ttl", "720h") // 30 days
	v.SetDefault("auth.otp_ttl", "10m")
	v.SetDefault("auth.otp_length", 6)

	v.SetDefault("predictor.base_url", "")
	v.SetDefault("predictor.timeout", "15s")
	v.SetDefault("predictor.rate_per_minute", 60)

	v.SetDefault("mail.ses_enabled", false)
	v.SetDefault("mail.region", "us-east-1")
	v.SetDefault("mail.from_email", "noreply@safebite.app")

	v.SetDefault("cache.ttl", "1h")

	v.SetDefault("upload.dir", "uploads")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Auth.Secret == "" {
		return fmt.Errorf("JWT secret is required (set SAFEBITE_AUTH_SECRET)")
	}

	if config.Auth.OTPLength < 4 || config.Auth.OTPLength > 10 {
		return fmt.Errorf("auth.otp_length must be between 4 and 10, got: %d", config.Auth.OTPLength)
	}

	if config.Predictor.Timeout <= 0 {
		return fmt.Errorf("predictor.timeout must be positive, got: %s", config.Predictor.Timeout)
	}

	if config.Mail.SESEnabled && config.Mail.FromEmail == "" {
		return fmt.Errorf("mail.from_email is required when SES is enabled")
	}

	return nil
}
