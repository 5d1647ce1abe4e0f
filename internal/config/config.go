package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Redis    RedisConfig
	SMTP     SMTPConfig
	Booking  BookingConfig
}

type ServerConfig struct {
	Port           int `mapstructure:"port" envconfig:"SERVER_PORT"`
	TimeoutSeconds int `mapstructure:"timeout_seconds" envconfig:"SERVER_TIMEOUT_SECONDS"`
}

type DatabaseConfig struct {
	Host         string `mapstructure:"host" envconfig:"DB_HOST"`
	Port         int    `mapstructure:"port" envconfig:"DB_PORT"`
	User         string `mapstructure:"user" envconfig:"DB_USER"`
	Password     string `mapstructure:"password" envconfig:"DB_PASSWORD"`
	Name         string `mapstructure:"name" envconfig:"DB_NAME"`
	SSLMode      string `mapstructure:"sslmode" envconfig:"DB_SSLMODE"`
	MaxOpenConns int    `mapstructure:"max_open_conns" envconfig:"DB_MAX_OPEN_CONNS"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret" envconfig:"JWT_SECRET"`
}

type RedisConfig struct {
	URL          string        `mapstructure:"url" envconfig:"REDIS_URL"`
	MaxRetries   int           `mapstructure:"max_retries"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host" envconfig:"SMTP_HOST"`
	Port     int    `mapstructure:"port" envconfig:"SMTP_PORT"`
	User     string `mapstructure:"user" envconfig:"SMTP_USER"`
	Password string `mapstructure:"password" envconfig:"SMTP_PASSWORD"`
	From     string `mapstructure:"from" envconfig:"SMTP_FROM"`
}

// BookingConfig bounds appointment windows. MaxDurationMinutes doubles as the
// lookback used when scanning for overlapping appointments, so it must be at
// least as long as any appointment the API will accept.
type BookingConfig struct {
	SlotMinutes        int `mapstructure:"slot_minutes" envconfig:"BOOKING_SLOT_MINUTES"`
	MinDurationMinutes int `mapstructure:"min_duration_minutes" envconfig:"BOOKING_MIN_DURATION_MINUTES"`
	MaxDurationMinutes int `mapstructure:"max_duration_minutes" envconfig:"BOOKING_MAX_DURATION_MINUTES"`
}

// MaxDuration returns the longest permitted appointment window, which is also
// the overlap-scan lookback.
func (b BookingConfig) MaxDuration() time.Duration {
	return time.Duration(b.MaxDurationMinutes) * time.Minute
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Environment variables win over the file.
	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("failed to process environment overrides: %w", err)
	}

	config.applyDefaults()
	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.TimeoutSeconds == 0 {
		c.Server.TimeoutSeconds = 30
	}
	if c.Booking.SlotMinutes == 0 {
		c.Booking.SlotMinutes = 30
	}
	if c.Booking.MinDurationMinutes == 0 {
		c.Booking.MinDurationMinutes = 15
	}
	if c.Booking.MaxDurationMinutes == 0 {
		c.Booking.MaxDurationMinutes = 240
	}
	if c.Redis.PoolSize == 0 {
		c.Redis.PoolSize = 10
	}
}

func (c *Config) validate() error {
	if c.Booking.SlotMinutes <= 0 {
		return fmt.Errorf("booking.slot_minutes must be positive")
	}
	if c.Booking.MinDurationMinutes <= 0 {
		return fmt.Errorf("booking.min_duration_minutes must be positive")
	}
	if c.Booking.MaxDurationMinutes < c.Booking.MinDurationMinutes {
		return fmt.Errorf("booking.max_duration_minutes must be >= booking.min_duration_minutes")
	}
	return nil
}
