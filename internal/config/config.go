package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the full runtime configuration of the dashboard service.
type Config struct {
	Port string `mapstructure:"port" validate:"required"`

	Log struct {
		Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
		Format string `mapstructure:"format" validate:"oneof=console json"`
	} `mapstructure:"log"`

	Gateway GatewayConfig `mapstructure:"gateway"`

	Weather struct {
		PageSize int `mapstructure:"page_size" validate:"gt=0"`
		MaxRows  int `mapstructure:"max_rows" validate:"gtefield=PageSize"`
	} `mapstructure:"weather"`

	Predictions struct {
		PageSize int `mapstructure:"page_size" validate:"gt=0"`
		MaxRows  int `mapstructure:"max_rows" validate:"gtefield=PageSize"`
	} `mapstructure:"predictions"`

	DB struct {
		Path string `mapstructure:"path" validate:"required"`
	} `mapstructure:"db"`

	Activity struct {
		Retention     time.Duration `mapstructure:"retention" validate:"gt=0"`
		PruneInterval time.Duration `mapstructure:"prune_interval" validate:"gt=0"`
	} `mapstructure:"activity"`

	Dashboard struct {
		IdleTTL       time.Duration `mapstructure:"idle_ttl" validate:"gt=0"`
		SweepInterval time.Duration `mapstructure:"sweep_interval" validate:"gt=0"`
	} `mapstructure:"dashboard"`

	WS struct {
		DefaultInterval time.Duration `mapstructure:"default_interval" validate:"gt=0"`
	} `mapstructure:"ws"`
}

// GatewayConfig locates the hosted backend and names its tables.
type GatewayConfig struct {
	URL            string        `mapstructure:"url" validate:"required,url"`
	AnonKey        string        `mapstructure:"anon_key" validate:"required"`
	ServiceRoleKey string        `mapstructure:"service_role_key"`
	JWTSecret      string        `mapstructure:"jwt_secret"`
	Timeout        time.Duration `mapstructure:"timeout" validate:"gt=0"`

	Tables struct {
		Weather     string `mapstructure:"weather" validate:"required"`
		Predictions string `mapstructure:"predictions" validate:"required"`
		Users       string `mapstructure:"users" validate:"required"`
	} `mapstructure:"tables"`
}

// ErrMissingGateway is returned when the gateway URL or public key is absent.
var ErrMissingGateway = errors.New("gateway url and anon key must be configured (SUPABASE_URL, SUPABASE_ANON_KEY)")

// envBindings maps config keys to the environment variable names used by
// the rest of the platform.
var envBindings = map[string]string{
	"gateway.url":              "SUPABASE_URL",
	"gateway.anon_key":         "SUPABASE_ANON_KEY",
	"gateway.service_role_key": "SUPABASE_SERVICE_ROLE_KEY",
	"gateway.jwt_secret":       "SUPABASE_JWT_SECRET",
	"port":                     "PORT",
	"log.level":                "LOG_LEVEL",
	"db.path":                  "DB_PATH",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("gateway.timeout", 30*time.Second)
	v.SetDefault("gateway.tables.weather", "weather_data")
	v.SetDefault("gateway.tables.predictions", "predictions")
	v.SetDefault("gateway.tables.users", "users")
	v.SetDefault("weather.page_size", 1000)
	v.SetDefault("weather.max_rows", 15000)
	v.SetDefault("predictions.page_size", 1000)
	v.SetDefault("predictions.max_rows", 15000)
	v.SetDefault("db.path", "activity.db")
	v.SetDefault("activity.retention", 30*24*time.Hour)
	v.SetDefault("activity.prune_interval", time.Hour)
	v.SetDefault("dashboard.idle_ttl", 30*time.Minute)
	v.SetDefault("dashboard.sweep_interval", 5*time.Minute)
	v.SetDefault("ws.default_interval", 5*time.Second)
}

// Load reads .env (if present), configs/config.yml (if present) and the
// environment, then validates the result.
func Load(configDir, envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AddConfigPath(configDir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks required settings and ranges.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Gateway.URL) == "" || strings.TrimSpace(c.Gateway.AnonKey) == "" {
		return ErrMissingGateway
	}
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	c.Gateway.URL = strings.TrimRight(c.Gateway.URL, "/")
	return nil
}

// AdminEnabled reports whether the service role key needed for user
// administration is configured.
func (c *Config) AdminEnabled() bool {
	return c.Gateway.ServiceRoleKey != ""
}
