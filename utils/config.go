package utils

import (
	"fmt"
	"log"
	"reflect"
	"time"

	"github.com/spf13/viper"
)

var (
	EnvPath string = "."
)

type Config struct {
	Env                 string        `mapstructure:"ENV"`
	ServerPort          int           `mapstructure:"SERVER_PORT"`
	SigningKey          string        `mapstructure:"SIGNING_KEY"`
	DBUsername          string        `mapstructure:"DB_USERNAME"`
	DBPassword          string        `mapstructure:"DB_PASSWORD"`
	DBHost              string        `mapstructure:"DB_HOST"`
	DBPort              string        `mapstructure:"DB_PORT"`
	DBDriver            string        `mapstructure:"DB_DRIVER"`
	DBName              string        `mapstructure:"DB_NAME"`
	SSLMode             string        `mapstructure:"SSLMODE"`
	Papertrail          string        `mapstructure:"PAPERTRAIL"`
	PapertrailAppName   string        `mapstructure:"PAPERTRAIL_APP_NAME"`
	RedisHost           string        `mapstructure:"REDIS_HOST"`
	RedisPort           string        `mapstructure:"REDIS_PORT"`
	RedisPassword       string        `mapstructure:"REDIS_PASSWORD"`
	AppBaseURL          string        `mapstructure:"APP_BASE_URL"`
	RateLimitRPS        float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst      int           `mapstructure:"RATE_LIMIT_BURST"`
	CouponSweepInterval time.Duration `mapstructure:"COUPON_SWEEP_INTERVAL"`
}

func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = "."
	}

	v := newViper(path, "")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("SSLMODE", "disable")
	v.SetDefault("APP_BASE_URL", "http://localhost:5173")
	v.SetDefault("RATE_LIMIT_RPS", 5)
	v.SetDefault("RATE_LIMIT_BURST", 10)
	v.SetDefault("COUPON_SWEEP_INTERVAL", "1h")

	var config Config
	bindEnvs(v, config)
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func validateConfig(config *Config) error {
	if config.ServerPort == 0 {
		return fmt.Errorf("server port must be specified")
	}

	if config.DBUsername == "" || config.DBPassword == "" {
		return fmt.Errorf("database credentials must be provided")
	}

	if config.SigningKey == "" {
		return fmt.Errorf("signing key must be provided")
	}

	return nil
}

// Redact masks sensitive information for logging
func (c *Config) Redact() Config {
	redacted := *c
	redacted.SigningKey = "****"
	redacted.DBPassword = "****"
	redacted.RedisPassword = "****"
	return redacted
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) RedisEnabled() bool {
	return c.RedisHost != ""
}

// LoadCustomConfig decodes the .env file and environment into val, which must
// be a pointer to a struct carrying mapstructure tags.
func LoadCustomConfig(path string, val interface{}) error {
	if path == "" {
		path = "."
	}

	rv := reflect.ValueOf(val)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("unable to decode config: expected a non-nil pointer, got %T", val)
	}

	v := newViper(path, "")
	bindEnvs(v, rv.Elem().Interface())

	if err := v.Unmarshal(val); err != nil {
		return fmt.Errorf("unable to decode config: %w", err)
	}

	return nil
}

func newViper(path, prefix string) *viper.Viper {
	v := viper.New()

	v.SetEnvPrefix(prefix)
	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		log.Printf("Warning: Unable to read config file: %v", err)
	}

	return v
}

// bindEnvs registers every mapstructure key so Unmarshal sees variables that
// only exist in the environment.
func bindEnvs(v *viper.Viper, iface interface{}) {
	t := reflect.TypeOf(iface)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("mapstructure")
		if tag == "" || tag == "-" {
			continue
		}
		_ = v.BindEnv(tag)
	}
}
