package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

// Config is the immutable application configuration, loaded once at
// process start and passed by reference.
type Config struct {
	Mode   string `mapstructure:"mode"`
	Server struct {
		HTTPPort    string        `mapstructure:"HTTPPort"`
		MetricsPort string        `mapstructure:"MetricsPort"`
		Timeout     time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
	Repositories struct {
		Postgres struct {
			Host     string `mapstructure:"host"`
			Password string `mapstructure:"password"`
			Port     string `mapstructure:"port"`
			Username string `mapstructure:"username"`
			DB       string `mapstructure:"db"`
			SSLMode  string `mapstructure:"sslmode"`
		} `mapstructure:"postgres"`
	} `mapstructure:"repositories"`
	JWT  JWTConfig `mapstructure:"jwt"`
	CORS struct {
		AllowedOrigins []string `mapstructure:"allowedOrigins"`
	} `mapstructure:"cors"`
}

// JWTConfig holds token issuance and verification settings. SecretKey
// is never read from the config file: it must come from the
// environment (JWT_SECRET_KEY), so a checked-in default can't leak
// into production.
type JWTConfig struct {
	SecretKey      string        `mapstructure:"-"`
	AccessTokenTTL time.Duration `mapstructure:"accessTokenTTL"`
	Issuer         string        `mapstructure:"issuer"`
}

// InitConfig loads configuration from a config.yml on disk, falling
// back to the embedded defaults, with environment overrides for
// secrets.
func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	v.SetDefault("server.HTTPPort", "8080")
	v.SetDefault("server.MetricsPort", "9090")
	v.SetDefault("jwt.accessTokenTTL", time.Hour)
	v.SetDefault("jwt.issuer", "carelink")

	if err := v.ReadInConfig(); err != nil {
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %w", err)
		}
	}

	v.AutomaticEnv()
	if err := v.BindEnv("repositories.postgres.password", "POSTGRES_PASSWORD"); err != nil {
		return Config{}, fmt.Errorf("failed to bind env: %w", err)
	}

	if err := v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	secret := v.GetString("JWT_SECRET_KEY")
	if secret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET_KEY must be set in the environment")
	}
	config.JWT.SecretKey = secret

	return config, nil
}
