package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// LoadConfig reads configuration from config.{APP_ENV}.yaml and the
// MARKET_* environment variables, environment taking precedence.
func LoadConfig() (*Config, error) {
	setDefaults()

	env := strings.ToLower(os.Getenv("APP_ENV"))
	if env == "" {
		env = "development"
	}

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName(fmt.Sprintf("config.%s", env))
		viper.SetConfigType("yaml")
		viper.AddConfigPath("./configs")
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc/megamarket")
	}

	viper.SetEnvPrefix("MARKET")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// Environment variables alone are fine when no file is present.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 10*time.Second)
	viper.SetDefault("server.write_timeout", 10*time.Second)
	viper.SetDefault("server.idle_timeout", 60*time.Second)
	viper.SetDefault("server.shutdown_timeout", 15*time.Second)

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.dbname", "megamarket")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.max_open_conns", 10)
	viper.SetDefault("database.auto_migrate", false)

	viper.SetDefault("redis.addr", "localhost:6379")

	viper.SetDefault("kafka.enabled", false)
	viper.SetDefault("kafka.topic", "megamarket.events")
	viper.SetDefault("kafka.source", "/megamarket")

	viper.SetDefault("smtp.port", 587)
	viper.SetDefault("smtp.use_tls", true)

	viper.SetDefault("security.argon2_memory", 65536)
	viper.SetDefault("security.argon2_iterations", 3)
	viper.SetDefault("security.argon2_parallelism", 2)
	viper.SetDefault("security.argon2_salt_length", 16)
	viper.SetDefault("security.argon2_key_length", 32)

	viper.SetDefault("verification.code_ttl", 10*time.Minute)
	viper.SetDefault("verification.sweep_interval", time.Hour)

	viper.SetDefault("rate_limit.enabled", false)
	viper.SetDefault("rate_limit.limit", 5)
	viper.SetDefault("rate_limit.period", time.Hour)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.environment", "development")
}
