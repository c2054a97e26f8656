/**
 * @description
 * This package handles the configuration management for the clients-service.
 * It uses the Viper library to read configuration from environment variables,
 * providing a centralized and straightforward way to manage application settings.
 *
 * @dependencies
 * - github.com/spf13/viper: A popular library for Go application configuration.
 */
package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all the configuration variables for the clients-service.
// These values are loaded from environment variables.
type Config struct {
	ServerPort          string `mapstructure:"SERVER_PORT"`
	DatabaseURL         string `mapstructure:"DATABASE_URL"`
	RabbitMQURL         string `mapstructure:"RABBITMQ_URL"`
	RedisURL            string `mapstructure:"REDIS_URL"`
	TransferQueue       string `mapstructure:"TRANSFER_QUEUE"`
	PrefetchCount       int    `mapstructure:"PREFETCH_COUNT"`
	MaxDeliveryAttempts int    `mapstructure:"MAX_DELIVERY_ATTEMPTS"`
	DedupeKeyPrefix     string `mapstructure:"DEDUPE_KEY_PREFIX"`
}

// LoadConfig reads configuration from environment variables from the given path.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("SERVER_PORT", "3001")
	viper.SetDefault("TRANSFER_QUEUE", "bank-transaction-to-client-queue")
	viper.SetDefault("PREFETCH_COUNT", 10)
	viper.SetDefault("MAX_DELIVERY_ATTEMPTS", 3)
	viper.SetDefault("DEDUPE_KEY_PREFIX", "bank:transfers:applied")

	_ = viper.BindEnv("SERVER_PORT")
	_ = viper.BindEnv("DATABASE_URL")
	_ = viper.BindEnv("RABBITMQ_URL")
	_ = viper.BindEnv("REDIS_URL")
	_ = viper.BindEnv("TRANSFER_QUEUE")
	_ = viper.BindEnv("PREFETCH_COUNT")
	_ = viper.BindEnv("MAX_DELIVERY_ATTEMPTS")
	_ = viper.BindEnv("DEDUPE_KEY_PREFIX")

	if err = viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("level=warn component=config msg=\"failed to read config file; using environment values\" err=%v", err)
		}
	}

	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	if config.PrefetchCount < 0 {
		config.PrefetchCount = 0
	}
	if config.MaxDeliveryAttempts <= 0 {
		config.MaxDeliveryAttempts = 3
	}
	config.RedisURL = strings.TrimSpace(config.RedisURL)

	return
}
