/**
 * @description
 * This package handles the configuration management for the transactions-service.
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

// Config holds all the configuration variables for the transactions-service.
// These values are loaded from environment variables.
type Config struct {
	ServerPort          string `mapstructure:"SERVER_PORT"`
	DatabaseURL         string `mapstructure:"DATABASE_URL"`
	RabbitMQURL         string `mapstructure:"RABBITMQ_URL"`
	ClientsAPIURL       string `mapstructure:"CLIENTS_API_URL"`
	ConfirmationQueue   string `mapstructure:"CONFIRMATION_QUEUE"`
	PrefetchCount       int    `mapstructure:"PREFETCH_COUNT"`
	MaxDeliveryAttempts int    `mapstructure:"MAX_DELIVERY_ATTEMPTS"`
}

// LoadConfig reads configuration from environment variables from the given path.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("SERVER_PORT", "3000")
	viper.SetDefault("CLIENTS_API_URL", "http://localhost:3001")
	viper.SetDefault("CONFIRMATION_QUEUE", "bank-client-to-transaction-queue")
	viper.SetDefault("PREFETCH_COUNT", 10)
	viper.SetDefault("MAX_DELIVERY_ATTEMPTS", 3)

	_ = viper.BindEnv("SERVER_PORT")
	_ = viper.BindEnv("DATABASE_URL")
	_ = viper.BindEnv("RABBITMQ_URL")
	_ = viper.BindEnv("CLIENTS_API_URL")
	_ = viper.BindEnv("CONFIRMATION_QUEUE")
	_ = viper.BindEnv("PREFETCH_COUNT")
	_ = viper.BindEnv("MAX_DELIVERY_ATTEMPTS")

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

	return
}
