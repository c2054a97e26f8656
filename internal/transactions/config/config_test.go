package config

import (
	"os"
	"testing"

	"github.com/spf13/viper"
)

func TestLoadConfig_Defaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	unsetEnvWithCleanup(t, "SERVER_PORT")
	unsetEnvWithCleanup(t, "CONFIRMATION_QUEUE")
	unsetEnvWithCleanup(t, "MAX_DELIVERY_ATTEMPTS")

	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.ServerPort != "3000" {
		t.Fatalf("expected default server port 3000, got %q", cfg.ServerPort)
	}
	if cfg.ConfirmationQueue != "bank-client-to-transaction-queue" {
		t.Fatalf("expected default confirmation queue, got %q", cfg.ConfirmationQueue)
	}
	if cfg.MaxDeliveryAttempts != 3 {
		t.Fatalf("expected default retry ceiling 3, got %d", cfg.MaxDeliveryAttempts)
	}
}

func TestLoadConfig_EnvironmentOverridesDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	setEnvWithCleanup(t, "SERVER_PORT", "8080")
	setEnvWithCleanup(t, "CLIENTS_API_URL", "http://clients:3001")
	setEnvWithCleanup(t, "MAX_DELIVERY_ATTEMPTS", "5")

	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.ServerPort != "8080" {
		t.Fatalf("expected server port from environment, got %q", cfg.ServerPort)
	}
	if cfg.ClientsAPIURL != "http://clients:3001" {
		t.Fatalf("expected clients api url from environment, got %q", cfg.ClientsAPIURL)
	}
	if cfg.MaxDeliveryAttempts != 5 {
		t.Fatalf("expected retry ceiling from environment, got %d", cfg.MaxDeliveryAttempts)
	}
}

func TestLoadConfig_NonPositiveRetryCeilingFallsBack(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	setEnvWithCleanup(t, "MAX_DELIVERY_ATTEMPTS", "0")

	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.MaxDeliveryAttempts != 3 {
		t.Fatalf("expected fallback retry ceiling 3, got %d", cfg.MaxDeliveryAttempts)
	}
}

func setEnvWithCleanup(t *testing.T, key string, value string) {
	t.Helper()
	prev, hadPrev := os.LookupEnv(key)
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set env %s: %v", key, err)
	}
	t.Cleanup(func() {
		if hadPrev {
			_ = os.Setenv(key, prev)
			return
		}
		_ = os.Unsetenv(key)
	})
}

func unsetEnvWithCleanup(t *testing.T, key string) {
	t.Helper()
	prev, hadPrev := os.LookupEnv(key)
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("failed to unset env %s: %v", key, err)
	}
	t.Cleanup(func() {
		if hadPrev {
			_ = os.Setenv(key, prev)
			return
		}
		_ = os.Unsetenv(key)
	})
}
