package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"

	sharedConfig "github.com/bajabeat/descargas/internal/shared/config"
)

type Config struct {
	Server    sharedConfig.ServerConfig    `mapstructure:"server"`
	Database  sharedConfig.DatabaseConfig  `mapstructure:"database"`
	Logger    sharedConfig.LoggerConfig    `mapstructure:"logger"`
	Redis     sharedConfig.RedisConfig     `mapstructure:"redis"`
	Email     sharedConfig.EmailConfig     `mapstructure:"email"`
	Billing   sharedConfig.BillingConfig   `mapstructure:"billing"`
	Providers sharedConfig.ProvidersConfig `mapstructure:"providers"`
	Trial     sharedConfig.TrialConfig     `mapstructure:"trial"`
	Quota     sharedConfig.QuotaConfig     `mapstructure:"quota"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load loads configuration from file and environment variables
func Load(env string) (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../configs")
	viper.AddConfigPath("../../configs")

	viper.SetEnvPrefix("DESCARGAS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Allow env parameter to override server mode if provided
	if env != "" && env != "default" {
		viper.Set("server.mode", env)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "debug")

	// Database defaults
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 3306)
	viper.SetDefault("database.username", "root")
	viper.SetDefault("database.password", "password")
	viper.SetDefault("database.database", "descargas_dev")
	viper.SetDefault("database.max_idle_conns", 10)
	viper.SetDefault("database.max_open_conns", 100)
	viper.SetDefault("database.conn_max_lifetime", 60)

	// Logger defaults
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "console")
	viper.SetDefault("logger.output_path", "stdout")

	// Redis defaults
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	// Email defaults
	viper.SetDefault("email.smtp_host", "localhost")
	viper.SetDefault("email.smtp_port", 1025)
	viper.SetDefault("email.smtp_user", "")
	viper.SetDefault("email.smtp_password", "")
	viper.SetDefault("email.from_address", "noreply@descargas.local")
	viper.SetDefault("email.from_name", "Descargas")
	viper.SetDefault("email.operator_address", "ops@descargas.local")

	// Billing defaults
	viper.SetDefault("billing.price_key", "live")
	viper.SetDefault("billing.voucher_expiry_days", 3)
	viper.SetDefault("billing.plan_change_lock_ttl_seconds", 60)

	// Provider endpoints (credentials must be configured)
	viper.SetDefault("providers.card_base_url", "https://api.stripe.com/v1")
	viper.SetDefault("providers.wallet_base_url", "https://api-m.paypal.com")
	viper.SetDefault("providers.voucher_base_url", "https://api.conekta.io")

	// Trial defaults
	viper.SetDefault("trial.enabled", true)
	viper.SetDefault("trial.duration_days", 7)
	viper.SetDefault("trial.storage_gb", 5)

	// Quota defaults
	viper.SetDefault("quota.timezone", "America/Mexico_City")
	viper.SetDefault("quota.addon_home_dir", "/home/products/")
	viper.SetDefault("quota.ftp_uid", 2001)
	viper.SetDefault("quota.ftp_gid", 2001)
}
