package config

import "fmt"

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	BaseURL        string   `mapstructure:"base_url"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type EmailConfig struct {
	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port"`
	SMTPUser     string `mapstructure:"smtp_user"`
	SMTPPassword string `mapstructure:"smtp_password"`
	FromAddress  string `mapstructure:"from_address"`
	FromName     string `mapstructure:"from_name"`
	// OperatorAddress receives consistency-risk incident alerts.
	OperatorAddress string `mapstructure:"operator_address"`
}

// BillingConfig carries provider-facing settings for the billing engine.
// Credentials themselves live with the provider adapters; the engine only
// needs to know which price key (live/sandbox) to resolve on plans and how
// long cash vouchers stay payable.
type BillingConfig struct {
	// PriceKey selects which provider price reference column is authoritative:
	// "live" or "sandbox".
	PriceKey string `mapstructure:"price_key"`
	// VoucherExpiryDays is how long a cash voucher reference stays payable.
	VoucherExpiryDays int `mapstructure:"voucher_expiry_days"`
	// PlanChangeLockTTLSeconds bounds the per-user plan-change lease.
	PlanChangeLockTTLSeconds int `mapstructure:"plan_change_lock_ttl_seconds"`
}

// ProvidersConfig holds the payment provider API credentials. The card
// provider is Stripe-compatible, the wallet provider PayPal-compatible,
// and the voucher provider issues OXXO and SPEI cash references.
type ProvidersConfig struct {
	CardAPIKey     string `mapstructure:"card_api_key"`
	CardBaseURL    string `mapstructure:"card_base_url"`
	WalletClientID string `mapstructure:"wallet_client_id"`
	WalletSecret   string `mapstructure:"wallet_secret"`
	WalletBaseURL  string `mapstructure:"wallet_base_url"`
	VoucherAPIKey  string `mapstructure:"voucher_api_key"`
	VoucherBaseURL string `mapstructure:"voucher_base_url"`
}

type TrialConfig struct {
	Enabled      bool `mapstructure:"enabled"`
	DurationDays int  `mapstructure:"duration_days"`
	StorageGB    int  `mapstructure:"storage_gb"`
}

type QuotaConfig struct {
	// Timezone is the business timezone used for period-end boundaries.
	Timezone string `mapstructure:"timezone"`
	// AddonHomeDir is the home directory assigned to derived add-on accounts.
	AddonHomeDir string `mapstructure:"addon_home_dir"`
	// FTPUid/FTPGid are the system ids the FTP daemon runs accounts under.
	FTPUid int `mapstructure:"ftp_uid"`
	FTPGid int `mapstructure:"ftp_gid"`
}
