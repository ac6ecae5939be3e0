package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"

	"acctex.io/internal/domain/entity"
)

// Config holds the application configuration
type Config struct {
	Server   Server   `mapstructure:"server"`
	Exchange Exchange `mapstructure:"exchange"`
	Webhook  Webhook  `mapstructure:"webhook"`
}

// Server configuration
type Server struct {
	Port string `mapstructure:"port"`
}

// Exchange configuration. AdminAccount is deliberately not defaulted: leaving
// it empty disables the privileged endpoints.
type Exchange struct {
	SystemAccount    string `mapstructure:"systemAccount"`
	AdminAccount     string `mapstructure:"adminAccount"`
	DepositIssuer    string `mapstructure:"depositIssuer"`
	DepositSymbol    string `mapstructure:"depositSymbol"`
	DepositPrecision uint8  `mapstructure:"depositPrecision"`
}

// Webhook configuration for the signed transfer-notice endpoint
type Webhook struct {
	HMACSecret         string        `mapstructure:"hmacSecret"`
	TimestampTolerance time.Duration `mapstructure:"timestampTolerance"`
}

// DepositAsset returns the single asset type accepted by the deposit path.
func (e Exchange) DepositAsset() entity.ExtendedSymbol {
	return entity.ExtendedSymbol{
		Issuer:    e.DepositIssuer,
		Symbol:    e.DepositSymbol,
		Precision: e.DepositPrecision,
	}
}

// LoadConfig loads configuration from YAML file
// Uses CONFIG_ENV environment variable to determine which config file to load
func LoadConfig(configDir string) (*Config, error) {
	configEnv := os.Getenv("CONFIG_ENV")
	if configEnv == "" {
		configEnv = "local"
	}

	// Load base app-config.yaml as template/defaults (if it exists)
	baseConfigPath := fmt.Sprintf("%s/app-config.yaml", configDir)
	baseConfigExists := false
	if _, err := os.Stat(baseConfigPath); err == nil {
		viper.SetConfigFile(baseConfigPath)
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read base config file: %w", err)
		}
		baseConfigExists = true
	}

	// Load environment-specific config (e.g., local.yaml when CONFIG_ENV=local)
	envConfigPath := fmt.Sprintf("%s/%s.yaml", configDir, configEnv)
	if _, err := os.Stat(envConfigPath); err == nil {
		viper.SetConfigFile(envConfigPath)
		if baseConfigExists {
			if err := viper.MergeInConfig(); err != nil {
				return nil, fmt.Errorf("failed to merge env config file: %w", err)
			}
		} else {
			if err := viper.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read env config file: %w", err)
			}
		}
	}
	// With no config files the service runs on defaults and env vars alone.

	viper.SetEnvPrefix("ACCTEX")
	viper.AutomaticEnv()

	viper.BindEnv("server.port", "ACCTEX_SERVER_PORT", "PORT")
	viper.BindEnv("exchange.systemAccount", "ACCTEX_SYSTEM_ACCOUNT")
	viper.BindEnv("exchange.adminAccount", "ACCTEX_ADMIN_ACCOUNT")
	viper.BindEnv("exchange.depositIssuer", "ACCTEX_DEPOSIT_ISSUER")
	viper.BindEnv("exchange.depositSymbol", "ACCTEX_DEPOSIT_SYMBOL")
	viper.BindEnv("exchange.depositPrecision", "ACCTEX_DEPOSIT_PRECISION")
	viper.BindEnv("webhook.hmacSecret", "ACCTEX_WEBHOOK_HMAC_SECRET", "HMAC_SECRET")
	viper.BindEnv("webhook.timestampTolerance", "ACCTEX_WEBHOOK_TIMESTAMP_TOLERANCE")

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Exchange.SystemAccount == "" {
		cfg.Exchange.SystemAccount = "acctexchange"
	}
	if cfg.Exchange.DepositIssuer == "" {
		cfg.Exchange.DepositIssuer = "eosio.token"
	}
	if cfg.Exchange.DepositSymbol == "" {
		cfg.Exchange.DepositSymbol = "CORE"
		cfg.Exchange.DepositPrecision = 4
	}
	if cfg.Webhook.HMACSecret == "" {
		cfg.Webhook.HMACSecret = "default-secret-key-change-in-production"
	}
	if cfg.Webhook.TimestampTolerance == 0 {
		cfg.Webhook.TimestampTolerance = 5 * time.Minute
	}

	if toleranceStr := viper.GetString("webhook.timestampTolerance"); toleranceStr != "" {
		if parsed, err := time.ParseDuration(toleranceStr); err == nil {
			cfg.Webhook.TimestampTolerance = parsed
		}
	}

	if !entity.ValidAccountName(cfg.Exchange.SystemAccount) {
		return nil, fmt.Errorf("invalid system account %q", cfg.Exchange.SystemAccount)
	}
	if cfg.Exchange.AdminAccount != "" && !entity.ValidAccountName(cfg.Exchange.AdminAccount) {
		return nil, fmt.Errorf("invalid admin account %q", cfg.Exchange.AdminAccount)
	}

	return &cfg, nil
}
