package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configuration from configs/config.yaml, overlays the
// environment-specific file if present, and lets environment variables
// (HUD_RECORD_STORE_ACCESS_TOKEN etc.) override anything.
func Load() (*Config, error) {
	// .env is optional; system environment wins either way.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	v.SetEnvPrefix("HUD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	applyDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	env := os.Getenv("HUD_APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}
	v.SetConfigName("config." + env)
	_ = v.MergeInConfig() // per-env overlay is optional

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "hud-generator")
	v.SetDefault("app.environment", "development")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("record_store.api_version", "v59.0")
	v.SetDefault("record_store.request_timeout", 30000)
	v.SetDefault("record_store.query_limit", 200)
	v.SetDefault("reference.insurance_delimiter", "|")
	v.SetDefault("reference.insurance_key_column", "account")
	v.SetDefault("reference.payment_sheet", "Detail2")
	v.SetDefault("reference.payment_skip_rows", 2)
	v.SetDefault("match.jaccard_threshold", 0.45)
	v.SetDefault("rules.late_fee_severity", "review")
	v.SetDefault("render.company_name", "COREVEST AMERICAN FINANCE LENDER LLC")
	v.SetDefault("render.company_address", "4 Park Plaza, Suite 900, Irvine, CA 92614")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}
