package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Server      ServerConfig      `mapstructure:"server"`
	RecordStore RecordStoreConfig `mapstructure:"record_store"`
	Reference   ReferenceConfig   `mapstructure:"reference"`
	Match       MatchConfig       `mapstructure:"match"`
	Rules       RulesConfig       `mapstructure:"rules"`
	Render      RenderConfig      `mapstructure:"render"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// Address returns the listen address for the HTTP server.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// RecordStoreConfig holds the connection settings for the structured object
// store. The access token is a runtime secret supplied via the environment;
// the interactive login handshake happens outside this service.
type RecordStoreConfig struct {
	InstanceURL    string `mapstructure:"instance_url"`
	APIVersion     string `mapstructure:"api_version"`
	AccessToken    string `mapstructure:"access_token"`
	ClientID       string `mapstructure:"client_id"`
	ClientSecret   string `mapstructure:"client_secret"`
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
	QueryLimit     int    `mapstructure:"query_limit"`
}

// ReferenceConfig describes the shape of the flat-file extracts. Sheet names
// and header offsets vary by upstream export, so they are configuration, not
// code.
type ReferenceConfig struct {
	InsuranceDelimiter string `mapstructure:"insurance_delimiter"`
	InsuranceKeyColumn string `mapstructure:"insurance_key_column"`
	PaymentSheet       string `mapstructure:"payment_sheet"`
	PaymentSkipRows    int    `mapstructure:"payment_skip_rows"`
}

// MatchConfig holds the address fuzzy-match tuning. The threshold was tuned
// against one servicer's extracts; treat it as deployment configuration.
type MatchConfig struct {
	JaccardThreshold float64 `mapstructure:"jaccard_threshold"`
}

// RulesConfig holds eligibility rule severities where the business rule is
// not fixed. late_fee_severity is "block" or "review".
type RulesConfig struct {
	LateFeeSeverity string `mapstructure:"late_fee_severity"`
}

type RenderConfig struct {
	CompanyName    string `mapstructure:"company_name"`
	CompanyAddress string `mapstructure:"company_address"`
	TemplatePath   string `mapstructure:"template_path"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func validate(cfg *Config) error {
	if cfg.RecordStore.InstanceURL == "" {
		return fmt.Errorf("record_store.instance_url is required")
	}
	if cfg.Match.JaccardThreshold <= 0 || cfg.Match.JaccardThreshold > 1 {
		return fmt.Errorf("match.jaccard_threshold must be in (0, 1], got %v", cfg.Match.JaccardThreshold)
	}
	switch cfg.Rules.LateFeeSeverity {
	case "block", "review":
	default:
		return fmt.Errorf("rules.late_fee_severity must be \"block\" or \"review\", got %q", cfg.Rules.LateFeeSeverity)
	}
	return nil
}
