package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		RecordStore: RecordStoreConfig{InstanceURL: "https://example.my.store.test"},
		Match:       MatchConfig{JaccardThreshold: 0.45},
		Rules:       RulesConfig{LateFeeSeverity: "review"},
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validate(validConfig()))

	missing := validConfig()
	missing.RecordStore.InstanceURL = ""
	assert.Error(t, validate(missing))

	badThreshold := validConfig()
	badThreshold.Match.JaccardThreshold = 1.5
	assert.Error(t, validate(badThreshold))

	badSeverity := validConfig()
	badSeverity.Rules.LateFeeSeverity = "maybe"
	assert.Error(t, validate(badSeverity))

	blocking := validConfig()
	blocking.Rules.LateFeeSeverity = "block"
	assert.NoError(t, validate(blocking))
}

func TestServerAddress(t *testing.T) {
	s := ServerConfig{Host: "127.0.0.1", Port: 9090}
	assert.Equal(t, "127.0.0.1:9090", s.Address())
}
