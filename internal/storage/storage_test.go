package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		Bucket:          "downloads",
		AccountID:       "acct123",
		Timeout:         5 * time.Second,
	}
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestConfigValidateListsEveryMissingKey(t *testing.T) {
	err := Config{}.Validate()
	require.Error(t, err)

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, []string{
		"R2_ACCESS_KEY_ID",
		"R2_SECRET_ACCESS_KEY",
		"R2_BUCKET_NAME",
		"R2_ENDPOINT or R2_ACCOUNT_ID",
	}, cfgErr.Missing)
}

func TestConfigValidateMissingBucket(t *testing.T) {
	cfg := validConfig()
	cfg.Bucket = ""

	err := cfg.Validate()
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, cfgErr.Missing, "R2_BUCKET_NAME")
	assert.Contains(t, err.Error(), "R2_BUCKET_NAME")
}

func TestConfigEndpointURL(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, "https://acct123.r2.cloudflarestorage.com", cfg.EndpointURL())

	cfg.Endpoint = "https://storage.example.com"
	assert.Equal(t, "https://storage.example.com", cfg.EndpointURL(), "explicit endpoint wins over account id")
}

func TestNewR2RejectsIncompleteConfig(t *testing.T) {
	cfg := validConfig()
	cfg.Bucket = ""

	client, err := NewR2(cfg, nil)
	require.Error(t, err)
	assert.Nil(t, client, "no partially constructed client on config error")

	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}
