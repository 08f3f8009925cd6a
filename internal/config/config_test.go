package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("HTTP_ADDR", ":8080")
	t.Setenv("JWT_ISSUER", "kis-tradegw")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("JWT_TTL", "1h")
	t.Setenv("GATEWAY_PASSWORD_HASH", "$2a$10$abcdefghijklmnopqrstuv")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Equal(t, time.Hour, c.JWTTTL)
	assert.True(t, c.VirtualTrading)
	assert.Equal(t, 8, c.KISMaxConcurrent)
	assert.Equal(t, "*", c.WebSocketOrigin)
	assert.Equal(t, "info", c.LogLevel)
	assert.False(t, c.BrokerConfigured())
}

func TestLoadMissingRequired(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadBrokerConfigured(t *testing.T) {
	setRequired(t)
	t.Setenv("KIS_APP_KEY", "key")
	t.Setenv("KIS_APP_SECRET", "secret")
	t.Setenv("KIS_ACCOUNT_NO", "12345678-01")
	t.Setenv("VIRTUAL_TRADING", "false")
	t.Setenv("KIS_MAX_CONCURRENT", "4")

	c, err := Load()
	require.NoError(t, err)
	assert.True(t, c.BrokerConfigured())
	assert.False(t, c.VirtualTrading)
	assert.Equal(t, 4, c.KISMaxConcurrent)
}

func TestLoadRejectsBadValues(t *testing.T) {
	setRequired(t)
	t.Setenv("VIRTUAL_TRADING", "maybe")
	_, err := Load()
	assert.Error(t, err)

	setRequired(t)
	t.Setenv("VIRTUAL_TRADING", "")
	t.Setenv("KIS_MAX_CONCURRENT", "0")
	_, err = Load()
	assert.Error(t, err)

	setRequired(t)
	t.Setenv("KIS_MAX_CONCURRENT", "")
	t.Setenv("JWT_TTL", "soon")
	_, err = Load()
	assert.Error(t, err)
}
