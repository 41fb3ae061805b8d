package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yasinhessnawi1/Toolkit_Backend/internal/auth"
	"github.com/yasinhessnawi1/Toolkit_Backend/internal/config"
)

// fastHashConfig keeps the tests quick
func fastHashConfig() *auth.PasswordConfig {
	return &auth.PasswordConfig{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}
}

func TestHashAndVerifyPassword(t *testing.T) {
	cfg := fastHashConfig()

	hash, salt, err := auth.HashPassword("correct horse battery", cfg)
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEmpty(t, salt)

	ok, err := auth.VerifyPassword("correct horse battery", hash, salt, cfg)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = auth.VerifyPassword("wrong horse battery", hash, salt, cfg)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = auth.VerifyPassword("x", "%%%", salt, cfg)
	assert.Error(t, err)

	hash2, salt2, err := auth.HashPassword("correct horse battery", cfg)
	require.NoError(t, err)
	assert.NotEqual(t, salt, salt2, "each hash uses a fresh salt")
	assert.NotEqual(t, hash, hash2)
}

func TestConfigFromAppConfig(t *testing.T) {
	appCfg := &config.AppConfig{}
	appCfg.PasswordHash.Memory = 2048
	appCfg.PasswordHash.Iterations = 2
	appCfg.PasswordHash.Parallelism = 1
	appCfg.PasswordHash.SaltLength = 8
	appCfg.PasswordHash.KeyLength = 16

	cfg := auth.ConfigFromAppConfig(appCfg)
	assert.Equal(t, &auth.PasswordConfig{Memory: 2048, Iterations: 2, Parallelism: 1, SaltLength: 8, KeyLength: 16}, cfg)

	def := auth.DefaultPasswordConfig()
	assert.Equal(t, uint32(64*1024), def.Memory)
	assert.Equal(t, uint32(32), def.KeyLength)
}

func TestAccessKeyVerifier(t *testing.T) {
	verifier, err := auth.NewAccessKeyVerifier("a-long-access-key", fastHashConfig())
	require.NoError(t, err)

	assert.True(t, verifier.Verify("a-long-access-key"))
	assert.False(t, verifier.Verify("a-long-access-kez"))
	assert.False(t, verifier.Verify(""))

	_, err = auth.NewAccessKeyVerifier("short", fastHashConfig())
	assert.Error(t, err)
}
