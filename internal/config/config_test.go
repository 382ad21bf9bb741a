package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shimizu-Technology/hafaloha-wholesale-api/internal/config"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
api:
  environment: "test"
  base_url: "localhost:8080"
  port: "8080"
  jwt_signing_key: "test-key"
  allowed_cors_domains: "http://localhost:3000"

gin:
  mode: "test"

postgres:
  host: "localhost"
  port: "5432"
  user: "postgres"
  password: "postgres"
  db: "hafaloha_wholesale_test"

stripe:
  secret_key: "sk_test_xyz"
`), 0o600))

	conf, err := config.Load(path)

	require.NoError(t, err)
	require.NotNil(t, conf.API)
	assert.Equal(t, "test", conf.API.Environment)
	assert.Equal(t, "8080", conf.API.Port)
	assert.Equal(t, "test-key", conf.API.JWTSigningKey)
	require.NotNil(t, conf.Gin)
	assert.Equal(t, "test", conf.Gin.Mode)
	require.NotNil(t, conf.Postgres)
	assert.Equal(t, "hafaloha_wholesale_test", conf.Postgres.DB)
	require.NotNil(t, conf.Stripe)
	assert.Equal(t, "sk_test_xyz", conf.Stripe.SecretKey)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "does-not-exist.yml"))

	assert.Error(t, err)
}
