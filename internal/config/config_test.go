package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o600))
	return dir
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := writeConfig(t, `
server:
  port: 9090
database:
  driver: memory
jwt:
  secret: s3cret
cache:
  ttl: 2m
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, 2*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 5432, cfg.Database.Port, "defaults fill unset keys")
	assert.Equal(t, "inquiries", cfg.Redis.Channel)
	assert.Equal(t, 24*time.Hour, cfg.JWT.TokenTTL())
}

func TestEnvironmentOverridesFile(t *testing.T) {
	dir := writeConfig(t, `
database:
  driver: memory
  host: file-host
jwt:
  secret: from-file
`)
	t.Setenv("CATALOG_DATABASE_HOST", "env-host")
	t.Setenv("CATALOG_JWT_SECRET", "from-env")
	t.Setenv("CATALOG_RATE_LIMIT_INQUIRY_BURST", "9")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "env-host", cfg.Database.Host)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, 9, cfg.RateLimit.InquiryBurst)
}

func TestValidateRejectsUnknownDriver(t *testing.T) {
	dir := writeConfig(t, `
database:
  driver: sqlite
jwt:
  secret: x
`)

	_, err := LoadConfig(dir)
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestValidateRequiresSecret(t *testing.T) {
	dir := writeConfig(t, `
database:
  driver: memory
`)

	_, err := LoadConfig(dir)
	assert.ErrorContains(t, err, "jwt.secret")
}
