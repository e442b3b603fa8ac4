package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
api:
  environment: test
  port: "9090"
  jwt_signing_key: secret
  allowed_cors_domains:
    - http://localhost:3000
postgres:
  host: localhost
  user: hack
  db: hackathon
certificates:
  format: png
  async: true
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	p := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))

	return p
}

func TestLoad(t *testing.T) {
	conf, err := Load(writeConfig(t, sample))
	require.NoError(t, err)

	assert.Equal(t, "test", conf.API.Environment)
	assert.Equal(t, "9090", conf.API.Port)
	assert.Equal(t, "secret", conf.API.JWTSigningKey)
	assert.Equal(t, []string{"http://localhost:3000"}, conf.API.AllowedCORSDomains)
	assert.Equal(t, 24*time.Hour, conf.API.JWTTTL)

	assert.Equal(t, "hackathon", conf.Postgres.DB)
	assert.Equal(t, "5432", conf.Postgres.Port)

	assert.Equal(t, "png", conf.Certificates.Format)
	assert.True(t, conf.Certificates.Async)
	assert.Equal(t, "public", conf.Certificates.PublicDir)
	assert.Equal(t, "certificates", conf.Certificates.Dir)
	assert.Equal(t, 10*time.Second, conf.Certificates.FetchTimeout)

	assert.True(t, conf.Reaper.Enabled)
	assert.Equal(t, time.Hour, conf.Reaper.Retention)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("API_PORT", "7070")
	t.Setenv("CERTIFICATES_FORMAT", "pdf")

	conf, err := Load(writeConfig(t, sample))
	require.NoError(t, err)

	assert.Equal(t, "7070", conf.API.Port)
	assert.Equal(t, "pdf", conf.Certificates.Format)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}
