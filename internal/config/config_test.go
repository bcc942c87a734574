package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Spok95/clinic-backend/internal/config"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  env: dev
  timezone: Europe/Kyiv
  base_url: https://clinic.example.com
telegram:
  token: "test-token"
  admin_chat_id: 42
http:
  addr: ":8080"
postgres:
  dsn: "postgres://localhost:5432/clinic"
metrics:
  enabled: true
`), 0o600))

	c, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "dev", c.App.Env)
	assert.Equal(t, "Europe/Kyiv", c.App.Timezone)
	assert.Equal(t, "https://clinic.example.com", c.App.BaseURL)
	assert.Equal(t, int64(42), c.Telegram.AdminChatID)
	assert.Equal(t, ":8080", c.HTTP.Addr)
	assert.True(t, c.Metrics.Enabled)

	// дефолты, если секции нет в файле
	assert.Equal(t, 21, c.Report.BatchSize)
	assert.Equal(t, "0 9 * * *", c.Schedule.CallList)
	assert.Equal(t, "0 8 * * *", c.Schedule.DailyReport)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
