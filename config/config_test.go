package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/caarlos0/env/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestDefaults(t *testing.T) {
	c := Defaults()
	assert.Equal(t, "8080", c.App.Port)
	assert.Equal(t, 72, c.App.TokenTTLHours)
	assert.Equal(t, []string{"*"}, c.App.AllowedOrigins)
	assert.Empty(t, c.App.JWTSecret)
	assert.Empty(t, c.Redis.Host)
	assert.Equal(t, 6, c.CheckIn.WindowStartHour)
	assert.Equal(t, 9, c.CheckIn.WindowEndHour)
	assert.Equal(t, 465, c.CheckIn.EarlyCutoffMinutes)
	assert.Equal(t, 480, c.CheckIn.OnTimeCutoffMinutes)
	assert.Zero(t, c.CheckIn.LatePoints)
	assert.Equal(t, "-07:00", c.CheckIn.DefaultTimezone)
}

func TestLoadJSONConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"app":{"Port":"9090"},"checkin":{"WindowStartHour":5,"Milestones":"5:3"}}`), 0o600))

	var c AppConfig
	require.NoError(t, loadJSONConfig(path, &c))
	applyDefaults(&c)
	assert.Equal(t, "9090", c.App.Port)
	assert.Equal(t, 5, c.CheckIn.WindowStartHour)
	assert.Equal(t, 9, c.CheckIn.WindowEndHour)
	assert.Equal(t, "5:3", c.CheckIn.Milestones)

	var missing AppConfig
	assert.NoError(t, loadJSONConfig(filepath.Join(dir, "absent.json"), &missing))

	require.NoError(t, os.WriteFile(path, []byte(`{"app":`), 0o600))
	assert.Error(t, loadJSONConfig(path, &c))
}

func TestEnvironmentOverridesFile(t *testing.T) {
	t.Setenv("APP_PORT", "7070")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("CHECKIN_EARLY_POINTS", "3")
	t.Setenv("REDIS_HOST", "cache.internal")

	c := Defaults()
	require.NoError(t, env.Parse(&c))
	assert.Equal(t, "7070", c.App.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.App.AllowedOrigins)
	assert.Equal(t, 3, c.CheckIn.EarlyPoints)
	assert.Equal(t, "cache.internal", c.Redis.Host)
	assert.Equal(t, 6379, c.Redis.Port)
}

func TestGormLogLevel(t *testing.T) {
	assert.Equal(t, logger.Info, toGormLogLevel("debug"))
	assert.Equal(t, logger.Warn, toGormLogLevel(""))
	assert.Equal(t, logger.Silent, toGormLogLevel("silent"))
	assert.True(t, GormConfig("info").TranslateError)
}
