package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViperDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := FromViper(v)
	assert.Equal(t, 8080, cfg.APIPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Equal(t, "sessionid", cfg.Session.CookieName)
	assert.Equal(t, 14*24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "/account/login/", cfg.LoginURL)
	assert.Equal(t, "/announcements", cfg.URLPrefix)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
}

func TestFromViperOverrides(t *testing.T) {
	t.Setenv("API_PORT", "9000")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("URL_PREFIX", "/news/")
	t.Setenv("SESSION_TTL", "1h")

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := FromViper(v)
	assert.Equal(t, 9000, cfg.APIPort)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/news", cfg.URLPrefix)
	assert.Equal(t, time.Hour, cfg.Session.TTL)
}
