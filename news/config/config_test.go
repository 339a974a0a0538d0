package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 16, cfg.Chat.WindowSize)
	assert.Equal(t, "finance", cfg.News.DefaultInterest)
	assert.Equal(t, "en", cfg.News.Language)
	assert.Equal(t, "https://newsdata.io/api/1/latest", cfg.News.Endpoint)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
	assert.Equal(t, time.Hour, cfg.Gemini.CacheTTL)
	assert.True(t, cfg.Tracing.Enabled)
	assert.NotEmpty(t, cfg.Storage.DataDir)
}
