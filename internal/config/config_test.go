package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidYAML(t *testing.T) {
	content := `
log_level: debug
id_length: 12
concurrency: 2
timeout: 5s
podcast:
  domain: example.fm
  name: EX
topic_domains:
  - topics.example.org
archive:
  feed_url: https://feeds.example.com/rss
  overwrite: true
`

	tmpFile := filepath.Join(t.TempDir(), "zktools.yaml")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 12, cfg.IDLength)
	assert.Equal(t, 2, cfg.Concurrency)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, "example.fm", cfg.Podcast.Domain)
	assert.Equal(t, "EX", cfg.Podcast.Name)
	assert.Equal(t, []string{"topics.example.org"}, cfg.TopicDomains)
	assert.Equal(t, "https://feeds.example.com/rss", cfg.Archive.FeedURL)
	assert.True(t, cfg.Archive.Overwrite)

	// Unset keys keep their defaults
	assert.Equal(t, DefaultOEmbedEndpoint, cfg.OEmbedEndpoint)
	assert.Equal(t, []string{"t.co", "bit.ly", "buff.ly"}, cfg.Shorteners)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "zktools.yaml")
	err := os.WriteFile(tmpFile, []byte("id_length: [unclosed"), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config YAML")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/zktools.yaml")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestDefault_IsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestValidate_Ranges(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"negative id length", func(c *Config) { c.IDLength = -1 }},
		{"id length beyond sha1", func(c *Config) { c.IDLength = 41 }},
		{"zero concurrency", func(c *Config) { c.Concurrency = 0 }},
		{"unknown log level", func(c *Config) { c.LogLevel = "verbose" }},
		{"bad pretty mode", func(c *Config) { c.PrettyLog = "sometimes" }},
		{"bad oembed endpoint", func(c *Config) { c.OEmbedEndpoint = "not a url" }},
		{"bad shortener host", func(c *Config) { c.Shorteners = []string{"bad host!"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "config error")
		})
	}
}

func TestApplyEnv_Overrides(t *testing.T) {
	t.Setenv("ZKTOOLS_ID_LENGTH", "0")
	t.Setenv("ZKTOOLS_STRICT", "true")
	t.Setenv("ZKTOOLS_TIMEOUT", "2s")
	t.Setenv("ZKTOOLS_SHORTENERS", "t.co, lnkd.in")
	t.Setenv("ZKTOOLS_PODCAST_NAME", "Other")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv())

	assert.Equal(t, 0, cfg.IDLength)
	assert.True(t, cfg.Strict)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.Equal(t, []string{"t.co", "lnkd.in"}, cfg.Shorteners)
	assert.Equal(t, "Other", cfg.Podcast.Name)
}

func TestApplyEnv_InvalidValues(t *testing.T) {
	t.Setenv("ZKTOOLS_CONCURRENCY", "many")

	cfg := Default()
	err := cfg.ApplyEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ZKTOOLS_CONCURRENCY")
}

func TestLoad_FromEnvPath(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "zktools.yaml")
	require.NoError(t, os.WriteFile(tmpFile, []byte("concurrency: 8\n"), 0644))
	t.Setenv("ZKTOOLS_CONFIG", tmpFile)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Concurrency)
}

func TestLoad_RejectsInvalidFile(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "zktools.yaml")
	require.NoError(t, os.WriteFile(tmpFile, []byte("concurrency: 100\n"), 0644))

	_, err := Load(tmpFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Concurrency")
}
