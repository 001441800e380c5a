// Package config provides configuration loading and validation for the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "ZKTOOLS_"

// Defaults used when neither the config file nor the environment set a value.
const (
	DefaultIDLength       = 10
	DefaultConcurrency    = 4
	DefaultTimeout        = 30 * time.Second
	DefaultUserAgent      = "Mozilla/5.0 (compatible; zktools/1.0)"
	DefaultPodcastDomain  = "zeroknowledge.fm"
	DefaultPodcastName    = "ZK"
	DefaultOEmbedEndpoint = "https://www.youtube.com/oembed"
	DefaultFeedURL        = "https://feeds.fireside.fm/zeroknowledge/rss"
	DefaultGistAPI        = "https://api.github.com"
)

// Config represents the CLI configuration that can be loaded from a YAML file.
// All fields are optional; missing values use defaults.
type Config struct {
	LogLevel  string `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`
	PrettyLog string `yaml:"pretty_log" validate:"omitempty,oneof=auto true false"`

	IDLength    int           `yaml:"id_length" validate:"min=0,max=40"`
	Concurrency int           `yaml:"concurrency" validate:"min=1,max=32"`
	Strict      bool          `yaml:"strict"`
	Timeout     time.Duration `yaml:"timeout" validate:"min=0"`
	UserAgent   string        `yaml:"user_agent"`
	UseBrowser  bool          `yaml:"use_browser"` // render Cloudflare-challenged pages in headless Chrome

	Podcast        Podcast  `yaml:"podcast"`
	TopicDomains   []string `yaml:"topic_domains" validate:"dive,hostname_rfc1123"`
	Shorteners     []string `yaml:"shorteners" validate:"dive,hostname_rfc1123"`
	OEmbedEndpoint string   `yaml:"oembed_endpoint" validate:"omitempty,url"`
	GistAPI        string   `yaml:"gist_api" validate:"omitempty,url"`

	Archive Archive `yaml:"archive"`
}

// Podcast identifies the show's own website.
type Podcast struct {
	Domain string `yaml:"domain" validate:"omitempty,hostname_rfc1123"`
	Name   string `yaml:"name"` // "ZK" strips " - ZK Podcast" from episode titles
}

// Archive configures the feed archiver.
type Archive struct {
	FeedURL   string `yaml:"feed_url" validate:"omitempty,url"`
	OutDir    string `yaml:"out_dir"`
	Overwrite bool   `yaml:"overwrite"`
}

// Default returns a Config populated with defaults.
func Default() *Config {
	return &Config{
		LogLevel:       "info",
		PrettyLog:      "auto",
		IDLength:       DefaultIDLength,
		Concurrency:    DefaultConcurrency,
		Timeout:        DefaultTimeout,
		UserAgent:      DefaultUserAgent,
		Podcast:        Podcast{Domain: DefaultPodcastDomain, Name: DefaultPodcastName},
		TopicDomains:   []string{"0xparc.org"},
		Shorteners:     []string{"t.co", "bit.ly", "buff.ly"},
		OEmbedEndpoint: DefaultOEmbedEndpoint,
		GistAPI:        DefaultGistAPI,
		Archive:        Archive{FeedURL: DefaultFeedURL, OutDir: "."},
	}
}

// LoadConfig loads configuration from a YAML file on top of the defaults.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	return cfg, nil
}

// Load reads the config file at path (when non-empty or set through
// ZKTOOLS_CONFIG), applies environment overrides and validates the result.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvPrefix + "CONFIG")
	}

	cfg := Default()
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from ZKTOOLS_* environment variables.
func (c *Config) ApplyEnv() error {
	c.LogLevel = getenv("LOG_LEVEL", c.LogLevel)
	c.PrettyLog = getenv("PRETTY_LOG", c.PrettyLog)
	c.UserAgent = getenv("USER_AGENT", c.UserAgent)
	c.Podcast.Domain = getenv("PODCAST_DOMAIN", c.Podcast.Domain)
	c.Podcast.Name = getenv("PODCAST_NAME", c.Podcast.Name)
	c.OEmbedEndpoint = getenv("OEMBED_ENDPOINT", c.OEmbedEndpoint)
	c.GistAPI = getenv("GIST_API", c.GistAPI)
	c.Archive.FeedURL = getenv("FEED_URL", c.Archive.FeedURL)
	c.Archive.OutDir = getenv("ARCHIVE_DIR", c.Archive.OutDir)
	c.TopicDomains = getenvSlice("TOPIC_DOMAINS", c.TopicDomains)
	c.Shorteners = getenvSlice("SHORTENERS", c.Shorteners)

	var err error
	if c.IDLength, err = getenvInt("ID_LENGTH", c.IDLength); err != nil {
		return err
	}
	if c.Concurrency, err = getenvInt("CONCURRENCY", c.Concurrency); err != nil {
		return err
	}
	if c.Strict, err = getenvBool("STRICT", c.Strict); err != nil {
		return err
	}
	if c.UseBrowser, err = getenvBool("USE_BROWSER", c.UseBrowser); err != nil {
		return err
	}
	if c.Timeout, err = getenvDuration("TIMEOUT", c.Timeout); err != nil {
		return err
	}
	return nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("'%s' failed '%s'", fe.Namespace(), fe.Tag()))
		}
		return fmt.Errorf("config error: %s", strings.Join(msgs, "; "))
	}
	return fmt.Errorf("config error: %w", err)
}

func getenv(key, def string) string {
	if v, ok := os.LookupEnv(EnvPrefix + key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func getenvSlice(key string, def []string) []string {
	raw := getenv(key, "")
	if raw == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getenvInt(key string, def int) (int, error) {
	raw := getenv(key, "")
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def, fmt.Errorf("config error: %s%s must be an integer: %w", EnvPrefix, key, err)
	}
	return n, nil
}

func getenvBool(key string, def bool) (bool, error) {
	raw := getenv(key, "")
	if raw == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return def, fmt.Errorf("config error: %s%s must be a boolean: %w", EnvPrefix, key, err)
	}
	return b, nil
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	raw := getenv(key, "")
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return def, fmt.Errorf("config error: %s%s must be a duration: %w", EnvPrefix, key, err)
	}
	return d, nil
}
