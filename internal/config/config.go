package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where the config file is looked up when no path is given.
const DefaultPath = ".config.yaml"

// Config holds the GitLab endpoint and credential used for a report run.
type Config struct {
	URL   string `yaml:"url"`
	Token string `yaml:"token"`
}

// Error is returned for any missing, unreadable, malformed or incomplete configuration.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Load reads the YAML config file at path, applies environment overrides
// (GITLAB_URL, GITLAB_TOKEN) and validates the result.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &Error{Path: path, Err: fmt.Errorf("file not found: %w", err)}
		}
		return nil, &Error{Path: path, Err: fmt.Errorf("failed to read file: %w", err)}
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &Error{Path: path, Err: fmt.Errorf("failed to parse YAML: %w", err)}
	}

	cfg.URL = getEnvOrDefault("GITLAB_URL", cfg.URL)
	cfg.Token = getEnvOrDefault("GITLAB_TOKEN", cfg.Token)
	cfg.URL = strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	cfg.Token = strings.TrimSpace(cfg.Token)

	if err := cfg.Validate(); err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	return &cfg, nil
}

// Validate checks that both keys are present and the URL is an absolute http(s) address.
func (c *Config) Validate() error {
	if c.URL == "" {
		return errors.New("missing required key 'url'")
	}
	if c.Token == "" {
		return errors.New("missing required key 'token'")
	}

	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", c.URL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid url %q: expected an absolute http(s) address", c.URL)
	}
	return nil
}

// MaskedToken returns the token with all but its edges hidden, for log output.
func (c *Config) MaskedToken() string {
	if len(c.Token) > 8 {
		return c.Token[:4] + "..." + c.Token[len(c.Token)-4:]
	}
	return strings.Repeat("*", len(c.Token))
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
