package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Defaults used when neither the environment nor flags say otherwise.
const (
	DefaultAPIURL  = "http://localhost:5000/api"
	DefaultTimeout = 10 * time.Second
	DefaultTheme   = "classic"
)

// Environment variables read by Load.
const (
	EnvAPIURL       = "ITEMS_API_URL"
	EnvLegacyAPIURL = "REACT_APP_API_URL"
	EnvTimeout      = "ITEMS_TIMEOUT"
	EnvTheme        = "ITEMS_THEME"
	EnvLog          = "ITEMS_LOG"
	EnvNoColor      = "NO_COLOR"
)

// Config holds runtime options for the client.
type Config struct {
	APIURL  string        // base URL of the items API, without trailing slash
	Timeout time.Duration // per-request timeout
	Theme   string        // classic | neon | mono
	LogFile string        // debug log path; empty disables logging
	NoColor bool

	badTimeout string // unparseable ITEMS_TIMEOUT, reported by Validate
}

// Load reads .env (if present) and the environment.
// Resolution order: flags (applied by the caller) > env > .env > defaults.
// Nothing is checked yet: call Validate once the flags are applied.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}
	return FromEnv(os.Getenv), nil
}

// FromEnv builds an unvalidated Config from a getenv function.
func FromEnv(getenv func(string) string) *Config {
	cfg := &Config{
		APIURL:  DefaultAPIURL,
		Timeout: DefaultTimeout,
		Theme:   DefaultTheme,
	}
	if v := strings.TrimSpace(getenv(EnvAPIURL)); v != "" {
		cfg.APIURL = v
	} else if v := strings.TrimSpace(getenv(EnvLegacyAPIURL)); v != "" {
		cfg.APIURL = v
	}
	if v := strings.TrimSpace(getenv(EnvTimeout)); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Timeout = d
		} else {
			cfg.Timeout = 0
			cfg.badTimeout = v
		}
	}
	if v := strings.TrimSpace(getenv(EnvTheme)); v != "" {
		cfg.Theme = v
	}
	cfg.LogFile = strings.TrimSpace(getenv(EnvLog))
	cfg.NoColor = getenv(EnvNoColor) != ""
	return cfg
}

// Validate normalizes APIURL and Theme and checks every field.
func (c *Config) Validate() error {
	u, err := url.Parse(strings.TrimSpace(c.APIURL))
	if err != nil {
		return fmt.Errorf("invalid API URL %q: %w", c.APIURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid API URL %q: scheme must be http or https", c.APIURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid API URL %q: missing host", c.APIURL)
	}
	c.APIURL = strings.TrimRight(u.String(), "/")

	if c.Timeout <= 0 {
		if c.badTimeout != "" {
			return fmt.Errorf("invalid %s %q: want a duration like 10s", EnvTimeout, c.badTimeout)
		}
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	c.Theme = strings.ToLower(strings.TrimSpace(c.Theme))
	switch c.Theme {
	case "classic", "neon", "mono":
	default:
		return fmt.Errorf("unknown theme %q (want classic, neon or mono)", c.Theme)
	}
	return nil
}
