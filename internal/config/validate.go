package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/graphway/graphway/internal/idgen"
	"github.com/graphway/graphway/internal/models"
)

// Validate checks the configuration. Load calls it; callers that override
// fields afterwards (CLI flags) call it again.
func (c *Config) Validate() error {
	if err := c.validateStore(); err != nil {
		return err
	}

	if err := c.validateSession(); err != nil {
		return err
	}

	if err := c.validateNetwork(); err != nil {
		return err
	}

	if err := c.validateTiming(); err != nil {
		return err
	}

	if err := c.validateCORS(); err != nil {
		return err
	}

	if _, err := idgen.ByName(c.IDGenerator); err != nil {
		return fmt.Errorf("GRAPHWAY_ID_GENERATOR: %w", err)
	}

	return nil
}

func (c *Config) validateStore() error {
	if c.Demo {
		return nil
	}

	u, err := url.ParseRequestURI(c.StoreURL)
	if err != nil {
		return fmt.Errorf("GRAPHWAY_URL is not a valid URL: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("GRAPHWAY_URL scheme must be http:// or https://")
	}

	if u.Hostname() == "" {
		return fmt.Errorf("GRAPHWAY_URL must include a host")
	}

	if c.AdminToken.Value() != "" && u.Scheme != "https" && !isLocalhost(c.StoreURL) {
		return fmt.Errorf("GRAPHWAY_URL must use HTTPS when an admin token is sent to a non-localhost store")
	}

	return nil
}

func (c *Config) validateSession() error {
	if !c.Mode.Valid() {
		return fmt.Errorf("GRAPHWAY_MODE must be editor, readonly or teamInspect, got %q", c.Mode)
	}

	switch c.Mode {
	case models.ModeReadOnly:
		if c.TeamToken.Value() == "" {
			return fmt.Errorf("GRAPHWAY_TEAM_TOKEN is required in readonly mode")
		}
	case models.ModeTeamInspect:
		if c.TeamID == "" {
			return fmt.Errorf("GRAPHWAY_TEAM_ID is required in teamInspect mode")
		}
		fallthrough
	default:
		if !c.Demo && c.AdminToken.Value() == "" {
			return fmt.Errorf("GRAPHWAY_ADMIN_TOKEN is required in %s mode", c.Mode)
		}
	}

	return nil
}

func (c *Config) validateNetwork() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil {
		return fmt.Errorf("GRAPHWAY_PORT must be a valid integer: %w", err)
	}

	if port < 1 || port > 65535 {
		return fmt.Errorf("GRAPHWAY_PORT must be between 1 and 65535")
	}

	// Loopback only: the session carries the operator token.
	if c.ListenHost != "127.0.0.1" && c.ListenHost != "::1" && c.ListenHost != "localhost" {
		return fmt.Errorf("GRAPHWAY_LISTEN_HOST must be a loopback address (127.0.0.1, ::1, or localhost), got %q", c.ListenHost)
	}

	return nil
}

func (c *Config) validateTiming() error {
	if c.PollInterval != 0 && (c.PollInterval < time.Second || c.PollInterval > 10*time.Minute) {
		return fmt.Errorf("GRAPHWAY_POLL_INTERVAL must be 0 or between 1s and 10m, got %s", c.PollInterval)
	}

	if c.RequestTimeout < time.Second || c.RequestTimeout > 2*time.Minute {
		return fmt.Errorf("GRAPHWAY_TIMEOUT must be between 1s and 2m, got %s", c.RequestTimeout)
	}

	return nil
}

func (c *Config) validateCORS() error {
	for _, origin := range c.CORSOrigins {
		if origin == "*" {
			return fmt.Errorf("CORS_ORIGINS must not contain wildcard '*'")
		}
		if strings.ContainsAny(origin, "*?[]") {
			return fmt.Errorf("CORS_ORIGINS must not contain glob characters (*?[]), got %q", origin)
		}
		u, err := url.Parse(origin)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("CORS_ORIGINS contains invalid origin %q (must have scheme and host)", origin)
		}
	}

	return nil
}

// isLocalhost returns true if the given address points to a loopback address.
func isLocalhost(addr string) bool {
	u, err := url.Parse(addr)
	if err != nil {
		return false
	}
	host := u.Hostname()
	return host == "localhost" || host == "127.0.0.1" || host == "::1"
}
