package config

import (
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if err := c.Machines.validate(); err != nil {
		return fmt.Errorf("machines: %w", err)
	}

	if err := c.Directory.validate(); err != nil {
		return fmt.Errorf("directory: %w", err)
	}

	return nil
}

func (m *MachinesConfig) validate() error {
	if strings.Count(m.URLTemplate, "%s") != 1 {
		return fmt.Errorf("url_template must contain exactly one %%s placeholder (got %q)", m.URLTemplate)
	}
	if m.StatusTimeout <= 0 {
		return fmt.Errorf("status_timeout must be > 0 (got %v)", m.StatusTimeout)
	}
	if m.DropTimeout <= 0 {
		return fmt.Errorf("drop_timeout must be > 0 (got %v)", m.DropTimeout)
	}
	if m.DropTimeout < m.StatusTimeout {
		return fmt.Errorf("drop_timeout must not be shorter than status_timeout")
	}
	return nil
}

func (d *DirectoryConfig) validate() error {
	if !strings.HasPrefix(d.URL, "ldap://") && !strings.HasPrefix(d.URL, "ldaps://") {
		return fmt.Errorf("url must be an ldap:// or ldaps:// URL (got %q)", d.URL)
	}
	if d.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be > 0 (got %v)", d.RequestTimeout)
	}
	return nil
}
