package config

import (
	"errors"
	"fmt"

	"nvcheck/internal/version"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateRequirements(); err != nil {
		return err
	}
	if err := c.validatePreload(); err != nil {
		return err
	}
	if c.Driver.QueryTimeoutSeconds <= 0 {
		return errors.New("driver.query_timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateRequirements() error {
	if len(c.Requirements) == 0 {
		return errors.New("at least one [[requirements]] entry must be configured")
	}
	seen := make(map[string]struct{}, len(c.Requirements))
	for i, req := range c.Requirements {
		if req.Feature == "" {
			return fmt.Errorf("requirements[%d].feature must be set", i)
		}
		if req.Minimum == "" {
			return fmt.Errorf("requirements[%d].minimum must be set (feature %q)", i, req.Feature)
		}
		if _, err := version.Parse(req.Minimum); err != nil {
			return fmt.Errorf("requirements[%d].minimum: %w", i, err)
		}
		switch req.Kind {
		case "driver", "nvenc-api":
		default:
			return fmt.Errorf("requirements[%d].kind must be \"driver\" or \"nvenc-api\", got %q", i, req.Kind)
		}
		if _, dup := seen[req.Feature]; dup {
			return fmt.Errorf("requirements[%d].feature %q is declared twice", i, req.Feature)
		}
		seen[req.Feature] = struct{}{}
	}
	return nil
}

func (c *Config) validatePreload() error {
	switch c.Preload.OnFailure {
	case "warn", "fail":
	default:
		return fmt.Errorf("preload.on_failure must be \"warn\" or \"fail\", got %q", c.Preload.OnFailure)
	}
	if c.Preload.Enabled && len(c.Preload.Libraries) == 0 {
		return errors.New("preload.libraries must include at least one library when preload.enabled is true")
	}
	return nil
}
