package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeDriver(); err != nil {
		return err
	}
	c.normalizeRequirements()
	if err := c.normalizePreload(); err != nil {
		return err
	}
	c.normalizeHistory()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeDriver() error {
	c.Driver.SMIBinary = strings.TrimSpace(c.Driver.SMIBinary)
	if c.Driver.SMIBinary == "" {
		if value, ok := os.LookupEnv("NVCHECK_SMI_BINARY"); ok {
			c.Driver.SMIBinary = strings.TrimSpace(value)
		}
	}
	if c.Driver.QueryTimeoutSeconds <= 0 {
		c.Driver.QueryTimeoutSeconds = defaultQueryTimeoutSeconds
	}
	return nil
}

func (c *Config) normalizeRequirements() {
	normalized := make([]Requirement, 0, len(c.Requirements))
	for _, req := range c.Requirements {
		req.Feature = strings.TrimSpace(req.Feature)
		req.Minimum = strings.TrimSpace(req.Minimum)
		req.Kind = strings.ToLower(strings.TrimSpace(req.Kind))
		if req.Kind == "" {
			req.Kind = "driver"
		}
		if req.Feature == "" && req.Minimum == "" {
			continue
		}
		normalized = append(normalized, req)
	}
	c.Requirements = normalized
}

func (c *Config) normalizePreload() error {
	c.Preload.OnFailure = strings.ToLower(strings.TrimSpace(c.Preload.OnFailure))
	if c.Preload.OnFailure == "" {
		c.Preload.OnFailure = defaultPreloadOnFailure
	}

	libraries := make([]string, 0, len(c.Preload.Libraries))
	for _, name := range c.Preload.Libraries {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			libraries = append(libraries, trimmed)
		}
	}
	c.Preload.Libraries = libraries

	dirs := make([]string, 0, len(c.Preload.ExtraDirs))
	for _, dir := range c.Preload.ExtraDirs {
		trimmed := strings.TrimSpace(dir)
		if trimmed == "" {
			continue
		}
		expanded, err := expandPath(trimmed)
		if err != nil {
			return fmt.Errorf("preload.extra_dirs: %w", err)
		}
		dirs = append(dirs, expanded)
	}
	c.Preload.ExtraDirs = dirs
	return nil
}

func (c *Config) normalizeHistory() {
	if c.History.RetentionDays < 0 {
		c.History.RetentionDays = 0
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
