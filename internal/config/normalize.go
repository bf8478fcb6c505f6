package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeLibrary(); err != nil {
		return err
	}
	c.normalizeSerialization()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.ProjectsDir) == "" {
		c.Paths.ProjectsDir = defaultProjectsDir
	}
	if c.Paths.ProjectsDir, err = expandPath(c.Paths.ProjectsDir); err != nil {
		return fmt.Errorf("paths.projects_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLibrary() error {
	var err error
	if strings.TrimSpace(c.Library.DatabasePath) == "" {
		c.Library.DatabasePath = defaultLibraryDB
	}
	if c.Library.DatabasePath, err = expandPath(c.Library.DatabasePath); err != nil {
		return fmt.Errorf("library.database_path: %w", err)
	}
	if c.Library.LockTimeoutSeconds == 0 {
		c.Library.LockTimeoutSeconds = defaultLockTimeoutSeconds
	}
	return nil
}

func (c *Config) normalizeSerialization() {
	c.Serialization.DefaultColorOrder = strings.ToUpper(strings.TrimSpace(c.Serialization.DefaultColorOrder))
	if c.Serialization.DefaultColorOrder == "" {
		c.Serialization.DefaultColorOrder = defaultColorOrder
	}
	if c.Serialization.DefaultFrameDurationMS == 0 {
		c.Serialization.DefaultFrameDurationMS = defaultFrameDurationMS
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
