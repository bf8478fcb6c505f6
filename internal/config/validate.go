package config

import (
	"errors"
	"fmt"

	"ledproj/internal/pattern"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLibrary(); err != nil {
		return err
	}
	if err := c.validateSerialization(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLibrary() error {
	if c.Library.DatabasePath == "" {
		return errors.New("library.database_path must be set")
	}
	if c.Library.LockTimeoutSeconds <= 0 {
		return errors.New("library.lock_timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateSerialization() error {
	if !pattern.ValidColorOrder(c.Serialization.DefaultColorOrder) {
		return fmt.Errorf("serialization.default_color_order must be one of %v", pattern.ColorOrders)
	}
	if c.Serialization.DefaultFrameDurationMS < 1 || c.Serialization.DefaultFrameDurationMS > 10000 {
		return errors.New("serialization.default_frame_duration_ms must be between 1 and 10000")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
