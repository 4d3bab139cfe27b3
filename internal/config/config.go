// Package config provides configuration structures and defaults for the todo CLI.
package config

import (
	"os"
	"path/filepath"
)

const (
	EnvDataDir = "TODO_DATA_DIR"
	EnvTheme   = "TODO_THEME"

	defaultTheme = "classic"
)

// Config holds everything the CLI needs besides its arguments.
type Config struct {
	DataDir  string // directory holding region files
	CredsDir string // directory holding credentials.json; empty means ~/.todo
	Theme    string
	Group    bool // list grouped by pending/done
	Debug    bool
	Memory   bool // keep regions in memory for this process only
}

// DefaultConfig returns a Config populated with default values.
func DefaultConfig() *Config {
	return &Config{
		DataDir: defaultDataDir(),
		Theme:   defaultTheme,
	}
}

// FromEnv returns the defaults overridden by environment variables.
func FromEnv() *Config {
	c := DefaultConfig()
	if v := os.Getenv(EnvDataDir); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv(EnvTheme); v != "" {
		c.Theme = v
	}
	return c
}

// FillDefaults sets any zero-value fields to their default values.
func (c *Config) FillDefaults() {
	def := DefaultConfig()
	if c.DataDir == "" {
		c.DataDir = def.DataDir
	}
	if c.Theme == "" {
		c.Theme = def.Theme
	}
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "todo", "regions")
	}
	return filepath.Join(".", ".todo-regions")
}
