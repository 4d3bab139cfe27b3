package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvDataDir, "/tmp/regions")
	t.Setenv(EnvTheme, "neon")

	c := FromEnv()
	assert.Equal(t, "/tmp/regions", c.DataDir)
	assert.Equal(t, "neon", c.Theme)
}

func TestFillDefaults(t *testing.T) {
	c := &Config{Group: true}
	c.FillDefaults()
	assert.Equal(t, DefaultConfig().DataDir, c.DataDir)
	assert.Equal(t, "classic", c.Theme)
	assert.True(t, c.Group)
}
