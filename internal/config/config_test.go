package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults(t *testing.T) {
	var c Config
	c.applyDefaults()

	assert.Equal(t, "8080", c.Server.GatewayPort)
	assert.Equal(t, "9090", c.Server.StatsPort)
	assert.Equal(t, 2, c.Pools.Suggestion.Size)
	assert.Equal(t, 2, c.Pools.Analysis.Size)
	assert.Equal(t, "mock", c.Auth.Backend)
	assert.Equal(t, 30, c.Heartbeat.IntervalSec)
	assert.Equal(t, 1, c.Request.MultiPVMin)
	assert.Equal(t, 3, c.Request.MultiPVMax)
}

func TestApplyDefaultsDoesNotOverrideSetValues(t *testing.T) {
	c := Config{}
	c.Pools.Suggestion.Size = 5
	c.Server.Env = "production"
	c.applyDefaults()

	assert.Equal(t, 5, c.Pools.Suggestion.Size)
	assert.Equal(t, "production", c.Server.Env)
	assert.True(t, c.IsProduction())
}
