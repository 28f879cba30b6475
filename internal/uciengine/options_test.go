package uciengine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClampMultiPV(t *testing.T) {
	assert.Equal(t, 1, ClampMultiPV(0))
	assert.Equal(t, 1, ClampMultiPV(1))
	assert.Equal(t, 3, ClampMultiPV(3))
	assert.Equal(t, 3, ClampMultiPV(10))
}

func TestClampNodes(t *testing.T) {
	assert.Equal(t, NodesMin, ClampNodes(1))
	assert.Equal(t, NodesMax, ClampNodes(10_000_000))
	assert.Equal(t, 1_000_000, ClampNodes(1_000_000))
}

func TestClampDepth(t *testing.T) {
	assert.Equal(t, DepthMin, ClampDepth(0))
	assert.Equal(t, DepthMax, ClampDepth(99))
}

func TestClampMovetime(t *testing.T) {
	assert.Equal(t, MovetimeMin, ClampMovetime(10*time.Millisecond))
	assert.Equal(t, MovetimeMax, ClampMovetime(time.Minute))
	assert.Equal(t, 1500*time.Millisecond, ClampMovetime(1500*time.Millisecond))
}

func TestClampElo(t *testing.T) {
	assert.Equal(t, 1350, ClampElo(100, 1350, 2850))
	assert.Equal(t, 2850, ClampElo(9999, 1350, 2850))
	assert.Equal(t, 1800, ClampElo(1800, 1350, 2850))
}
