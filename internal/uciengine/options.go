package uciengine

import "time"

// Clamp bounds for the search-limit modes a caller may request directly
// (§4.5 of the specification this core implements).
const (
	NodesMin = 100_000
	NodesMax = 5_000_000

	DepthMin = 1
	DepthMax = 30

	MovetimeMin = 500 * time.Millisecond
	MovetimeMax = 5000 * time.Millisecond

	MultiPVMin = 1
	MultiPVMax = 3
)

// ClampNodes bounds a requested node budget to [NodesMin, NodesMax].
func ClampNodes(n int) int {
	return clampInt(n, NodesMin, NodesMax)
}

// ClampDepth bounds a requested depth to [DepthMin, DepthMax].
func ClampDepth(d int) int {
	return clampInt(d, DepthMin, DepthMax)
}

// ClampMovetime bounds a requested movetime to [MovetimeMin, MovetimeMax].
func ClampMovetime(d time.Duration) time.Duration {
	if d < MovetimeMin {
		return MovetimeMin
	}
	if d > MovetimeMax {
		return MovetimeMax
	}
	return d
}

// ClampMultiPV bounds multipv to [MultiPVMin, MultiPVMax]. Values above
// the engine's supported limit are clamped, never rejected (resolved
// open question: clamp, don't reject).
func ClampMultiPV(n int) int {
	return clampInt(n, MultiPVMin, MultiPVMax)
}

// ClampElo bounds a requested UCI_Elo to [engineMin, engineMax]. The
// suggestion handler passes its static EngineEloRange; the range is not
// read from the engine during the UCI handshake.
func ClampElo(elo, engineMin, engineMax int) int {
	return clampInt(elo, engineMin, engineMax)
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
