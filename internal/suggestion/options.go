package suggestion

import (
	"fmt"
	"time"

	"github.com/ocx-chess/enginecore/internal/uciengine"
)

// EngineEloRange is the UCI_Elo range the configured engine advertises.
// Stockfish's default build reports roughly this span; a real deployment
// could read it from the engine's "option name UCI_Elo" line during the
// handshake, but the core treats it as a static bound.
var EngineEloRange = struct{ Min, Max int }{Min: 1350, Max: 2850}

const defaultNodeBudget = 1_000_000

func defaultInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func defaultBool(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

// buildOptions constructs the per-request UCI option bag. In puzzle mode
// strength limiting is always off; otherwise limitStrength (default
// true) governs whether UCI_Elo is applied, clamped to the engine's
// advertised range.
func buildOptions(msg Message) uciengine.Options {
	opts := uciengine.Options{}

	puzzleMode := defaultBool(msg.PuzzleMode, false)
	limitStrength := defaultBool(msg.LimitStrength, true) && !puzzleMode

	opts["UCI_LimitStrength"] = boolStr(limitStrength)
	if limitStrength {
		elo := uciengine.ClampElo(defaultInt(msg.TargetElo, 1500), EngineEloRange.Min, EngineEloRange.Max)
		opts["UCI_Elo"] = fmt.Sprintf("%d", elo)
	}

	if msg.Contempt != nil {
		opts["Contempt"] = fmt.Sprintf("%d", *msg.Contempt)
	}
	if msg.Variety != nil {
		opts["Variety"] = fmt.Sprintf("%d", *msg.Variety)
	}

	armageddon := msg.Armageddon
	if armageddon == "" {
		armageddon = "off"
	}
	if armageddon != "off" {
		opts["UCI_Opponent"] = "armageddon-" + armageddon
	}

	return opts
}

// buildLimits chooses the search budget. When strength limiting is off
// and the client requested a specific search mode, that mode's bound is
// used (clamped); otherwise a default node budget applies.
func buildLimits(msg Message, limitStrength bool) uciengine.Limits {
	if !limitStrength && msg.SearchMode != "" {
		switch msg.SearchMode {
		case "nodes":
			return uciengine.Limits{Nodes: uciengine.ClampNodes(defaultInt(msg.SearchNodes, defaultNodeBudget))}
		case "depth":
			return uciengine.Limits{Depth: uciengine.ClampDepth(defaultInt(msg.SearchDepth, uciengine.DepthMax))}
		case "movetime":
			ms := defaultInt(msg.SearchMovetime, int(uciengine.MovetimeMax/time.Millisecond))
			return uciengine.Limits{Movetime: uciengine.ClampMovetime(time.Duration(ms) * time.Millisecond)}
		}
	}
	return uciengine.Limits{Nodes: defaultNodeBudget}
}

func boolStr(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
