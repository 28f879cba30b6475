package uciengine

import (
	"os"
	"os/exec"
)

// candidatePaths are common install locations tried when no explicit
// path is configured, grounded on the lookup order a Stockfish-serving
// pool uses in practice.
var candidatePaths = []string{
	"stockfish",
	"/usr/games/stockfish",
	"/usr/bin/stockfish",
	"/usr/local/bin/stockfish",
	"/opt/homebrew/bin/stockfish",
	"./stockfish",
}

// ResolveBinaryPath picks the executable to spawn for a given engine
// kind. configured, if non-empty, wins outright (explicit operator
// override via config/env). Otherwise the candidate list is searched via
// exec.LookPath. kind is accepted (not yet used to branch between
// differently-named binaries) so a future per-kind binary name doesn't
// change this function's signature.
func ResolveBinaryPath(kind Kind, configured string) (string, error) {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured, nil
		}
		if p, err := exec.LookPath(configured); err == nil {
			return p, nil
		}
		return "", ErrUnsupportedPlatform
	}

	for _, path := range candidatePaths {
		if p, err := exec.LookPath(path); err == nil {
			return p, nil
		}
	}
	return "", ErrUnsupportedPlatform
}
