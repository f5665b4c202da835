package game

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// RunStats records one session for the runs.jsonl history.
type RunStats struct {
	RunID         string    `json:"run_id"`
	Seed          int64     `json:"seed"`
	Started       time.Time `json:"started"`
	Ended         time.Time `json:"ended"`
	Turns         int       `json:"turns"`
	FloorsReached int       `json:"floors_reached"`
}

// writeRunStats appends the session as a single JSON line to runs.jsonl.
// Errors are silently discarded so a disk problem never crashes the game.
func writeRunStats(stats RunStats) {
	dir, err := runStatsDir()
	if err != nil {
		return
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return
	}
	f, err := os.OpenFile(filepath.Join(dir, "runs.jsonl"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()

	data, err := json.Marshal(stats)
	if err != nil {
		return
	}
	f.Write(data)         //nolint:errcheck — best-effort write
	f.Write([]byte("\n")) //nolint:errcheck
}

// runStatsDir returns the directory where run logs are stored.
// Follows XDG Base Directory spec: $XDG_DATA_HOME/spireward,
// defaulting to ~/.local/share/spireward.
func runStatsDir() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "spireward"), nil
}
