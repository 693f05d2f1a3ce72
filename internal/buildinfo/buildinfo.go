package buildinfo

import (
	"fmt"
	"time"
)

// Set via -ldflags at build time
var (
	Version    = "dev"
	BuildTime  string // when the binary was compiled
	CommitHash string // short git commit hash
)

// StartTime is recorded when the process starts
var StartTime = time.Now().UTC().Format(time.RFC3339)

// String is the one-line version banner
func String() string {
	s := "docketgo " + Version
	if CommitHash != "" {
		s += fmt.Sprintf(" (%s)", CommitHash)
	}
	if BuildTime != "" {
		s += " built " + BuildTime
	}
	return s
}
