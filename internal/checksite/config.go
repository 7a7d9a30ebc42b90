// Package checksite probes a running leaderboard server and verifies that
// what it serves obeys the ranking invariants.
package checksite

import (
	"errors"
	"time"
)

// ErrCheckFailed is returned by Run when at least one check failed.
var ErrCheckFailed = errors.New("site check failed")

// ErrInvariant marks a served table that breaks a ranking invariant.
var ErrInvariant = errors.New("invariant violated")

// Config holds configuration for a site check.
type Config struct {
	BaseURL string        // Base URL of the server
	Workers int           // Concurrent rank probes
	Timeout time.Duration // HTTP request timeout
	LogFile string        // Optional log file
	Verbose bool          // Log every passing check
}

// Result is the outcome of one named check.
type Result struct {
	Check  string `json:"check"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail,omitempty"`
}

// Report collects all results of a run.
type Report struct {
	Version   string
	Results   []Result
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

// Failed returns the failing results.
func (r Report) Failed() []Result {
	var out []Result
	for _, res := range r.Results {
		if !res.OK {
			out = append(out, res)
		}
	}
	return out
}
