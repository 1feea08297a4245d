// Package testutil provides testing utilities.
package testutil

import (
	"fmt"
	"os"
	"sync"
	"testing"
	"time"
)

// SkipNetworkTests skips the test if RUN_NETWORK_TESTS is not set.
// Use this for tests that reach real GATE paper hosts.
//
// Run them with: RUN_NETWORK_TESTS=1 go test ./...
func SkipNetworkTests(t *testing.T) {
	t.Helper()
	if os.Getenv("RUN_NETWORK_TESTS") == "" {
		t.Skip("Skipping network test (set RUN_NETWORK_TESTS=1 to run)")
	}
}

// Clock is a manually advanced clock for store tests.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock returns a clock frozen at start.
func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

// Now returns the current fake time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Day is a convenience for whole-day advances.
const Day = 24 * time.Hour

// RecordingLogger captures Errorf calls.
type RecordingLogger struct {
	mu     sync.Mutex
	Errors []string
}

// Errorf records the formatted message.
func (r *RecordingLogger) Errorf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Count returns the number of recorded errors.
func (r *RecordingLogger) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Errors)
}
