// Package testutil holds small helpers shared by the package test suites.
package testutil

import "time"

// Clock provides deterministic, monotonically increasing timestamps for
// tests that depend on freshness ordering.
type Clock struct {
	current time.Time
	step    time.Duration
}

// NewClock returns a clock initialized to a fixed UTC start time.
func NewClock() *Clock {
	return &Clock{
		current: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		step:    time.Second,
	}
}

// Next returns the next timestamp.
func (c *Clock) Next() time.Time {
	c.current = c.current.Add(c.step)

	return c.current
}
