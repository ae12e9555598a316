// Package system provides the production Clock and IDGenerator.
package system

import (
	"time"

	"github.com/google/uuid"
)

// Clock reads the wall clock in UTC.
type Clock struct{}

// Now returns the current UTC time.
func (Clock) Now() time.Time { return time.Now().UTC() }

// UUIDGenerator issues random (v4) UUIDs.
type UUIDGenerator struct{}

// NewID returns a new UUID string.
func (UUIDGenerator) NewID() string { return uuid.NewString() }

// FixedClock always returns the same instant. Useful in tests and replays.
type FixedClock struct {
	At time.Time
}

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time { return c.At }
