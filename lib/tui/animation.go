// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"time"
)

// PulseDuration is how long a surface glows after it is ignited.
// Intensity starts at 1.0 and decays linearly to 0.0 over this
// duration.
const PulseDuration = 600 * time.Millisecond

// PulseTickInterval is the re-render interval while any surface is
// still pulsing.
const PulseTickInterval = 100 * time.Millisecond

// PulseTracker maps surface keys (the cart badge, a card name) to
// ignition timestamps. Callers pass the current time explicitly, so
// the tracker never reads the wall clock and tests can step it.
type PulseTracker struct {
	duration time.Duration
	entries  map[string]time.Time
}

// NewPulseTracker creates an empty tracker. A non-positive duration
// uses PulseDuration.
func NewPulseTracker(duration time.Duration) *PulseTracker {
	if duration <= 0 {
		duration = PulseDuration
	}
	return &PulseTracker{
		duration: duration,
		entries:  make(map[string]time.Time),
	}
}

// Ignite starts (or restarts) the pulse for key.
func (tracker *PulseTracker) Ignite(key string, now time.Time) {
	tracker.entries[key] = now
}

// Intensity returns 1.0 at ignition, decaying linearly to 0.0 over
// the tracker's duration. Keys never ignited, or fully decayed,
// return 0.0.
func (tracker *PulseTracker) Intensity(key string, now time.Time) float64 {
	ignition, exists := tracker.entries[key]
	if !exists {
		return 0.0
	}
	elapsed := now.Sub(ignition)
	if elapsed < 0 {
		return 1.0
	}
	if elapsed >= tracker.duration {
		return 0.0
	}
	return 1.0 - float64(elapsed)/float64(tracker.duration)
}

// Active reports whether key is still pulsing.
func (tracker *PulseTracker) Active(key string, now time.Time) bool {
	return tracker.Intensity(key, now) > 0
}

// AnyActive reports whether any key is still pulsing, meaning the
// tick timer should keep running. Fully decayed entries are dropped.
func (tracker *PulseTracker) AnyActive(now time.Time) bool {
	active := false
	for key, ignition := range tracker.entries {
		if now.Sub(ignition) < tracker.duration {
			active = true
			continue
		}
		delete(tracker.entries, key)
	}
	return active
}
