package pedometer

import (
	"time"
)

// neutralMagnitude seeds the detector at rest (1 g) so the first sample after
// a (re)start cannot register as a spurious peak.
const neutralMagnitude = 1.0

// PeakDetector converts a magnitude stream into discrete steps using
// rising/falling peak detection with an amplitude window and a debounce.
// Purely additive: it never retracts a counted step.
type PeakDetector struct {
	lower    float64
	upper    float64
	debounce time.Duration

	lastMagnitude float64
	rising        bool
	lastStepAt    time.Time
}

// NewPeakDetector builds a detector accepting peaks strictly inside
// (lower, upper) g with at least debounce between accepted steps.
func NewPeakDetector(lower, upper float64, debounce time.Duration) *PeakDetector {
	return &PeakDetector{
		lower:         lower,
		upper:         upper,
		debounce:      debounce,
		lastMagnitude: neutralMagnitude,
	}
}

// Reset reseeds the detector. Called when a tracking session starts so stale
// rising state from a previous session cannot leak into the new one.
func (d *PeakDetector) Reset() {
	d.lastMagnitude = neutralMagnitude
	d.rising = false
	d.lastStepAt = time.Time{}
}

// Offer feeds one magnitude sample and reports whether it completed an
// accepted step peak.
//
// A peak exists when the signal was rising and the current sample falls. The
// peak value is the previous sample's magnitude; it counts as a step only
// when it lies inside the amplitude window and the debounce window since the
// last accepted step has elapsed. Too-small peaks are sensor noise, too-large
// ones are jolts (drops, vehicle bumps), and sub-debounce peaks exceed any
// plausible step cadence.
func (d *PeakDetector) Offer(magnitude float64, at time.Time) bool {
	if magnitude > d.lastMagnitude {
		d.rising = true
		d.lastMagnitude = magnitude
		return false
	}

	peaked := d.rising && magnitude < d.lastMagnitude
	peak := d.lastMagnitude
	if magnitude < d.lastMagnitude {
		d.rising = false
	}
	d.lastMagnitude = magnitude

	if !peaked {
		return false
	}
	if peak <= d.lower || peak >= d.upper {
		return false
	}
	if !d.lastStepAt.IsZero() && at.Sub(d.lastStepAt) < d.debounce {
		return false
	}
	d.lastStepAt = at
	return true
}
