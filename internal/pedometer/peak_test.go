package pedometer

import (
	"testing"
	"time"
)

// feedPeak pushes a rise to the given magnitude followed by a fall back to
// rest, returning whether the peak counted as a step.
func feedPeak(d *PeakDetector, magnitude float64, at time.Time) bool {
	d.Offer(magnitude, at)
	return d.Offer(0.9, at.Add(10*time.Millisecond))
}

func TestPeakDetectorAmplitudeWindow(t *testing.T) {
	cases := []struct {
		name      string
		magnitude float64
		want      bool
	}{
		{"below lower bound", 1.0, false},
		{"rises but stays under lower bound", 1.1, false},
		{"inside window", 1.5, true},
		{"above upper bound", 3.0, false},
	}

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := NewPeakDetector(1.15, 2.5, 250*time.Millisecond)
			if got := feedPeak(d, tc.magnitude, base); got != tc.want {
				t.Fatalf("peak %.2fg: counted=%v, want %v", tc.magnitude, got, tc.want)
			}
		})
	}
}

func TestPeakDetectorDebounce(t *testing.T) {
	d := NewPeakDetector(1.15, 2.5, 250*time.Millisecond)
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	if !feedPeak(d, 1.5, base) {
		t.Fatal("first qualifying peak must count")
	}
	// A second qualifying peak 100ms later sits inside the debounce window.
	if feedPeak(d, 1.5, base.Add(100*time.Millisecond)) {
		t.Fatal("sub-debounce peak must be rejected")
	}
	if !feedPeak(d, 1.5, base.Add(400*time.Millisecond)) {
		t.Fatal("peak after the debounce window must count")
	}
}

func TestPeakDetectorFirstSampleIsNeutral(t *testing.T) {
	d := NewPeakDetector(1.15, 2.5, 250*time.Millisecond)
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	// A first sample below the 1.0g seed looks like a fall, but nothing was
	// rising, so no step.
	if d.Offer(0.5, base) {
		t.Fatal("first falling sample must not count as a step")
	}
}

func TestPeakDetectorResetClearsRisingState(t *testing.T) {
	d := NewPeakDetector(1.15, 2.5, 250*time.Millisecond)
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	d.Offer(1.5, base)
	d.Reset()

	// The fall after reset must not complete the pre-reset rise.
	if d.Offer(0.9, base.Add(10*time.Millisecond)) {
		t.Fatal("reset must discard rising state")
	}
}

func TestPeakDetectorMonotoneRiseNeverCounts(t *testing.T) {
	d := NewPeakDetector(1.15, 2.5, 250*time.Millisecond)
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 10; i++ {
		if d.Offer(1.0+float64(i)*0.1, base.Add(time.Duration(i)*50*time.Millisecond)) {
			t.Fatal("a rise without a fall must not count")
		}
	}
}
