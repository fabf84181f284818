// ABOUTME: Unit tests for the exponential backoff helper
// ABOUTME: Checks doubling, jitter bounds, the cap, and degenerate attempts
package util

import (
	"testing"
	"time"
)

func TestCalculateBackoff_NoWaitBeforeFirstRetry(t *testing.T) {
	for _, attempt := range []int{0, -1, -50} {
		if got := CalculateBackoff(time.Second, attempt); got != 0 {
			t.Errorf("Attempt %d should not wait, got %v", attempt, got)
		}
	}
}

func TestCalculateBackoff_GrowsWithinJitterBounds(t *testing.T) {
	base := 100 * time.Millisecond
	for attempt := 1; attempt <= 5; attempt++ {
		expected := base * time.Duration(1<<uint(attempt))
		low := expected - expected/4
		high := expected + expected/4
		for i := 0; i < 20; i++ {
			got := CalculateBackoff(base, attempt)
			if got < low || got > high {
				t.Errorf("Attempt %d: backoff %v outside [%v, %v]", attempt, got, low, high)
			}
		}
	}
}

func TestCalculateBackoff_Capped(t *testing.T) {
	// Jitter can push past the 30s cap by up to a quarter
	limit := 30*time.Second + 30*time.Second/4
	for _, attempt := range []int{10, 30, 100} {
		got := CalculateBackoff(time.Second, attempt)
		if got > limit {
			t.Errorf("Attempt %d: backoff %v exceeds capped limit %v", attempt, got, limit)
		}
		if got <= 0 {
			t.Errorf("Attempt %d: backoff %v should stay positive under the cap", attempt, got)
		}
	}
}

func TestCalculateBackoff_JitterVaries(t *testing.T) {
	seen := make(map[time.Duration]bool)
	for i := 0; i < 50; i++ {
		seen[CalculateBackoff(time.Second, 4)] = true
	}
	if len(seen) < 2 {
		t.Error("Expected jitter to produce varying delays")
	}
}
