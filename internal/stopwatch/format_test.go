package stopwatch

import (
	"regexp"
	"testing"
	"time"
)

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		name     string
		d        time.Duration
		expected string
	}{
		{"zero", 0, "00:00.00"},
		{"minute second centi", 61010 * time.Millisecond, "01:01.01"},
		{"truncates centiseconds", 999 * time.Millisecond, "00:00.99"},
		{"truncates sub-centisecond", 9 * time.Millisecond, "00:00.00"},
		{"one minute boundary", time.Minute, "01:00.00"},
		{"just below a minute", time.Minute - time.Nanosecond, "00:59.99"},
		{"no hour rollover", 75 * time.Minute, "75:00.00"},
		{"minutes widen past 99", 100*time.Minute + 2*time.Second, "100:02.00"},
		{"negative clamps to zero", -time.Second, "00:00.00"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatElapsed(tc.d); got != tc.expected {
				t.Fatalf("expected %s got %s", tc.expected, got)
			}
		})
	}
}

func TestFormatElapsedPattern(t *testing.T) {
	pattern := regexp.MustCompile(`^\d{2}:\d{2}\.\d{2}$`)
	limit := 100 * time.Minute
	step := 7*time.Second + 13*time.Millisecond + 17*time.Microsecond
	for d := time.Duration(0); d < limit; d += step {
		if got := FormatElapsed(d); !pattern.MatchString(got) {
			t.Fatalf("duration %v formatted as %q", d, got)
		}
	}
	if got := FormatElapsed(limit - time.Nanosecond); got != "99:59.99" {
		t.Fatalf("expected 99:59.99 got %s", got)
	}
}
