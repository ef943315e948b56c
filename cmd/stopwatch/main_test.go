package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"stopwatch-widget/internal/stopwatch"
)

type stepClock struct {
	now time.Time
}

// Now advances one second per reading so laps get distinct times.
func (c *stepClock) Now() time.Time {
	c.now = c.now.Add(time.Second)
	return c.now
}

type idleHandle struct{}

func (idleHandle) Stop() {}

func idleScheduler(time.Duration, func()) stopwatch.Handle {
	return idleHandle{}
}

func runScript(t *testing.T, script string) string {
	t.Helper()
	var out bytes.Buffer
	err := run(strings.NewReader(script), &out,
		stopwatch.WithClock(&stepClock{now: time.Unix(0, 0)}),
		stopwatch.WithScheduler(idleScheduler),
	)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	return out.String()
}

func TestRunRecordsLapsOnlyWhileRunning(t *testing.T) {
	out := runScript(t, "l\ns\nl\nl\ns\nl\nq\n")

	if !strings.Contains(out, "Lap 1") || !strings.Contains(out, "Lap 2") {
		t.Fatalf("expected two laps in output:\n%s", out)
	}
	if strings.Contains(out, "Lap 3") {
		t.Fatalf("lap recorded while paused:\n%s", out)
	}
	if !strings.Contains(out, "paused") {
		t.Fatalf("expected pause in output:\n%s", out)
	}
}

func TestRunResetClearsElapsed(t *testing.T) {
	out := runScript(t, "s\nl\nr\n")

	if !strings.Contains(out, "00:00.00  reset") {
		t.Fatalf("expected reset line:\n%s", out)
	}
	if !strings.HasSuffix(out, "final 00:00.00\n") {
		t.Fatalf("expected zero final time:\n%s", out)
	}
}

func TestRunPausesOnExit(t *testing.T) {
	out := runScript(t, "s\n")

	if !strings.Contains(out, "paused") {
		t.Fatalf("expected running stopwatch to pause on exit:\n%s", out)
	}
	if strings.HasSuffix(out, "final 00:00.00\n") {
		t.Fatalf("expected non-zero final time:\n%s", out)
	}
}

func TestRunUnknownCommandPrintsUsage(t *testing.T) {
	out := runScript(t, "x\nq\n")
	if !strings.Contains(out, usage) {
		t.Fatalf("expected usage:\n%s", out)
	}
}
