package widget

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"stopwatch-widget/internal/stopwatch"
)

func TestRenderButtonPolicy(t *testing.T) {
	tests := []struct {
		name       string
		snap       stopwatch.Snapshot
		startLabel string
		paused     bool
		lap        bool
		reset      bool
	}{
		{"never started", stopwatch.Snapshot{}, "Start", false, false, false},
		{"running", stopwatch.Snapshot{Running: true, Started: true}, "Pause", true, true, true},
		{"paused", stopwatch.Snapshot{Started: true, Accumulated: time.Second, Elapsed: time.Second}, "Start", false, false, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			view := Render(tc.snap)
			if view.StartLabel != tc.startLabel {
				t.Fatalf("expected label %s got %s", tc.startLabel, view.StartLabel)
			}
			if view.Paused != tc.paused {
				t.Fatalf("expected paused=%v got %v", tc.paused, view.Paused)
			}
			if view.LapEnabled != tc.lap {
				t.Fatalf("expected lap enabled=%v got %v", tc.lap, view.LapEnabled)
			}
			if view.ResetEnabled != tc.reset {
				t.Fatalf("expected reset enabled=%v got %v", tc.reset, view.ResetEnabled)
			}
		})
	}
}

func TestRenderLapsNewestFirst(t *testing.T) {
	snap := stopwatch.Snapshot{
		Running: true,
		Started: true,
		Elapsed: 3500 * time.Millisecond,
		Laps: []stopwatch.Lap{
			{Index: 3, Elapsed: 3 * time.Second},
			{Index: 2, Elapsed: 2 * time.Second},
			{Index: 1, Elapsed: time.Second},
		},
	}

	view := Render(snap)
	if view.Display != "00:03.50" {
		t.Fatalf("expected display 00:03.50 got %s", view.Display)
	}
	if len(view.Laps) != 3 {
		t.Fatalf("expected 3 laps got %d", len(view.Laps))
	}
	if first := view.Laps[0]; first.Label != "Lap 3" || first.Time != "00:03.00" {
		t.Fatalf("unexpected first row %+v", first)
	}
	if last := view.Laps[2]; last.Label != "Lap 1" || last.Time != "00:01.00" {
		t.Fatalf("unexpected last row %+v", last)
	}
}

func TestRenderFromEngine(t *testing.T) {
	e := stopwatch.New(stopwatch.WithScheduler(func(time.Duration, func()) stopwatch.Handle {
		return noopHandle{}
	}))
	e.ToggleStartPause()
	e.RecordLap()
	e.RecordLap()
	e.RecordLap()

	view := Render(e.Snapshot())
	if view.Laps[0].Label != "Lap 3" {
		t.Fatalf("expected Lap 3 first got %s", view.Laps[0].Label)
	}

	e.Reset()
	view = Render(e.Snapshot())
	if view.Display != "00:00.00" || len(view.Laps) != 0 || view.ResetEnabled || view.LapEnabled {
		t.Fatalf("unexpected view after reset %+v", view)
	}
}

func TestPageRendersView(t *testing.T) {
	tmpl, err := Page()
	if err != nil {
		t.Fatalf("parse page: %v", err)
	}

	data := PageData{
		Title:     "Stopwatch",
		StreamURL: "/api/stopwatch/stream",
		View: Render(stopwatch.Snapshot{
			Started: true,
			Elapsed: 61010 * time.Millisecond,
			Laps:    []stopwatch.Lap{{Index: 1, Elapsed: time.Second}},
		}),
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, PageName, data); err != nil {
		t.Fatalf("execute: %v", err)
	}

	html := buf.String()
	for _, want := range []string{"01:01.01", "Lap 1", `id="lapBtn" disabled`, "/api/stopwatch/stream"} {
		if !strings.Contains(html, want) {
			t.Fatalf("page missing %q", want)
		}
	}
	if strings.Contains(html, `id="resetBtn" disabled`) {
		t.Fatalf("reset should be enabled once started")
	}
}

type noopHandle struct{}

func (noopHandle) Stop() {}
