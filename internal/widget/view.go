package widget

import (
	"fmt"

	"stopwatch-widget/internal/stopwatch"
)

const (
	labelStart = "Start"
	labelPause = "Pause"
)

// LapRow is one entry of the rendered lap list.
type LapRow struct {
	Label string `json:"label"`
	Time  string `json:"time"`
}

// View is everything the browser needs to paint the widget.
type View struct {
	Display      string   `json:"display"`
	StartLabel   string   `json:"start_label"`
	Paused       bool     `json:"paused"`
	LapEnabled   bool     `json:"lap_enabled"`
	ResetEnabled bool     `json:"reset_enabled"`
	Laps         []LapRow `json:"laps"`
}

// Render maps an engine snapshot to the widget view. Lap and reset stay
// disabled until the stopwatch has been started; lap also requires it to
// be running. Laps keep the engine's newest-first order.
func Render(snap stopwatch.Snapshot) View {
	view := View{
		Display:      stopwatch.FormatElapsed(snap.Elapsed),
		StartLabel:   labelStart,
		LapEnabled:   snap.Running,
		ResetEnabled: snap.Started,
		Laps:         make([]LapRow, 0, len(snap.Laps)),
	}
	if snap.Running {
		view.StartLabel = labelPause
		// the start button carries the "paused" style while it offers Pause
		view.Paused = true
	}
	for _, lap := range snap.Laps {
		view.Laps = append(view.Laps, RenderLap(lap))
	}
	return view
}

// RenderLap formats a single lap entry.
func RenderLap(lap stopwatch.Lap) LapRow {
	return LapRow{
		Label: fmt.Sprintf("Lap %d", lap.Index),
		Time:  stopwatch.FormatElapsed(lap.Elapsed),
	}
}
