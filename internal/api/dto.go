package api

import (
	"errors"
	"fmt"
	"strings"

	"stopwatch-widget/internal/stopwatch"
	"stopwatch-widget/internal/widget"
)

// Command is a widget control trigger.
type Command string

const (
	CommandToggle Command = "toggle"
	CommandLap    Command = "lap"
	CommandReset  Command = "reset"
)

// ErrUnknownCommand reports a control trigger the widget does not have.
var ErrUnknownCommand = errors.New("unknown command")

// ParseCommand normalises a command name.
func ParseCommand(raw string) (Command, error) {
	switch cmd := Command(strings.ToLower(strings.TrimSpace(raw))); cmd {
	case CommandToggle, CommandLap, CommandReset:
		return cmd, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCommand, raw)
	}
}

// CommandRequest is the websocket message a widget sends on click.
type CommandRequest struct {
	Command string `json:"command"`
}

// StopwatchResponse reports the widget view after a read or a control operation.
type StopwatchResponse struct {
	View     widget.View    `json:"view"`
	Snapshot SnapshotDTO    `json:"snapshot"`
	Lap      *widget.LapRow `json:"lap,omitempty"`
}

// SnapshotDTO is the API representation of the engine state, in milliseconds.
type SnapshotDTO struct {
	ID            string   `json:"id"`
	Running       bool     `json:"running"`
	Started       bool     `json:"started"`
	AccumulatedMs int64    `json:"accumulated_ms"`
	ElapsedMs     int64    `json:"elapsed_ms"`
	Laps          []LapDTO `json:"laps"`
	NextLapIndex  int      `json:"next_lap_index"`
}

// LapDTO is a recorded lap in milliseconds.
type LapDTO struct {
	Index     int   `json:"index"`
	ElapsedMs int64 `json:"elapsed_ms"`
}

// SnapshotFromEngine converts an engine snapshot into its DTO.
func SnapshotFromEngine(snap stopwatch.Snapshot) SnapshotDTO {
	laps := make([]LapDTO, 0, len(snap.Laps))
	for _, lap := range snap.Laps {
		laps = append(laps, LapDTO{Index: lap.Index, ElapsedMs: lap.Elapsed.Milliseconds()})
	}
	return SnapshotDTO{
		ID:            snap.ID,
		Running:       snap.Running,
		Started:       snap.Started,
		AccumulatedMs: snap.Accumulated.Milliseconds(),
		ElapsedMs:     snap.Elapsed.Milliseconds(),
		Laps:          laps,
		NextLapIndex:  snap.NextLapIndex,
	}
}

func newStopwatchResponse(snap stopwatch.Snapshot) StopwatchResponse {
	return StopwatchResponse{
		View:     widget.Render(snap),
		Snapshot: SnapshotFromEngine(snap),
	}
}
