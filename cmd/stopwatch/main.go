package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"stopwatch-widget/internal/stopwatch"
	"stopwatch-widget/internal/widget"
)

const usage = "commands: s (or enter) start/pause, l lap, r reset, q quit"

func main() {
	var (
		interval = flag.Duration("interval", stopwatch.DefaultRefreshInterval, "Display refresh interval")
		logLevel = flag.String("log-level", "warn", "Log level (debug, info, warn, error)")
	)
	flag.Parse()

	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		logrus.Fatalf("parse log level: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetOutput(os.Stderr)

	fmt.Fprintln(os.Stdout, usage)
	if err := run(os.Stdin, os.Stdout, stopwatch.WithRefreshInterval(*interval)); err != nil {
		logrus.Fatalf("stopwatch: %v", err)
	}
}

// terminal repaints the display line in place and prints laps above it.
type terminal struct {
	mu  sync.Mutex
	out io.Writer
}

func (t *terminal) printf(format string, args ...interface{}) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, format, args...)
}

func (t *terminal) handle(ev stopwatch.Event) {
	display := stopwatch.FormatElapsed(ev.Snapshot.Elapsed)
	switch ev.Kind {
	case stopwatch.EventTick:
		t.printf("\r%s", display)
	case stopwatch.EventStarted:
		t.printf("\r%s  running", display)
	case stopwatch.EventPaused:
		t.printf("\r%s  paused \n", display)
	case stopwatch.EventLap:
		row := widget.RenderLap(*ev.Lap)
		t.printf("\r%-8s %s\n", row.Label, row.Time)
	case stopwatch.EventReset:
		t.printf("\r%s  reset  \n", display)
	}
	logrus.WithFields(logrus.Fields{
		"event":      ev.Kind,
		"elapsed_ms": ev.Snapshot.Elapsed.Milliseconds(),
	}).Debug("stopwatch event")
}

func run(in io.Reader, out io.Writer, opts ...stopwatch.Option) error {
	term := &terminal{out: out}
	engine := stopwatch.New(append(opts, stopwatch.WithListener(term.handle))...)
	defer func() {
		if engine.Snapshot().Running {
			engine.ToggleStartPause()
		}
		term.printf("final %s\n", stopwatch.FormatElapsed(engine.Elapsed()))
	}()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "", "s", "start", "pause":
			engine.ToggleStartPause()
		case "l", "lap":
			if _, ok := engine.RecordLap(); !ok {
				logrus.Debug("lap ignored while stopped")
			}
		case "r", "reset":
			engine.Reset()
		case "q", "quit":
			return nil
		default:
			term.printf("\r%s\n", usage)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read commands: %w", err)
	}
	return nil
}
