// Package stopwatch implements the elapsed-time bookkeeping behind the
// stopwatch widget: start/pause, lap recording, reset and the periodic
// display refresh that runs while the stopwatch is running.
package stopwatch
