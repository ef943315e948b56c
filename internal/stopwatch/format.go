package stopwatch

import (
	"fmt"
	"time"
)

const centisecond = 10 * time.Millisecond

// FormatElapsed renders d as MM:SS.CC. Each field is truncated, never
// rounded. Minutes do not roll over into hours.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	minutes := d / time.Minute
	seconds := (d % time.Minute) / time.Second
	centis := (d % time.Second) / centisecond
	return fmt.Sprintf("%02d:%02d.%02d", int64(minutes), int64(seconds), int64(centis))
}
