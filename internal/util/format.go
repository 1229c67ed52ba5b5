package util

import (
	"fmt"
	"time"
)

// FormatDuration formats a duration as m:ss.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	m := total / 60
	s := total % 60
	return fmt.Sprintf("%d:%02d", m, s)
}

// FormatSeconds formats a position in seconds as m:ss.
func FormatSeconds(sec float64) string {
	return FormatDuration(time.Duration(sec * float64(time.Second)))
}
