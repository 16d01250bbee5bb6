package artifact

import (
	"fmt"
	"strings"
)

// Timestamp formats t seconds as HH:MM:SS,mmm. The sub-second part is
// truncated to whole milliseconds, never rounded, so no carry happens.
// Hours grow past two digits as needed.
func Timestamp(t float64) string {
	if t < 0 {
		t = 0
	}
	whole := int64(t)
	h := whole / 3600
	m := (whole % 3600) / 60
	s := whole % 60
	ms := int64((t - float64(whole)) * 1000)
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

// VTTTimestamp is Timestamp with the WebVTT "." millisecond separator.
func VTTTimestamp(t float64) string {
	return strings.Replace(Timestamp(t), ",", ".", 1)
}
