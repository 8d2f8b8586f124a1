package probe

import (
	"math"
	"strconv"
)

// Metadata is what renword needs to know about one media file.
type Metadata struct {
	Width      int
	Height     int
	Duration   float64 // Seconds; 0 when unknown.
	Codec      string  // Codec of the primary video stream, else of the first stream.
	FormatName string
	IsImage    bool
	IsVideo    bool
}

// Resolution returns "WxH" for the primary picture, or "" when the
// dimensions are unknown.
func (m *Metadata) Resolution() string {
	if m == nil || m.Width <= 0 || m.Height <= 0 {
		return ""
	}
	return strconv.Itoa(m.Width) + "x" + strconv.Itoa(m.Height)
}

// Seconds returns the duration rounded down to whole seconds.
func (m *Metadata) Seconds() int {
	if m == nil || m.Duration <= 0 || math.IsNaN(m.Duration) {
		return 0
	}
	return int(m.Duration)
}
