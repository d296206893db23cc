package transcript

import (
	"math"

	"github.com/kbukum/fluency/errors"
)

// TimeRange is the selected playback window in seconds.
type TimeRange struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// FullRange covers an entire recording.
func FullRange(duration float64) TimeRange {
	return TimeRange{Start: 0, End: duration}
}

// NewTimeRange builds a range and checks 0 <= start < end <= duration.
func NewTimeRange(start, end, duration float64) (TimeRange, error) {
	if start < 0 || end <= start || end > duration {
		return TimeRange{}, errors.RegionOutOfBounds(start, end, duration)
	}
	return TimeRange{Start: start, End: end}, nil
}

// Length returns the range length in seconds.
func (r TimeRange) Length() float64 { return r.End - r.Start }

// Millis returns the range rounded to whole milliseconds for display.
func (r TimeRange) Millis() (start, end int64) {
	return int64(math.Round(r.Start * 1000)), int64(math.Round(r.End * 1000))
}
