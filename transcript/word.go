package transcript

import "math"

// Word is one transcribed word. Times are integer milliseconds.
type Word struct {
	// ID is assigned at ingestion and never leaves the process.
	ID        string `json:"-"`
	Text      string `json:"word"`
	StartTime int64  `json:"start_time"`
	EndTime   int64  `json:"end_time"`
	// QC is true when the word passed the transcription service's quality check.
	QC bool `json:"qc"`
	// QCWord is the quality-feedback note for the word, if any.
	QCWord string `json:"qc_word,omitempty"`
	Edited bool   `json:"edited,omitempty"`
}

// StartSeconds returns the start time in seconds.
func (w Word) StartSeconds() float64 { return float64(w.StartTime) / 1000 }

// EndSeconds returns the end time in seconds.
func (w Word) EndSeconds() float64 { return float64(w.EndTime) / 1000 }

// Overlaps reports whether the word intersects r. Touching endpoints do not count.
func (w Word) Overlaps(r TimeRange) bool {
	return w.StartSeconds() < r.End && w.EndSeconds() > r.Start
}

// Update holds the replacement values for a committed edit.
type Update struct {
	Text      string
	StartTime int64
	EndTime   int64
}

// SecondsToMillis converts an edit-boundary seconds value to stored milliseconds.
func SecondsToMillis(s float64) int64 {
	return int64(math.Round(s * 1000))
}
