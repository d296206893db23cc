package editor

import (
	"github.com/kbukum/fluency/editsession"
	"github.com/kbukum/fluency/transcript"
	"github.com/kbukum/fluency/waveform"
)

// View is a snapshot of everything the user sees.
type View struct {
	// File is the chosen audio file name, empty before ChooseFile.
	File string
	// Transcribed is the file the current transcript belongs to.
	Transcribed string
	Busy        bool

	State    waveform.State
	Duration float64
	Range    transcript.TimeRange
	// RangeStartMs and RangeEndMs are Range rounded to milliseconds.
	RangeStartMs int64
	RangeEndMs   int64

	Words []WordView
	// Session is nil when no word is open.
	Session *SessionView
	Notice  *Notice
}

// Playing reports whether the region is playing.
func (v View) Playing() bool { return v.State == waveform.Playing }

// WordView is one transcript word with its display flags.
type WordView struct {
	Index     int
	Text      string
	StartTime int64
	EndTime   int64
	Editable  bool
	Selected  bool
	QCPass    bool
	Edited    bool
}

// SessionView is the open edit.
type SessionView struct {
	Index    int
	Form     editsession.Form
	Feedback string
}

// Artifact is a downloaded transcript ready to be written to disk.
type Artifact struct {
	Name string
	Data []byte
}

// ArtifactName is the download name for a transcript of filename.
func ArtifactName(filename string) string {
	return filename + "_transcription.json"
}
