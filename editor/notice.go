package editor

// Level is the severity of a Notice.
type Level string

const (
	LevelProgress Level = "progress"
	LevelSuccess  Level = "success"
	LevelError    Level = "error"
)

// User-facing notice texts.
const (
	MsgNoFile          = "Please upload a file!"
	MsgTranscribing    = "Transcribing audio..."
	MsgTranscribed     = "Audio transcribed successfully!"
	MsgUploadFailed    = "Error uploading file"
	MsgSaved           = "Edits Saved!"
	MsgSaveFailed      = "Error saving edits"
	MsgDownloadFailed  = "Error downloading JSON"
	MsgNoWordSelected  = "No words chosen to edit"
	MsgPlaybackFailed  = "Error playing audio"
	MsgRegionRejected  = "Region update rejected"
	MsgAudioLoadFailed = "Error loading audio"
)

// Notice is a message for the user. Err is set on error notices.
type Notice struct {
	Level Level
	Text  string
	Err   error
}

// Notifier receives notices on the editor loop and must not block.
type Notifier interface {
	Notify(n Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

// Notify calls f(n).
func (f NotifierFunc) Notify(n Notice) { f(n) }

type discard struct{}

func (discard) Notify(Notice) {}
