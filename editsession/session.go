// Package editsession manages the single in-flight edit of a transcript word.
package editsession

import (
	"strconv"

	"github.com/kbukum/fluency/transcript"
)

// NoFeedback is shown when the word being edited carries no quality note.
const NoFeedback = "No QC feedback available for this word"

// Form is the edit form as typed by the user. Times are decimal seconds.
type Form struct {
	Text  string `json:"text" validate:"required"`
	Start string `json:"start" validate:"required,seconds"`
	End   string `json:"end" validate:"required,seconds"`
}

// Session is the word currently being edited.
type Session struct {
	Ref  transcript.EditRef
	Word transcript.Word
	// QCWord is the quality note copied from the word when the session opened.
	QCWord string
}

// Feedback returns the quality note, or NoFeedback when there is none.
func (s *Session) Feedback() string {
	if s.QCWord == "" {
		return NoFeedback
	}
	return s.QCWord
}

// Form returns a form prefilled with the word as it was when opened.
func (s *Session) Form() Form {
	return Form{
		Text:  s.Word.Text,
		Start: formatSeconds(s.Word.StartSeconds()),
		End:   formatSeconds(s.Word.EndSeconds()),
	}
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
