package transcription

import (
	"github.com/kbukum/fluency/provider"
	"github.com/kbukum/fluency/transcript"
)

// Provider turns audio into a word-level transcript with QC flags.
type Provider interface {
	provider.RequestResponse[Request, *transcript.Transcript]
}
