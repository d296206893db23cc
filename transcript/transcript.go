package transcript

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"

	"github.com/kbukum/fluency/errors"
)

const wordsKey = "words"

// Transcript is an ordered word list plus whatever other top-level fields the
// transcription service returned. Metadata is carried through save and
// download untouched.
type Transcript struct {
	Words    []Word
	Metadata map[string]json.RawMessage
}

// MarshalJSON writes the metadata fields alongside a "words" array.
func (t Transcript) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(t.Metadata)+1)
	maps.Copy(out, t.Metadata)

	words := t.Words
	if words == nil {
		words = []Word{}
	}
	raw, err := json.Marshal(words)
	if err != nil {
		return nil, err
	}
	out[wordsKey] = raw
	return json.Marshal(out)
}

// UnmarshalJSON splits "words" from the remaining top-level fields.
func (t *Transcript) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	rawWords, ok := fields[wordsKey]
	if !ok || bytes.Equal(bytes.TrimSpace(rawWords), []byte("null")) {
		return fmt.Errorf("transcript has no %q array", wordsKey)
	}
	var words []Word
	if err := json.Unmarshal(rawWords, &words); err != nil {
		return fmt.Errorf("decode %s: %w", wordsKey, err)
	}
	delete(fields, wordsKey)

	t.Words = words
	t.Metadata = fields
	return nil
}

// Decode parses a transcript document and checks every word's timing.
func Decode(data []byte) (*Transcript, error) {
	var t Transcript
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, errors.InvalidFormat("transcript", "JSON object with a words array").WithCause(err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Validate checks that every word has non-negative times with start <= end.
func (t *Transcript) Validate() error {
	for i, w := range t.Words {
		if w.StartTime < 0 || w.EndTime < w.StartTime {
			return errors.InvalidInput(wordsKey, fmt.Sprintf("word %d has invalid timing [%d, %d]", i, w.StartTime, w.EndTime)).
				WithDetail("index", i)
		}
	}
	return nil
}

// Clone returns a deep copy. Metadata values are shared since they are never mutated.
func (t *Transcript) Clone() *Transcript {
	if t == nil {
		return nil
	}
	return &Transcript{
		Words:    append([]Word(nil), t.Words...),
		Metadata: maps.Clone(t.Metadata),
	}
}
