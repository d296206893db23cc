package transcript

import (
	"github.com/google/uuid"

	"github.com/kbukum/fluency/errors"
)

// EditRef pins a word by position, ingestion ID and store generation at the
// moment an edit was opened.
type EditRef struct {
	Generation uint64
	Index      int
	WordID     string
}

// Store owns the authoritative transcript. It is not safe for concurrent
// use; callers serialize access.
type Store struct {
	current    *Transcript
	generation uint64
	revision   uint64
	newID      func() string

	cacheRev   uint64
	cacheRange TimeRange
	cacheValid bool
	cache      []Indexed
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{newID: uuid.NewString}
}

// ReplaceAll discards the current transcript and installs a copy of t,
// stamping each word with a fresh ID. It returns the new generation.
func (s *Store) ReplaceAll(t *Transcript) uint64 {
	next := t.Clone()
	if next == nil {
		next = &Transcript{}
	}
	for i := range next.Words {
		next.Words[i].ID = s.newID()
	}
	s.current = next
	s.generation++
	s.revision++
	return s.generation
}

// Loaded reports whether a transcript has been installed.
func (s *Store) Loaded() bool { return s.current != nil }

// Generation counts ReplaceAll calls.
func (s *Store) Generation() uint64 { return s.generation }

// Revision changes on every mutation.
func (s *Store) Revision() uint64 { return s.revision }

// Len returns the number of words.
func (s *Store) Len() int {
	if s.current == nil {
		return 0
	}
	return len(s.current.Words)
}

// Word returns the word at index i.
func (s *Store) Word(i int) (Word, bool) {
	if i < 0 || i >= s.Len() {
		return Word{}, false
	}
	return s.current.Words[i], true
}

// Words returns a copy of the word list.
func (s *Store) Words() []Word {
	if s.current == nil {
		return nil
	}
	return append([]Word(nil), s.current.Words...)
}

// Snapshot returns a deep copy of the whole transcript, metadata included.
func (s *Store) Snapshot() *Transcript {
	return s.current.Clone()
}

// Ref captures an EditRef for the word at index i.
func (s *Store) Ref(i int) (EditRef, error) {
	w, ok := s.Word(i)
	if !ok {
		return EditRef{}, errors.FormatResourceError("word", i)
	}
	return EditRef{Generation: s.generation, Index: i, WordID: w.ID}, nil
}

// CommitEdit overwrites the referenced word's text and times and marks it
// edited. The quality fields are kept. A reference from an earlier
// generation, or one whose position now holds a different word, is
// rejected with a conflict and nothing changes.
func (s *Store) CommitEdit(ref EditRef, u Update) (Word, error) {
	w, ok := s.Word(ref.Index)
	if !ok || ref.Generation != s.generation || w.ID != ref.WordID {
		return Word{}, errors.StaleEdit(ref.Index, ref.Generation)
	}
	if u.StartTime < 0 || u.EndTime < u.StartTime {
		return Word{}, errors.InvalidInput("end", "start must not be after end")
	}

	w.Text = u.Text
	w.StartTime = u.StartTime
	w.EndTime = u.EndTime
	w.Edited = true
	s.current.Words[ref.Index] = w
	s.revision++
	return w, nil
}

// Editable returns the words overlapping r. The result is cached until the
// range or the transcript changes. The returned slice is shared and must
// not be modified.
func (s *Store) Editable(r TimeRange) []Indexed {
	if s.cacheValid && s.cacheRev == s.revision && s.cacheRange == r {
		return s.cache
	}
	var words []Word
	if s.current != nil {
		words = s.current.Words
	}
	s.cache = SelectEditable(words, r)
	s.cacheRev = s.revision
	s.cacheRange = r
	s.cacheValid = true
	return s.cache
}
