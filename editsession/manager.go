package editsession

import (
	"strings"

	"github.com/kbukum/fluency/errors"
	"github.com/kbukum/fluency/logger"
	"github.com/kbukum/fluency/transcript"
	"github.com/kbukum/fluency/validation"
)

// Manager holds at most one open Session over a Store. It is not safe for
// concurrent use.
type Manager struct {
	store   *transcript.Store
	current *Session
	log     *logger.Logger
}

// NewManager creates a manager with no open session.
func NewManager(store *transcript.Store, log *logger.Logger) *Manager {
	return &Manager{store: store, log: log.WithComponent("editsession")}
}

// Current returns the open session, if any.
func (m *Manager) Current() (*Session, bool) {
	return m.current, m.current != nil
}

// Open closes any open session, then opens one on the word at index. The
// word must overlap r.
func (m *Manager) Open(index int, r transcript.TimeRange) (*Session, error) {
	m.Cancel()

	editable := false
	for _, iw := range m.store.Editable(r) {
		if iw.Index == index {
			editable = true
			break
		}
	}
	if !editable {
		return nil, errors.NotEditable(index)
	}

	ref, err := m.store.Ref(index)
	if err != nil {
		return nil, err
	}
	w, _ := m.store.Word(index)
	m.current = &Session{Ref: ref, Word: w, QCWord: w.QCWord}
	m.log.Debug("edit opened", logger.Fields(logger.FieldWordIndex, index, logger.FieldGeneration, ref.Generation))
	return m.current, nil
}

// Cancel discards the open session without touching the store.
func (m *Manager) Cancel() {
	if m.current != nil {
		m.log.Debug("edit closed", logger.Fields(logger.FieldWordIndex, m.current.Ref.Index))
	}
	m.current = nil
}

// Submit validates f and commits it to the open session's word. A form that
// fails validation leaves the session open so the user can correct it. A
// stale session is closed and reported as a conflict.
func (m *Manager) Submit(f Form) (transcript.Word, error) {
	if m.current == nil {
		return transcript.Word{}, errors.NotReady("submit an edit without an open word")
	}

	u, err := Parse(f)
	if err != nil {
		return transcript.Word{}, err
	}

	ref := m.current.Ref
	w, err := m.store.CommitEdit(ref, u)
	if err != nil {
		if errors.Kind(err) == errors.KindConflict {
			m.log.Warn("stale edit rejected", logger.MergeWithError(logger.Fields(logger.FieldWordIndex, ref.Index, logger.FieldGeneration, ref.Generation), err))
			m.current = nil
		}
		return transcript.Word{}, err
	}

	m.log.Info("edit committed", logger.Fields(logger.FieldWordIndex, ref.Index, "text", w.Text))
	m.current = nil
	return w, nil
}

// Parse validates a form and converts its seconds to rounded milliseconds.
func Parse(f Form) (transcript.Update, error) {
	if err := validation.Validate(f); err != nil {
		return transcript.Update{}, err
	}
	start, _ := validation.ParseSeconds(f.Start)
	end, _ := validation.ParseSeconds(f.End)

	v := validation.New().
		Custom(strings.TrimSpace(f.Text) != "", "text", "must not be blank").
		Ordered("end", start, end)
	if appErr := v.Validate(); appErr != nil {
		return transcript.Update{}, appErr
	}
	return transcript.Update{
		Text:      f.Text,
		StartTime: transcript.SecondsToMillis(start),
		EndTime:   transcript.SecondsToMillis(end),
	}, nil
}
