package editor

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/kbukum/fluency/editsession"
	"github.com/kbukum/fluency/errors"
	"github.com/kbukum/fluency/logger"
	"github.com/kbukum/fluency/media"
	"github.com/kbukum/fluency/transcript"
	"github.com/kbukum/fluency/waveform"
)

// ErrStopped is returned by calls made after Run has returned.
var ErrStopped = stderrors.New("editor: stopped")

// Gateway is the remote side of the editor.
type Gateway interface {
	Transcribe(ctx context.Context, filename string, audio []byte) (*transcript.Transcript, error)
	Save(ctx context.Context, filename string, t *transcript.Transcript) error
	Download(ctx context.Context, filename string) ([]byte, error)
}

type audioFile struct {
	name string
	data []byte
}

// Editor is the transcript editor. Create it with New and start it with Run.
type Editor struct {
	cfg      Config
	gw       Gateway
	notifier Notifier
	log      *logger.Logger

	queue   chan func()
	stopped chan struct{}

	// Loop-owned state.
	store       *transcript.Store
	sessions    *editsession.Manager
	wave        *waveform.Controller
	file        *audioFile
	transcribed string
	busy        int
	openSeq     uint64
	editable    map[int]bool
	notice      *Notice
}

// New builds an Editor. notifier may be nil.
func New(cfg Config, gw Gateway, engines waveform.Factory, notifier Notifier, log *logger.Logger) (*Editor, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if notifier == nil {
		notifier = discard{}
	}
	if log == nil {
		log = logger.GetGlobalLogger()
	}

	e := &Editor{
		cfg:      cfg,
		gw:       gw,
		notifier: notifier,
		log:      log.WithComponent("editor"),
		queue:    make(chan func(), cfg.QueueSize),
		stopped:  make(chan struct{}),
		store:    transcript.NewStore(),
		editable: map[int]bool{},
	}
	e.sessions = editsession.NewManager(e.store, log)
	e.wave = waveform.NewController(cfg.Waveform, engines, e.dispatch, listener{e}, log)
	return e, nil
}

// Run processes events until ctx is done. It must be called exactly once.
func (e *Editor) Run(ctx context.Context) error {
	defer close(e.stopped)
	defer e.wave.Close()

	e.log.Debug("editor loop started")
	for {
		select {
		case <-ctx.Done():
			e.log.Debug("editor loop stopped")
			return ctx.Err()
		case fn := <-e.queue:
			fn()
		}
	}
}

// dispatch posts fn from engine and gateway goroutines. Events posted after
// the loop stopped are dropped.
func (e *Editor) dispatch(fn func()) {
	select {
	case e.queue <- fn:
	case <-e.stopped:
	}
}

// call runs fn on the loop and waits for its result.
func (e *Editor) call(ctx context.Context, fn func() error) error {
	res := make(chan error, 1)
	select {
	case e.queue <- func() { res <- fn() }:
	case <-e.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	return e.await(ctx, res)
}

func (e *Editor) await(ctx context.Context, res <-chan error) error {
	select {
	case err := <-res:
		return err
	case <-e.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ChooseFile selects the audio to upload. The current transcript is kept
// until an upload of the new file succeeds.
func (e *Editor) ChooseFile(ctx context.Context, name string, data []byte) error {
	return e.call(ctx, func() error {
		if err := media.Check(name); err != nil {
			e.fail(ctx, MsgUploadFailed, err)
			return err
		}
		e.file = &audioFile{name: name, data: data}
		e.log.Debug("file chosen", logger.Fields(logger.FieldFilename, name, logger.FieldBytes, len(data)))
		return nil
	})
}

// Upload transcribes the chosen file and, on success, replaces the
// transcript and loads the audio into the waveform. It returns once the
// result has been applied. Cancelling ctx stops the wait, not the upload.
func (e *Editor) Upload(ctx context.Context) error {
	done := make(chan error, 1)
	err := e.call(ctx, func() error {
		if e.file == nil {
			err := errors.NoFileSelected()
			e.fail(ctx, MsgNoFile, err)
			return err
		}
		file := *e.file
		e.begin(LevelProgress, MsgTranscribing)
		go func() {
			t, err := e.gw.Transcribe(context.WithoutCancel(ctx), file.name, file.data)
			e.dispatch(func() { done <- e.finishUpload(ctx, file, t, err) })
		}()
		return nil
	})
	if err != nil {
		return err
	}
	return e.await(ctx, done)
}

func (e *Editor) finishUpload(ctx context.Context, file audioFile, t *transcript.Transcript, err error) error {
	e.busy--
	if err != nil {
		e.fail(ctx, MsgUploadFailed, err)
		return err
	}

	e.openSeq++
	e.sessions.Cancel()
	gen := e.store.ReplaceAll(t)
	e.transcribed = file.name
	e.log.WithContext(ctx).Info("transcript loaded", logger.Fields(
		logger.FieldFilename, file.name,
		logger.FieldWordCount, e.store.Len(),
		logger.FieldGeneration, gen,
	))
	e.emit(Notice{Level: LevelSuccess, Text: MsgTranscribed})

	// The new engine starts with an empty range; words become editable on Ready.
	loadErr := e.wave.Load(waveform.Source{Name: file.name, Data: file.data})
	e.refilter()
	if loadErr != nil {
		e.fail(ctx, MsgAudioLoadFailed, loadErr)
		return loadErr
	}
	return nil
}

// TogglePlay plays the region when paused and pauses when playing.
func (e *Editor) TogglePlay(ctx context.Context) error {
	return e.call(ctx, func() error {
		if err := e.wave.TogglePlay(); err != nil {
			e.fail(ctx, MsgPlaybackFailed, err)
			return err
		}
		return nil
	})
}

// OpenEdit closes any open edit and, after OpenDelay, opens the word at
// index. Only the latest OpenEdit takes effect. The word must be editable
// when OpenEdit is called; if it has left the range by the time the open
// runs, an error notice is emitted instead.
func (e *Editor) OpenEdit(ctx context.Context, index int) error {
	return e.call(ctx, func() error {
		e.openSeq++
		e.sessions.Cancel()
		if !e.editable[index] {
			return errors.NotEditable(index)
		}

		seq := e.openSeq
		open := func() {
			if seq != e.openSeq {
				return
			}
			if _, err := e.sessions.Open(index, e.wave.Range()); err != nil {
				e.fail(context.WithoutCancel(ctx), MsgNoWordSelected, err)
			}
		}
		if e.cfg.OpenDelay <= 0 {
			open()
			return nil
		}
		time.AfterFunc(e.cfg.OpenDelay, func() { e.dispatch(open) })
		return nil
	})
}

// SubmitEdit validates form and commits it to the open word. Validation
// errors keep the edit open. A stale edit is closed and returned as a
// conflict.
func (e *Editor) SubmitEdit(ctx context.Context, form editsession.Form) (transcript.Word, error) {
	var w transcript.Word
	err := e.call(ctx, func() error {
		var err error
		w, err = e.sessions.Submit(form)
		if err != nil {
			return err
		}
		e.refilter()
		return nil
	})
	return w, err
}

// CancelEdit closes the open edit, and any pending one, without changes.
func (e *Editor) CancelEdit(ctx context.Context) error {
	return e.call(ctx, func() error {
		e.openSeq++
		e.sessions.Cancel()
		return nil
	})
}

// Save sends the whole transcript to the gateway. The store is never
// modified by a save, whatever its outcome.
func (e *Editor) Save(ctx context.Context) error {
	done := make(chan error, 1)
	err := e.call(ctx, func() error {
		if !e.store.Loaded() {
			return errors.NotReady("save")
		}
		name, snapshot := e.transcribed, e.store.Snapshot()
		e.begin("", "")
		go func() {
			err := e.gw.Save(context.WithoutCancel(ctx), name, snapshot)
			e.dispatch(func() {
				e.busy--
				if err != nil {
					e.fail(ctx, MsgSaveFailed, err)
				} else {
					e.emit(Notice{Level: LevelSuccess, Text: MsgSaved})
				}
				done <- err
			})
		}()
		return nil
	})
	if err != nil {
		return err
	}
	return e.await(ctx, done)
}

// Download fetches the stored transcript of the transcribed file, or of the
// chosen file before any upload succeeded.
func (e *Editor) Download(ctx context.Context) (Artifact, error) {
	type result struct {
		art Artifact
		err error
	}
	done := make(chan result, 1)
	err := e.call(ctx, func() error {
		name := e.transcribed
		if name == "" && e.file != nil {
			name = e.file.name
		}
		if name == "" {
			err := errors.NoFileSelected()
			e.fail(ctx, MsgDownloadFailed, err)
			return err
		}
		e.begin("", "")
		go func() {
			data, err := e.gw.Download(context.WithoutCancel(ctx), name)
			e.dispatch(func() {
				e.busy--
				if err != nil {
					e.fail(ctx, MsgDownloadFailed, err)
					done <- result{err: err}
					return
				}
				done <- result{art: Artifact{Name: ArtifactName(name), Data: data}}
			})
		}()
		return nil
	})
	if err != nil {
		return Artifact{}, err
	}

	select {
	case r := <-done:
		return r.art, r.err
	case <-e.stopped:
		return Artifact{}, ErrStopped
	case <-ctx.Done():
		return Artifact{}, ctx.Err()
	}
}

// View returns a snapshot of the editor.
func (e *Editor) View(ctx context.Context) (View, error) {
	var v View
	err := e.call(ctx, func() error {
		v = e.view()
		return nil
	})
	return v, err
}

func (e *Editor) view() View {
	r := e.wave.Range()
	startMs, endMs := r.Millis()
	v := View{
		Transcribed:  e.transcribed,
		Busy:         e.busy > 0,
		State:        e.wave.State(),
		Duration:     e.wave.Duration(),
		Range:        r,
		RangeStartMs: startMs,
		RangeEndMs:   endMs,
		Notice:       e.notice,
	}
	if e.file != nil {
		v.File = e.file.name
	}

	selected := -1
	if s, ok := e.sessions.Current(); ok {
		selected = s.Ref.Index
		v.Session = &SessionView{Index: s.Ref.Index, Form: s.Form(), Feedback: s.Feedback()}
	}
	words := e.store.Words()
	v.Words = make([]WordView, len(words))
	for i, w := range words {
		v.Words[i] = WordView{
			Index:     i,
			Text:      w.Text,
			StartTime: w.StartTime,
			EndTime:   w.EndTime,
			Editable:  e.editable[i],
			Selected:  i == selected,
			QCPass:    w.QC,
			Edited:    w.Edited,
		}
	}
	return v
}

// refilter recomputes the editable set from the store and the range.
func (e *Editor) refilter() {
	r := e.wave.Range()
	editable := e.store.Editable(r)
	e.editable = make(map[int]bool, len(editable))
	for _, iw := range editable {
		e.editable[iw.Index] = true
	}
	fields := logger.RegionFields(r.Start, r.End)
	fields[logger.FieldWordCount] = len(editable)
	e.log.Debug("editable words recomputed", fields)
}

func (e *Editor) begin(level Level, text string) {
	e.busy++
	if text != "" {
		e.emit(Notice{Level: level, Text: text})
	}
}

func (e *Editor) fail(ctx context.Context, text string, err error) {
	e.log.WithContext(ctx).Warn(text, logger.MergeWithError(logger.Fields("kind", string(errors.Kind(err))), err))
	e.emit(Notice{Level: LevelError, Text: text, Err: err})
}

func (e *Editor) emit(n Notice) {
	e.notice = &n
	e.notifier.Notify(n)
}

// listener receives waveform changes on the loop.
type listener struct{ e *Editor }

func (l listener) Loaded(duration float64) {
	l.e.log.Debug("audio loaded", logger.Fields("duration", duration))
}

func (l listener) RangeChanged(transcript.TimeRange) {
	l.e.refilter()
}

func (l listener) PlaybackChanged(playing bool) {
	l.e.log.Debug("playback changed", logger.Fields("playing", playing))
}

func (l listener) Failed(err error) {
	text := MsgPlaybackFailed
	switch {
	case l.e.wave.State() == waveform.Unloaded:
		text = MsgAudioLoadFailed
	case errors.Kind(err) == errors.KindInput:
		text = MsgRegionRejected
	}
	l.e.fail(context.Background(), text, err)
}
