package editor

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kbukum/fluency/editsession"
	"github.com/kbukum/fluency/errors"
	"github.com/kbukum/fluency/logger"
	"github.com/kbukum/fluency/transcript"
	"github.com/kbukum/fluency/waveform"
)

const catDog = `{
	"words": [
		{"word": "cat", "start_time": 0, "end_time": 500, "qc": true},
		{"word": "dog", "start_time": 2500, "end_time": 3000, "qc": false, "qc_word": "dug"}
	],
	"language": "en"
}`

type fakeGateway struct {
	mu            sync.Mutex
	transcribeErr error
	saveErr       error
	downloadErr   error
	transcribes   []string
	saves         []*transcript.Transcript
	downloads     []string
}

func (g *fakeGateway) Transcribe(_ context.Context, filename string, _ []byte) (*transcript.Transcript, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.transcribes = append(g.transcribes, filename)
	if g.transcribeErr != nil {
		return nil, g.transcribeErr
	}
	return transcript.Decode([]byte(catDog))
}

func (g *fakeGateway) Save(_ context.Context, _ string, t *transcript.Transcript) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.saves = append(g.saves, t)
	return g.saveErr
}

func (g *fakeGateway) Download(_ context.Context, filename string) ([]byte, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.downloads = append(g.downloads, filename)
	if g.downloadErr != nil {
		return nil, g.downloadErr
	}
	return []byte(catDog), nil
}

func (g *fakeGateway) transcribeCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.transcribes)
}

type notices struct {
	mu   sync.Mutex
	list []Notice
}

func (n *notices) Notify(x Notice) {
	n.mu.Lock()
	n.list = append(n.list, x)
	n.mu.Unlock()
}

func (n *notices) texts() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.list))
	for i, x := range n.list {
		out[i] = x.Text
	}
	return out
}

type harness struct {
	ed      *Editor
	gw      *fakeGateway
	clocks  *waveform.ClockFactory
	notices *notices
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessWith(t, Config{}, waveform.WithProber(waveform.FixedDuration(4.0)))
}

// newHarnessWith runs an editor over cfg whose clocks never finish on their own.
func newHarnessWith(t *testing.T, cfg Config, opts ...waveform.ClockOption) *harness {
	t.Helper()
	h := &harness{
		gw:      &fakeGateway{},
		clocks:  waveform.NewClockFactory(append(opts, waveform.WithSpeed(0))...),
		notices: &notices{},
	}
	ed, err := New(cfg, h.gw, h.clocks.New, h.notices, logger.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	h.ed = ed

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		_ = ed.Run(ctx)
		close(stopped)
	}()
	t.Cleanup(func() {
		cancel()
		<-stopped
	})
	return h
}

func (h *harness) view(t *testing.T) View {
	t.Helper()
	v, err := h.ed.View(context.Background())
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	return v
}

func (h *harness) eventually(t *testing.T, cond func(View) bool) View {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		v := h.view(t)
		if cond(v) {
			return v
		}
		if time.Now().After(deadline) {
			t.Fatalf("condition not met, last view %+v", v)
		}
		time.Sleep(2 * time.Millisecond)
	}
}

// loaded uploads a.wav and waits for the waveform to become ready.
func (h *harness) loaded(t *testing.T) View {
	t.Helper()
	ctx := context.Background()
	if err := h.ed.ChooseFile(ctx, "a.wav", []byte("RIFF")); err != nil {
		t.Fatalf("ChooseFile: %v", err)
	}
	if err := h.ed.Upload(ctx); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	return h.eventually(t, func(v View) bool { return v.State == waveform.Paused })
}

func editableTexts(v View) []string {
	var out []string
	for _, w := range v.Words {
		if w.Editable {
			out = append(out, w.Text)
		}
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestEditor_FullDurationShowsAllWords(t *testing.T) {
	h := newHarness(t)
	v := h.loaded(t)

	if got := editableTexts(v); !equalStrings(got, []string{"cat", "dog"}) {
		t.Errorf("editable = %v, want [cat dog]", got)
	}
	if v.Range != (transcript.TimeRange{Start: 0, End: 4.0}) || v.RangeStartMs != 0 || v.RangeEndMs != 4000 {
		t.Errorf("range = %+v (%d-%d ms)", v.Range, v.RangeStartMs, v.RangeEndMs)
	}
	if v.Transcribed != "a.wav" || v.Duration != 4.0 {
		t.Errorf("unexpected view %+v", v)
	}
	if !v.Words[0].QCPass || v.Words[1].QCPass {
		t.Error("qc flags not carried into the view")
	}
	want := []string{MsgTranscribing, MsgTranscribed}
	if got := h.notices.texts(); !equalStrings(got, want) {
		t.Errorf("notices = %v, want %v", got, want)
	}
}

func TestEditor_RegionNarrowsEditableWords(t *testing.T) {
	h := newHarness(t)
	h.loaded(t)

	h.clocks.Last().Drag(0, 2.0)
	v := h.view(t)
	if got := editableTexts(v); !equalStrings(got, []string{"cat"}) {
		t.Errorf("editable = %v, want [cat]", got)
	}
	if v.RangeEndMs != 2000 {
		t.Errorf("RangeEndMs = %d", v.RangeEndMs)
	}
	if err := h.ed.OpenEdit(context.Background(), 1); errors.Kind(err) != errors.KindInput {
		t.Errorf("opening a word outside the region: %v", err)
	}
}

func TestEditor_RejectedRegionKeepsRange(t *testing.T) {
	h := newHarness(t)
	h.loaded(t)

	h.clocks.Last().Drag(1.0, 1.05)
	v := h.view(t)
	if v.Range.End != 4.0 {
		t.Errorf("range changed to %+v", v.Range)
	}
	if v.Notice == nil || v.Notice.Text != MsgRegionRejected {
		t.Errorf("notice = %+v", v.Notice)
	}
}

func TestEditor_EditRoundTrip(t *testing.T) {
	h := newHarness(t)
	h.loaded(t)
	ctx := context.Background()

	if err := h.ed.OpenEdit(ctx, 0); err != nil {
		t.Fatalf("OpenEdit: %v", err)
	}
	v := h.eventually(t, func(v View) bool { return v.Session != nil })
	if v.Session.Index != 0 || v.Session.Feedback != editsession.NoFeedback || !v.Words[0].Selected {
		t.Errorf("session = %+v", v.Session)
	}
	if v.Session.Form != (editsession.Form{Text: "cat", Start: "0", End: "0.5"}) {
		t.Errorf("form = %+v", v.Session.Form)
	}

	w, err := h.ed.SubmitEdit(ctx, editsession.Form{Text: "kat", Start: "0", End: "0.6"})
	if err != nil {
		t.Fatalf("SubmitEdit: %v", err)
	}
	if w.Text != "kat" || w.StartTime != 0 || w.EndTime != 600 || !w.Edited {
		t.Errorf("committed %+v", w)
	}

	v = h.view(t)
	if v.Session != nil {
		t.Error("session should close after commit")
	}
	got := v.Words[0]
	if got.Text != "kat" || got.EndTime != 600 || !got.Edited || got.Selected {
		t.Errorf("word 0 = %+v", got)
	}
	if v.Words[1].Edited {
		t.Error("word 1 should be untouched")
	}
}

func TestEditor_InvalidEditKeepsSessionOpen(t *testing.T) {
	h := newHarness(t)
	h.loaded(t)
	ctx := context.Background()

	_ = h.ed.OpenEdit(ctx, 1)
	h.eventually(t, func(v View) bool { return v.Session != nil })

	_, err := h.ed.SubmitEdit(ctx, editsession.Form{Text: "dog", Start: "3", End: "2.5"})
	if errors.Kind(err) != errors.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	v := h.view(t)
	if v.Session == nil || v.Session.Feedback != "dug" {
		t.Errorf("session = %+v", v.Session)
	}
	if v.Words[1].Edited {
		t.Error("store must not change on a rejected edit")
	}
}

func TestEditor_LatestOpenWins(t *testing.T) {
	h := newHarness(t)
	h.loaded(t)
	ctx := context.Background()

	_ = h.ed.OpenEdit(ctx, 0)
	_ = h.ed.OpenEdit(ctx, 1)
	v := h.eventually(t, func(v View) bool { return v.Session != nil })
	if v.Session.Index != 1 {
		t.Errorf("opened %d, want 1", v.Session.Index)
	}
	time.Sleep(3 * h.ed.cfg.OpenDelay)
	if v := h.view(t); v.Session == nil || v.Session.Index != 1 {
		t.Errorf("a superseded open took effect: %+v", v.Session)
	}

	if err := h.ed.CancelEdit(ctx); err != nil {
		t.Fatalf("CancelEdit: %v", err)
	}
	if v := h.view(t); v.Session != nil {
		t.Error("session should be closed")
	}
}

func TestEditor_UploadWithoutFile(t *testing.T) {
	h := newHarness(t)

	err := h.ed.Upload(context.Background())
	if errors.Kind(err) != errors.KindInput {
		t.Fatalf("expected input error, got %v", err)
	}
	if n := h.gw.transcribeCount(); n != 0 {
		t.Errorf("gateway called %d times", n)
	}
	if got := h.notices.texts(); !equalStrings(got, []string{MsgNoFile}) {
		t.Errorf("notices = %v", got)
	}
}

func TestEditor_UnsupportedFile(t *testing.T) {
	h := newHarness(t)
	err := h.ed.ChooseFile(context.Background(), "notes.txt", []byte("x"))
	if errors.Kind(err) != errors.KindInput {
		t.Fatalf("expected input error, got %v", err)
	}
	if v := h.view(t); v.File != "" {
		t.Errorf("file = %q", v.File)
	}
}

func TestEditor_UploadFailure(t *testing.T) {
	h := newHarness(t)
	h.gw.transcribeErr = errors.ExternalServiceError("transcription", stderrors.New("502"))
	ctx := context.Background()

	_ = h.ed.ChooseFile(ctx, "a.wav", []byte("RIFF"))
	if err := h.ed.Upload(ctx); errors.Kind(err) != errors.KindTransport {
		t.Fatalf("expected transport error, got %v", err)
	}
	v := h.view(t)
	if len(v.Words) != 0 || v.Busy || v.State != waveform.Unloaded {
		t.Errorf("unexpected view %+v", v)
	}
	if h.clocks.Count() != 0 {
		t.Error("audio must not load after a failed upload")
	}
	if got := h.notices.texts(); !equalStrings(got, []string{MsgTranscribing, MsgUploadFailed}) {
		t.Errorf("notices = %v", got)
	}
}

func TestEditor_SaveFailureLeavesStore(t *testing.T) {
	h := newHarness(t)
	before := h.loaded(t)
	h.gw.saveErr = errors.ExternalServiceError("transcription", stderrors.New("503"))

	if err := h.ed.Save(context.Background()); errors.Kind(err) != errors.KindTransport {
		t.Fatalf("expected transport error, got %v", err)
	}
	after := h.view(t)
	if after.Notice == nil || after.Notice.Text != MsgSaveFailed || after.Notice.Level != LevelError {
		t.Errorf("notice = %+v", after.Notice)
	}
	if len(after.Words) != len(before.Words) {
		t.Fatal("word count changed")
	}
	for i := range before.Words {
		if before.Words[i] != after.Words[i] {
			t.Errorf("word %d changed: %+v -> %+v", i, before.Words[i], after.Words[i])
		}
	}
}

func TestEditor_SaveSendsEdits(t *testing.T) {
	h := newHarness(t)
	h.loaded(t)
	ctx := context.Background()

	_ = h.ed.OpenEdit(ctx, 0)
	h.eventually(t, func(v View) bool { return v.Session != nil })
	if _, err := h.ed.SubmitEdit(ctx, editsession.Form{Text: "kat", Start: "0", End: "0.6"}); err != nil {
		t.Fatalf("SubmitEdit: %v", err)
	}
	if err := h.ed.Save(ctx); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if len(h.gw.saves) != 1 {
		t.Fatalf("expected one save, got %d", len(h.gw.saves))
	}
	saved := h.gw.saves[0]
	if !saved.Words[0].Edited || saved.Words[0].Text != "kat" || string(saved.Metadata["language"]) != `"en"` {
		t.Errorf("saved %+v", saved)
	}
	if v := h.view(t); v.Notice == nil || v.Notice.Text != MsgSaved {
		t.Errorf("notice = %+v", v.Notice)
	}
}

func TestEditor_SaveBeforeUpload(t *testing.T) {
	h := newHarness(t)
	if err := h.ed.Save(context.Background()); errors.Kind(err) != errors.KindConflict {
		t.Errorf("expected not-ready conflict, got %v", err)
	}
}

func TestEditor_Download(t *testing.T) {
	h := newHarness(t)
	h.loaded(t)

	art, err := h.ed.Download(context.Background())
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if art.Name != "a.wav_transcription.json" || string(art.Data) != catDog {
		t.Errorf("artifact = %s (%d bytes)", art.Name, len(art.Data))
	}

	h.gw.mu.Lock()
	h.gw.downloadErr = errors.ExternalServiceError("transcription", stderrors.New("404"))
	h.gw.mu.Unlock()
	if _, err := h.ed.Download(context.Background()); err == nil {
		t.Fatal("expected download error")
	}
	if v := h.view(t); v.Notice == nil || v.Notice.Text != MsgDownloadFailed {
		t.Errorf("notice = %+v", v.Notice)
	}
}

func TestEditor_PlaybackCoversRegion(t *testing.T) {
	h := newHarness(t)
	h.loaded(t)
	ctx := context.Background()

	if err := h.ed.TogglePlay(ctx); err != nil {
		t.Fatalf("TogglePlay: %v", err)
	}
	clock := h.clocks.Last()
	playing, from, to := clock.Playing()
	if !playing || from != 0.1 || to != 4.0 {
		t.Errorf("playing=%v range=[%g, %g], want [0.1, 4]", playing, from, to)
	}
	if !h.view(t).Playing() {
		t.Error("view should report playing")
	}

	clock.Complete()
	if v := h.view(t); v.State != waveform.Paused {
		t.Errorf("state after finish = %s", v.State)
	}

	if !clock.Click() {
		t.Error("region click must stop propagation")
	}
	if v := h.view(t); v.State != waveform.Playing {
		t.Errorf("state after click = %s", v.State)
	}
	if err := h.ed.TogglePlay(ctx); err != nil {
		t.Fatalf("TogglePlay: %v", err)
	}
	if playing, _, _ := clock.Playing(); playing {
		t.Error("clock still playing after pause")
	}
}

func TestEditor_TogglePlayBeforeLoad(t *testing.T) {
	h := newHarness(t)
	if err := h.ed.TogglePlay(context.Background()); errors.Kind(err) != errors.KindConflict {
		t.Errorf("expected not-ready conflict, got %v", err)
	}
}

func TestEditor_ReuploadReplacesEngine(t *testing.T) {
	h := newHarness(t)
	h.loaded(t)
	first := h.clocks.Last()
	ctx := context.Background()

	_ = h.ed.OpenEdit(ctx, 0)
	h.eventually(t, func(v View) bool { return v.Session != nil })

	if err := h.ed.Upload(ctx); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	v := h.eventually(t, func(v View) bool { return v.State == waveform.Paused })
	if h.clocks.Count() != 2 || !first.Destroyed() {
		t.Errorf("expected the first engine destroyed and a second created, count=%d", h.clocks.Count())
	}
	if v.Session != nil {
		t.Error("a new transcript must close the open edit")
	}

	first.Drag(0, 1.0)
	if v := h.view(t); v.Range.End != 4.0 {
		t.Errorf("stale engine changed the range to %+v", v.Range)
	}
}

func TestEditor_FailedReloadLeavesNothingEditable(t *testing.T) {
	wavOnly := func(src waveform.Source) (float64, error) {
		if strings.HasSuffix(src.Name, ".mp3") {
			return 0, stderrors.New("not a wave file")
		}
		return 4, nil
	}
	h := newHarnessWith(t, Config{}, waveform.WithProber(wavOnly))
	if got := editableTexts(h.loaded(t)); !equalStrings(got, []string{"cat", "dog"}) {
		t.Fatalf("editable = %v", got)
	}
	ctx := context.Background()

	if err := h.ed.ChooseFile(ctx, "b.mp3", []byte("ID3")); err != nil {
		t.Fatalf("ChooseFile: %v", err)
	}
	if err := h.ed.Upload(ctx); err == nil {
		t.Fatal("expected the audio load to fail")
	}
	v := h.view(t)
	if v.State != waveform.Unloaded || v.Range != (transcript.TimeRange{}) {
		t.Errorf("state = %s range = %+v", v.State, v.Range)
	}
	if got := editableTexts(v); len(got) != 0 {
		t.Errorf("editable without audio: %v", got)
	}
	if err := h.ed.OpenEdit(ctx, 0); errors.Kind(err) != errors.KindInput {
		t.Errorf("OpenEdit = %v, want not-editable input error", err)
	}
	if got := h.notices.texts(); got[len(got)-1] != MsgAudioLoadFailed {
		t.Errorf("notices = %v", got)
	}
}

func TestEditor_OpenAfterRangeMovedNotifies(t *testing.T) {
	h := newHarnessWith(t, Config{OpenDelay: 200 * time.Millisecond}, waveform.WithProber(waveform.FixedDuration(4.0)))
	h.loaded(t)

	if err := h.ed.OpenEdit(context.Background(), 1); err != nil {
		t.Fatalf("OpenEdit: %v", err)
	}
	h.clocks.Last().Drag(0, 1)

	v := h.eventually(t, func(v View) bool { return v.Notice != nil && v.Notice.Level == LevelError })
	if v.Notice.Text != MsgNoWordSelected || errors.Kind(v.Notice.Err) != errors.KindInput {
		t.Errorf("notice = %+v", v.Notice)
	}
	if v.Session != nil {
		t.Errorf("word outside the range was opened: %+v", v.Session)
	}
}

func TestEditor_StoppedLoop(t *testing.T) {
	ed, err := New(Config{}, &fakeGateway{}, waveform.NewClockFactory().New, nil, logger.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = ed.Run(ctx)

	if _, err := ed.View(context.Background()); !stderrors.Is(err, ErrStopped) {
		t.Errorf("expected ErrStopped, got %v", err)
	}
}

func TestConfig_Defaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.OpenDelay != 10*time.Millisecond || cfg.Waveform.MinRegionLength != 0.1 || cfg.Waveform.RegionStartEpsilon != 0.1 {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}
