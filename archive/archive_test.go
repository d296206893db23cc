package archive_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/kbukum/fluency/archive"
	"github.com/kbukum/fluency/errors"
	"github.com/kbukum/fluency/logger"
	"github.com/kbukum/fluency/storage"
	"github.com/kbukum/fluency/storage/memory"
	"github.com/kbukum/fluency/transcript"
	"github.com/kbukum/fluency/transcription"
)

type fakeProvider struct {
	calls int
	last  transcription.Request
	out   *transcript.Transcript
	err   error
}

func (f *fakeProvider) Name() string                       { return "fake" }
func (f *fakeProvider) IsAvailable(_ context.Context) bool { return true }
func (f *fakeProvider) Execute(_ context.Context, req transcription.Request) (*transcript.Transcript, error) {
	f.calls++
	f.last = req
	return f.out, f.err
}

func catDog() *transcript.Transcript {
	return &transcript.Transcript{
		Words: []transcript.Word{
			{Text: "cat", StartTime: 0, EndTime: 500, QC: true},
			{Text: "dog", StartTime: 2500, EndTime: 3000, QC: false, QCWord: "check"},
		},
		Metadata: map[string]json.RawMessage{"language": json.RawMessage(`"en"`)},
	}
}

func newService(p transcription.Provider) (*archive.Service, *memory.Storage) {
	mem := memory.New()
	return archive.New(storage.NewByteClient(mem), p, nil, logger.Nop()), mem
}

func code(err error) errors.ErrorCode {
	if appErr, ok := errors.AsAppError(err); ok {
		return appErr.Code
	}
	return ""
}

func TestKey(t *testing.T) {
	tests := map[string]string{
		"talk.wav":         "transcripts/talk.wav.json",
		"../../etc/passwd": "transcripts/passwd.json",
		`C:\audio\a.mp3`:   "transcripts/a.mp3.json",
		"..":               "",
		"":                 "",
	}
	for in, want := range tests {
		if got := archive.Key(in); got != want {
			t.Errorf("Key(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIngest(t *testing.T) {
	ctx := context.Background()
	p := &fakeProvider{out: catDog()}
	svc, mem := newService(p)

	data, err := svc.Ingest(ctx, "dir/talk.wav", []byte("RIFF"))
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if p.last.Filename != "talk.wav" || string(p.last.Audio) != "RIFF" {
		t.Errorf("provider request = %+v", p.last)
	}

	got, err := transcript.Decode(data)
	if err != nil {
		t.Fatalf("returned document does not decode: %v", err)
	}
	if len(got.Words) != 2 || got.Words[1].QCWord != "check" {
		t.Errorf("words = %+v", got.Words)
	}
	if string(got.Metadata["language"]) != `"en"` {
		t.Errorf("metadata = %v", got.Metadata)
	}
	if mem.Len() != 1 {
		t.Errorf("stored %d objects, want 1", mem.Len())
	}

	stored, err := svc.Download(ctx, "talk.wav")
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if string(stored) != string(data) {
		t.Errorf("stored %s, returned %s", stored, data)
	}
}

func TestIngest_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		audio    []byte
		provErr  error
		want     errors.ErrorCode
	}{
		{"no file", "", nil, nil, errors.ErrCodeInvalidInput},
		{"empty audio", "a.wav", nil, nil, errors.ErrCodeInvalidInput},
		{"unsupported extension", "notes.txt", []byte("x"), nil, errors.ErrCodeInvalidFormat},
		{"provider failure", "a.wav", []byte("x"), errors.ExternalServiceError("whisper", nil), errors.ErrCodeExternalService},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &fakeProvider{out: catDog(), err: tt.provErr}
			svc, mem := newService(p)
			_, err := svc.Ingest(context.Background(), tt.filename, tt.audio)
			if code(err) != tt.want {
				t.Fatalf("err = %v, want %s", err, tt.want)
			}
			if tt.provErr == nil && p.calls != 0 {
				t.Errorf("provider called %d times for rejected input", p.calls)
			}
			if mem.Len() != 0 {
				t.Error("nothing should be stored")
			}
		})
	}
}

func TestIngest_NoProvider(t *testing.T) {
	svc, _ := newService(nil)
	_, err := svc.Ingest(context.Background(), "a.wav", []byte("x"))
	if code(err) != errors.ErrCodeServiceUnavailable {
		t.Fatalf("err = %v", err)
	}
}

func TestUpdate_StoresVerbatim(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(&fakeProvider{out: catDog()})

	body := `{"words":[{"word":"kat","start_time":0,"end_time":600,"qc":true,"qc_word":"","edited":true}],"text":"kat","model":"base"}`
	if err := svc.Update(ctx, "talk.wav", []byte(body)); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := svc.Download(ctx, "talk.wav")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != body {
		t.Errorf("stored %s", got)
	}
}

func TestUpdate_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		body     string
		want     errors.ErrorCode
	}{
		{"not json", "a.wav", "not json", errors.ErrCodeInvalidFormat},
		{"inverted word", "a.wav", `{"words":[{"word":"x","start_time":900,"end_time":100}]}`, errors.ErrCodeInvalidInput},
		{"bad filename", "..", `{"words":[]}`, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mem := newService(nil)
			err := svc.Update(context.Background(), tt.filename, []byte(tt.body))
			if code(err) != tt.want {
				t.Fatalf("err = %v, want %s", err, tt.want)
			}
			if mem.Len() != 0 {
				t.Error("rejected body must not be stored")
			}
		})
	}
}

func TestDownload_NotFound(t *testing.T) {
	svc, _ := newService(nil)
	_, err := svc.Download(context.Background(), "missing.wav")
	if code(err) != errors.ErrCodeNotFound {
		t.Fatalf("err = %v", err)
	}
	if appErr, _ := errors.AsAppError(err); appErr.Details["id"] != "missing.wav" {
		t.Errorf("details = %v", appErr.Details)
	}
}

func TestList(t *testing.T) {
	ctx := context.Background()
	svc, mem := newService(&fakeProvider{out: catDog()})
	for _, name := range []string{"b.wav", "a.mp3"} {
		if _, err := svc.Ingest(ctx, name, []byte("x")); err != nil {
			t.Fatal(err)
		}
	}
	if err := storage.NewByteClient(mem).Upload(ctx, "other/c.json", []byte("{}")); err != nil {
		t.Fatal(err)
	}
	names, err := svc.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(names, ",") != "a.mp3,b.wav" {
		t.Errorf("List = %v", names)
	}
}
