package local

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kbukum/fluency/errors"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := NewStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewStorage: %v", err)
	}
	return s
}

func TestStorage_UploadDownload(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	if err := s.Upload(ctx, "transcripts/take1.wav.json", strings.NewReader("v1")); err != nil {
		t.Fatal(err)
	}
	if err := s.Upload(ctx, "transcripts/take1.wav.json", strings.NewReader("v2")); err != nil {
		t.Fatal(err)
	}

	rc, err := s.Download(ctx, "transcripts/take1.wav.json")
	if err != nil {
		t.Fatal(err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "v2" {
		t.Errorf("Download = %q, want the replaced content", data)
	}
}

func TestStorage_DownloadMissing(t *testing.T) {
	_, err := newTestStorage(t).Download(context.Background(), "transcripts/none.json")
	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.Code != errors.ErrCodeNotFound {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func TestStorage_KeysStayInsideBase(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	if err := s.Upload(ctx, "../../escape.json", strings.NewReader("x")); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(s.basePath, "escape.json")); err != nil {
		t.Errorf("expected the object under the base path: %v", err)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(filepath.Dir(s.basePath)), "escape.json")); err == nil {
		t.Error("object escaped the base path")
	}
}

func TestStorage_ExistsDeleteList(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)
	for _, key := range []string{"transcripts/b.json", "transcripts/a.json", "other/c.json"} {
		if err := s.Upload(ctx, key, strings.NewReader(key)); err != nil {
			t.Fatal(err)
		}
	}

	files, err := s.List(ctx, "transcripts/")
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 || files[0].Path != "transcripts/a.json" || files[0].ContentType != "application/json" {
		t.Errorf("List = %+v", files)
	}

	if ok, _ := s.Exists(ctx, "transcripts"); ok {
		t.Error("a directory is not an object")
	}
	if err := s.Delete(ctx, "transcripts/a.json"); err != nil {
		t.Fatal(err)
	}
	if ok, _ := s.Exists(ctx, "transcripts/a.json"); ok {
		t.Error("expected object to be gone")
	}
	if err := s.Delete(ctx, "transcripts/a.json"); err != nil {
		t.Errorf("deleting a missing key: %v", err)
	}
}
