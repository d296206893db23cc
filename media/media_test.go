package media

import (
	"testing"

	"github.com/kbukum/fluency/errors"
)

func TestCheck(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{"take.wav", true},
		{"TAKE.MP3", true},
		{"dir/voice.m4a", true},
		{"clip.webm", true},
		{"notes.txt", false},
		{"noext", false},
		{"archive.wav.zip", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(tt.name)
			if (err == nil) != tt.ok {
				t.Fatalf("Check(%q) = %v, want ok=%v", tt.name, err, tt.ok)
			}
			if err != nil && errors.Kind(err) != errors.KindInput {
				t.Errorf("Kind = %s, want input", errors.Kind(err))
			}
		})
	}
}

func TestContentType(t *testing.T) {
	if got := ContentType("a.wav"); got != "audio/wav" {
		t.Errorf("wav = %q", got)
	}
	if got := ContentType("a.bin"); got != "application/octet-stream" {
		t.Errorf("bin = %q", got)
	}
}
