// Package media knows which audio containers the transcription service
// accepts.
package media

import (
	"path"
	"slices"
	"strings"

	"github.com/kbukum/fluency/errors"
)

// Extensions lists the accepted audio file extensions, without the dot.
var Extensions = []string{"mp3", "mp4", "mpeg", "mpga", "m4a", "wav", "webm"}

var contentTypes = map[string]string{
	"mp3":  "audio/mpeg",
	"mp4":  "audio/mp4",
	"mpeg": "audio/mpeg",
	"mpga": "audio/mpeg",
	"m4a":  "audio/mp4",
	"wav":  "audio/wav",
	"webm": "audio/webm",
}

// Ext returns the lower-cased extension of name without the dot.
func Ext(name string) string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
}

// Check returns UnsupportedAudio unless name has an accepted extension.
func Check(name string) error {
	ext := Ext(name)
	if !slices.Contains(Extensions, ext) {
		return errors.UnsupportedAudio(ext).WithDetail("accepted", strings.Join(Extensions, ", "))
	}
	return nil
}

// ContentType returns the MIME type for name, or application/octet-stream.
func ContentType(name string) string {
	if ct, ok := contentTypes[Ext(name)]; ok {
		return ct
	}
	return "application/octet-stream"
}
