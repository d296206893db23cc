package waveform

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"path/filepath"
	"strings"
)

// Prober reports the duration in seconds of an audio source.
type Prober func(src Source) (float64, error)

// FixedDuration returns a Prober that reports d for every source.
func FixedDuration(d float64) Prober {
	return func(Source) (float64, error) { return d, nil }
}

// ProbeWAV reads the duration of a PCM RIFF/WAVE file from its fmt and data chunks.
func ProbeWAV(src Source) (float64, error) {
	if ext := strings.ToLower(filepath.Ext(src.Name)); ext != "" && ext != ".wav" {
		return 0, fmt.Errorf("cannot probe %s audio without a decoder", ext)
	}
	b := src.Data
	if len(b) < 12 || !bytes.Equal(b[0:4], []byte("RIFF")) || !bytes.Equal(b[8:12], []byte("WAVE")) {
		return 0, fmt.Errorf("not a RIFF/WAVE file")
	}

	var byteRate uint32
	for off := 12; off+8 <= len(b); {
		id := string(b[off : off+4])
		size := int(binary.LittleEndian.Uint32(b[off+4 : off+8]))
		body := off + 8
		switch id {
		case "fmt ":
			if size < 16 || body+16 > len(b) {
				return 0, fmt.Errorf("truncated fmt chunk")
			}
			byteRate = binary.LittleEndian.Uint32(b[body+8 : body+12])
		case "data":
			if byteRate == 0 {
				return 0, fmt.Errorf("data chunk before fmt chunk")
			}
			if body+size > len(b) {
				size = len(b) - body
			}
			return float64(size) / float64(byteRate), nil
		}
		// chunks are word aligned
		off = body + size + size%2
	}
	return 0, fmt.Errorf("no data chunk")
}
