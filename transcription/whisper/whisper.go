package whisper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/kbukum/fluency/errors"
	"github.com/kbukum/fluency/httpclient"
	"github.com/kbukum/fluency/media"
	"github.com/kbukum/fluency/provider"
	"github.com/kbukum/fluency/transcript"
	"github.com/kbukum/fluency/transcription"
	"github.com/kbukum/fluency/util"
	"github.com/kbukum/fluency/validation"
	"github.com/kbukum/fluency/version"
)

const (
	// ProviderName is the registered name for the Whisper provider.
	ProviderName = "whisper"

	defaultWhisperURL     = "http://localhost:8387"
	defaultWhisperModel   = "base"
	defaultWhisperTimeout = 120 * time.Second
	defaultQCThreshold    = 0.5
	healthTimeout         = 2 * time.Second
)

// Config holds configuration for the Whisper transcription provider.
type Config struct {
	URL         string        `json:"url" yaml:"url"`
	Model       string        `json:"model" yaml:"model"`
	Language    string        `json:"language,omitempty" yaml:"language"`
	Device      string        `json:"device,omitempty" yaml:"device"`
	ComputeType string        `json:"compute_type,omitempty" yaml:"compute_type"`
	Timeout     time.Duration `json:"timeout" yaml:"timeout"`
	// QCThreshold is the minimum word probability that passes QC.
	QCThreshold float64 `json:"qc_threshold" yaml:"qc_threshold"`
}

// ApplyDefaults fills zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.URL == "" {
		c.URL = defaultWhisperURL
	}
	if c.Model == "" {
		c.Model = defaultWhisperModel
	}
	if c.Timeout == 0 {
		c.Timeout = defaultWhisperTimeout
	}
	if c.QCThreshold == 0 {
		c.QCThreshold = defaultQCThreshold
	}
}

// Validate checks the threshold, device and timeout.
func (c *Config) Validate() error {
	v := validation.New().
		FloatRange("qc_threshold", c.QCThreshold, 0, 1).
		OneOf("device", c.Device, "auto", "cpu", "cuda").
		Custom(c.Timeout > 0, "timeout", "must be positive")
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// Provider implements transcription.Provider using a faster-whisper HTTP sidecar.
type Provider struct {
	cfg    Config
	client *httpclient.Client
}

// NewProvider creates a Whisper provider.
func NewProvider(cfg Config) (*Provider, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	client, err := httpclient.New(httpclient.Config{
		BaseURL: cfg.URL,
		Timeout: cfg.Timeout,
		Headers: map[string]string{"User-Agent": version.UserAgent("fluencyd")},
	})
	if err != nil {
		return nil, fmt.Errorf("whisper client: %w", err)
	}
	return &Provider{cfg: cfg, client: client}, nil
}

// Factory returns a provider.Factory that builds Whisper providers from a
// generic config map. Durations may be given as time.Duration or strings
// such as "90s"; the threshold as any number.
func Factory() provider.Factory[transcription.Provider] {
	return func(cfg map[string]any) (transcription.Provider, error) {
		wc := Config{}
		if v, ok := cfg["url"].(string); ok {
			wc.URL = v
		}
		if v, ok := cfg["model"].(string); ok {
			wc.Model = v
		}
		if v, ok := cfg["language"].(string); ok {
			wc.Language = v
		}
		if v, ok := cfg["device"].(string); ok {
			wc.Device = v
		}
		if v, ok := cfg["compute_type"].(string); ok {
			wc.ComputeType = v
		}
		switch v := cfg["timeout"].(type) {
		case time.Duration:
			wc.Timeout = v
		case string:
			d, err := time.ParseDuration(v)
			if err != nil {
				return nil, errors.InvalidFormat("timeout", "duration such as 90s").WithCause(err)
			}
			wc.Timeout = d
		}
		switch v := cfg["qc_threshold"].(type) {
		case float64:
			wc.QCThreshold = v
		case int:
			wc.QCThreshold = float64(v)
		}
		return NewProvider(wc)
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable checks if the sidecar answers GET /health.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()
	resp, err := p.client.Do(ctx, httpclient.Request{Method: http.MethodGet, Path: "/health"})
	return err == nil && resp.StatusCode == http.StatusOK
}

// Execute posts the audio to /transcribe with word timestamps and builds a
// transcript from the returned words.
func (p *Provider) Execute(ctx context.Context, req transcription.Request) (*transcript.Transcript, error) {
	lang := util.Coalesce(req.Language, p.cfg.Language)
	fields := map[string]string{
		"model":           p.cfg.Model,
		"word_timestamps": "true",
	}
	if lang != "" {
		fields["language"] = lang
	}
	if p.cfg.Device != "" {
		fields["device"] = p.cfg.Device
	}
	if p.cfg.ComputeType != "" {
		fields["compute_type"] = p.cfg.ComputeType
	}

	name := util.Coalesce(util.BaseFilename(req.Filename), "audio.wav")
	resp, err := p.client.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   "/transcribe",
		Body: &httpclient.MultipartBody{
			Fields: fields,
			Files: []httpclient.FileField{{
				FieldName:   "audio",
				FileName:    name,
				ContentType: media.ContentType(name),
				Data:        req.Audio,
			}},
		},
	})
	if err != nil {
		return nil, errors.ExternalServiceError(ProviderName, err).
			WithDetail("status", httpclient.StatusCode(err))
	}

	var result whisperResponse
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, errors.ExternalServiceError(ProviderName, fmt.Errorf("decode whisper response: %w", err))
	}
	return p.toTranscript(&result)
}

// --- internal Whisper API response types ---

type whisperResponse struct {
	Text     string           `json:"text"`
	Segments []whisperSegment `json:"segments"`
	Language string           `json:"language"`
	Duration float64          `json:"duration"`
}

type whisperSegment struct {
	Text  string        `json:"text"`
	Start float64       `json:"start"`
	End   float64       `json:"end"`
	Words []whisperWord `json:"words"`
}

type whisperWord struct {
	Word        string  `json:"word"`
	Start       float64 `json:"start"`
	End         float64 `json:"end"`
	Probability float64 `json:"probability"`
}

func (p *Provider) toTranscript(resp *whisperResponse) (*transcript.Transcript, error) {
	words := make([]transcript.Word, 0)
	for _, seg := range resp.Segments {
		for _, w := range seg.Words {
			text := strings.TrimSpace(w.Word)
			if text == "" {
				continue
			}
			word := transcript.Word{
				Text:      text,
				StartTime: transcript.SecondsToMillis(w.Start),
				EndTime:   transcript.SecondsToMillis(w.End),
				QC:        w.Probability >= p.cfg.QCThreshold,
			}
			if word.EndTime < word.StartTime {
				word.EndTime = word.StartTime
			}
			if !word.QC {
				word.QCWord = fmt.Sprintf("Low recognition confidence (%.0f%%), check pronunciation of %q", w.Probability*100, text)
			}
			words = append(words, word)
		}
	}

	duration := resp.Duration
	if duration == 0 && len(resp.Segments) > 0 {
		duration = resp.Segments[len(resp.Segments)-1].End
	}
	metadata, err := encodeMetadata(map[string]any{
		"text":     strings.TrimSpace(resp.Text),
		"language": resp.Language,
		"duration": duration,
		"model":    p.cfg.Model,
	})
	if err != nil {
		return nil, errors.Internal(err)
	}

	t := &transcript.Transcript{Words: words, Metadata: metadata}
	if err := t.Validate(); err != nil {
		return nil, errors.ExternalServiceError(ProviderName, err)
	}
	return t, nil
}

func encodeMetadata(values map[string]any) (map[string]json.RawMessage, error) {
	out := make(map[string]json.RawMessage, len(values))
	for k, v := range values {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", k, err)
		}
		out[k] = raw
	}
	return out, nil
}
