package archive

import (
	"context"
	"encoding/json"
	"path"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/fluency/errors"
	"github.com/kbukum/fluency/logger"
	"github.com/kbukum/fluency/media"
	"github.com/kbukum/fluency/observability"
	"github.com/kbukum/fluency/storage"
	"github.com/kbukum/fluency/transcript"
	"github.com/kbukum/fluency/transcription"
	"github.com/kbukum/fluency/util"
)

const (
	component = "archive"

	// Prefix is the storage prefix every transcript document lives under.
	Prefix = "transcripts/"
)

// Service stores transcripts keyed by the client's audio filename.
type Service struct {
	store    storage.ByteClient
	provider transcription.Provider
	metrics  *observability.Metrics
	log      *logger.Logger
}

// New creates a Service. metrics may be nil.
func New(store storage.ByteClient, provider transcription.Provider, metrics *observability.Metrics, log *logger.Logger) *Service {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Service{
		store:    store,
		provider: provider,
		metrics:  metrics,
		log:      log.WithComponent(component),
	}
}

// Key returns the storage key for filename, or "" if filename names nothing.
func Key(filename string) string {
	base := util.BaseFilename(filename)
	if base == "" {
		return ""
	}
	return path.Join(Prefix, base+".json")
}

// Ingest transcribes audio, stores the document and returns its JSON.
func (s *Service) Ingest(ctx context.Context, filename string, audio []byte) (_ []byte, err error) {
	ctx, op := observability.Start(ctx, s.metrics, component, "ingest",
		attribute.String(observability.AttrFilename, filename),
		attribute.Int(observability.AttrBytes, len(audio)))
	defer func() { op.End(err) }()

	base := util.BaseFilename(filename)
	if base == "" || len(audio) == 0 {
		return nil, errors.NoFileSelected()
	}
	if err := media.Check(base); err != nil {
		return nil, err
	}
	if s.provider == nil {
		return nil, errors.ServiceUnavailable("transcription")
	}

	t, err := s.provider.Execute(ctx, transcription.Request{Filename: base, Audio: audio})
	if err != nil {
		return nil, s.fail(ctx, "ingest", base, err)
	}
	data, err := json.Marshal(t)
	if err != nil {
		return nil, errors.Internal(err)
	}
	if err := s.store.Upload(ctx, Key(base), data); err != nil {
		return nil, s.fail(ctx, "ingest", base, err)
	}

	s.metrics.RecordWords(ctx, len(t.Words))
	op.Span().SetAttributes(attribute.Int(observability.AttrWords, len(t.Words)))
	s.log.WithContext(ctx).Info("transcript stored", logger.Fields(
		logger.FieldFilename, base,
		logger.FieldWordCount, len(t.Words),
		logger.FieldDuration, op.Elapsed().Milliseconds(),
	))
	return data, nil
}

// Update replaces the stored document for filename with body. body must
// decode as a transcript; it is stored unchanged so metadata and edited
// flags round-trip.
func (s *Service) Update(ctx context.Context, filename string, body []byte) (err error) {
	ctx, op := observability.Start(ctx, s.metrics, component, "update",
		attribute.String(observability.AttrFilename, filename),
		attribute.Int(observability.AttrBytes, len(body)))
	defer func() { op.End(err) }()

	key, err := keyFor(filename)
	if err != nil {
		return err
	}
	t, err := transcript.Decode(body)
	if err != nil {
		return err
	}
	if err := s.store.Upload(ctx, key, body); err != nil {
		return s.fail(ctx, "update", filename, err)
	}
	s.log.WithContext(ctx).Info("transcript updated", logger.Fields(
		logger.FieldFilename, filename,
		logger.FieldWordCount, len(t.Words),
	))
	return nil
}

// Download returns the stored document for filename. A missing document
// yields NOT_FOUND.
func (s *Service) Download(ctx context.Context, filename string) (_ []byte, err error) {
	ctx, op := observability.Start(ctx, s.metrics, component, "download",
		attribute.String(observability.AttrFilename, filename))
	defer func() { op.End(err) }()

	key, err := keyFor(filename)
	if err != nil {
		return nil, err
	}
	data, err := s.store.Download(ctx, key)
	if err != nil {
		if appErr, ok := errors.AsAppError(err); ok && appErr.Code == errors.ErrCodeNotFound {
			return nil, errors.NotFound("transcript", filename)
		}
		return nil, s.fail(ctx, "download", filename, err)
	}
	s.log.WithContext(ctx).Debug("transcript read", logger.Fields(
		logger.FieldFilename, filename,
		logger.FieldBytes, len(data),
	))
	return data, nil
}

// List returns the filenames that have a stored transcript.
func (s *Service) List(ctx context.Context) ([]string, error) {
	objects, err := s.store.List(ctx, Prefix)
	if err != nil {
		return nil, s.fail(ctx, "list", "", err)
	}
	names := make([]string, 0, len(objects))
	for _, o := range objects {
		name := path.Base(o.Key)
		if path.Ext(name) != ".json" {
			continue
		}
		names = append(names, name[:len(name)-len(".json")])
	}
	return names, nil
}

func keyFor(filename string) (string, error) {
	key := Key(filename)
	if key == "" {
		return "", errors.InvalidInput("filename", "must name a file")
	}
	return key, nil
}

func (s *Service) fail(ctx context.Context, operation, filename string, err error) error {
	s.log.WithContext(ctx).Warn("archive operation failed", logger.MergeWithError(logger.Fields(
		logger.FieldOperation, operation,
		logger.FieldFilename, filename,
	), err))
	return err
}
