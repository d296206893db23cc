package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/fluency/errors"
	"github.com/kbukum/fluency/httpclient"
	"github.com/kbukum/fluency/httpclient/rest"
	"github.com/kbukum/fluency/logger"
	"github.com/kbukum/fluency/observability"
	"github.com/kbukum/fluency/transcript"
)

const (
	serviceName = "transcription"
	component   = "gateway"
	uploadField = "file"
)

// Client talks to the upload, update-json and download endpoints.
type Client struct {
	http    *httpclient.Client
	rest    *rest.Client
	metrics *observability.Metrics
	log     *logger.Logger
}

// New builds a Client. metrics may be nil.
func New(cfg Config, metrics *observability.Metrics, log *logger.Logger) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	hc, err := httpclient.New(cfg.Config)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Client{
		http:    hc,
		rest:    rest.NewFromClient(hc),
		metrics: metrics,
		log:     log.WithComponent(component),
	}, nil
}

// Transcribe uploads audio as the multipart field "file" and decodes the
// returned transcript.
func (c *Client) Transcribe(ctx context.Context, filename string, audio []byte) (_ *transcript.Transcript, err error) {
	ctx, op := observability.Start(ctx, c.metrics, component, "transcribe",
		attribute.String(observability.AttrFilename, filename),
		attribute.Int(observability.AttrBytes, len(audio)))
	defer func() { op.End(err) }()

	resp, err := c.http.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   "/upload",
		Body: &httpclient.MultipartBody{Files: []httpclient.FileField{{
			FieldName: uploadField,
			FileName:  filename,
			Data:      audio,
		}}},
	})
	if err != nil {
		return nil, c.fail(ctx, "transcribe", filename, err)
	}

	t, err := transcript.Decode(resp.Body)
	if err != nil {
		return nil, c.fail(ctx, "transcribe", filename, err)
	}
	op.Span().SetAttributes(attribute.Int(observability.AttrWords, len(t.Words)))
	c.log.WithContext(ctx).Info("audio transcribed", logger.Fields(
		logger.FieldFilename, filename,
		logger.FieldWordCount, len(t.Words),
		logger.FieldDuration, op.Elapsed().Milliseconds(),
	))
	return t, nil
}

// Save posts the full transcript, metadata included, keyed by filename.
func (c *Client) Save(ctx context.Context, filename string, t *transcript.Transcript) (err error) {
	ctx, op := observability.Start(ctx, c.metrics, component, "save",
		attribute.String(observability.AttrFilename, filename))
	defer func() { op.End(err) }()

	body, err := json.Marshal(t)
	if err != nil {
		return c.fail(ctx, "save", filename, errors.Internal(err))
	}
	if _, err = rest.Post[json.RawMessage](ctx, c.rest, "/update-json/"+url.PathEscape(filename), json.RawMessage(body),
		rest.WithHeader("Content-Type", "application/json")); err != nil {
		return c.fail(ctx, "save", filename, err)
	}
	c.log.WithContext(ctx).Info("transcript saved", logger.Fields(
		logger.FieldFilename, filename,
		logger.FieldWordCount, len(t.Words),
	))
	return nil
}

// Download returns the stored transcript bytes for filename.
func (c *Client) Download(ctx context.Context, filename string) (_ []byte, err error) {
	ctx, op := observability.Start(ctx, c.metrics, component, "download",
		attribute.String(observability.AttrFilename, filename))
	defer func() { op.End(err) }()

	resp, err := c.http.Do(ctx, httpclient.Request{
		Method: http.MethodGet,
		Path:   "/download/" + url.PathEscape(filename),
	})
	if err != nil {
		return nil, c.fail(ctx, "download", filename, err)
	}
	c.log.WithContext(ctx).Debug("transcript downloaded", logger.Fields(
		logger.FieldFilename, filename,
		logger.FieldBytes, len(resp.Body),
	))
	return resp.Body, nil
}

func (c *Client) fail(ctx context.Context, operation, filename string, cause error) *errors.AppError {
	appErr := errors.ExternalServiceError(serviceName, cause).
		WithDetail("operation", operation).
		WithDetail("filename", filename)
	if status := httpclient.StatusCode(cause); status > 0 {
		appErr.WithDetail("status", status)
	}
	c.log.WithContext(ctx).Warn("gateway call failed", logger.MergeWithError(logger.Fields(
		logger.FieldOperation, operation,
		logger.FieldFilename, filename,
	), cause))
	return appErr
}
