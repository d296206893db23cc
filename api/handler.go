package api

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/fluency/errors"
	"github.com/kbukum/fluency/logger"
	"github.com/kbukum/fluency/server"
	"github.com/kbukum/fluency/server/middleware"
	"github.com/kbukum/fluency/util"
)

// UploadField is the multipart field carrying the audio file.
const UploadField = "file"

// DownloadSuffix is appended to the filename of a downloaded transcript.
const DownloadSuffix = "_transcription.json"

// Service is the transcript archive behind the routes.
type Service interface {
	Ingest(ctx context.Context, filename string, audio []byte) ([]byte, error)
	Update(ctx context.Context, filename string, body []byte) error
	Download(ctx context.Context, filename string) ([]byte, error)
	List(ctx context.Context) ([]string, error)
}

// Config tunes the routes.
type Config struct {
	// UploadsPerMinute limits POST /upload per client IP. Zero disables it.
	UploadsPerMinute int `yaml:"uploads_per_minute" mapstructure:"uploads_per_minute"`
}

// Handler serves the transcript routes.
type Handler struct {
	svc Service
	cfg Config
	log *logger.Logger
}

// New creates a Handler.
func New(svc Service, cfg Config, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Handler{svc: svc, cfg: cfg, log: log.WithComponent("api")}
}

// RegisterRoutes mounts the routes on r.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	upload := []gin.HandlerFunc{h.Upload}
	if h.cfg.UploadsPerMinute > 0 {
		limit := middleware.GinWrap(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerMinute: h.cfg.UploadsPerMinute,
		}))
		upload = append([]gin.HandlerFunc{limit}, upload...)
	}
	r.POST("/upload", upload...)
	r.POST("/update-json/:filename", h.UpdateJSON)
	r.GET("/download/:filename", h.Download)
	r.GET("/transcripts", h.List)
}

// Upload transcribes the multipart "file" and returns the transcript JSON.
func (h *Handler) Upload(c *gin.Context) {
	fh, err := c.FormFile(UploadField)
	if err != nil {
		h.fail(c, uploadError(err))
		return
	}
	audio, err := readFile(fh)
	if err != nil {
		h.fail(c, uploadError(err))
		return
	}
	body, err := h.svc.Ingest(c.Request.Context(), fh.Filename, audio)
	if err != nil {
		h.fail(c, err)
		return
	}
	server.RespondJSON(c, body)
}

// UpdateJSON replaces the stored transcript for :filename with the body.
func (h *Handler) UpdateJSON(c *gin.Context) {
	filename := c.Param("filename")
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.fail(c, bodyError(err))
		return
	}
	if err := h.svc.Update(c.Request.Context(), filename, body); err != nil {
		h.fail(c, err)
		return
	}
	server.RespondOK(c, gin.H{"status": "saved", "filename": util.BaseFilename(filename)})
}

// Download serves the stored transcript as an attachment.
func (h *Handler) Download(c *gin.Context) {
	filename := c.Param("filename")
	body, err := h.svc.Download(c.Request.Context(), filename)
	if err != nil {
		h.fail(c, err)
		return
	}
	server.RespondAttachment(c, util.BaseFilename(filename)+DownloadSuffix, body)
}

// List returns the filenames with a stored transcript.
func (h *Handler) List(c *gin.Context) {
	names, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	server.RespondOK(c, gin.H{"filenames": names})
}

func (h *Handler) fail(c *gin.Context, err error) {
	appErr := errors.Wrap(err)
	fields := logger.Fields(
		"method", c.Request.Method,
		"path", c.FullPath(),
		logger.FieldStatus, appErr.HTTPStatus,
	)
	l := h.log.WithContext(c.Request.Context())
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		l.Error("request failed", logger.MergeWithError(fields, err))
	} else {
		l.Debug("request rejected", logger.MergeWithError(fields, err))
	}
	server.RespondWithError(c, appErr)
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func uploadError(err error) error {
	if stderrors.Is(err, http.ErrMissingFile) || stderrors.Is(err, http.ErrNotMultipart) {
		return errors.NoFileSelected()
	}
	return bodyError(err)
}

func bodyError(err error) error {
	var tooBig *http.MaxBytesError
	if stderrors.As(err, &tooBig) {
		return errors.New(errors.ErrCodeInvalidInput, fmt.Sprintf("Request body exceeds %d bytes.", tooBig.Limit), http.StatusRequestEntityTooLarge).
			WithDetail("limit", tooBig.Limit)
	}
	return errors.InvalidInput("body", "could not be read").WithCause(err)
}
