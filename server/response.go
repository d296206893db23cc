package server

import (
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/fluency/errors"
)

// RespondWithError writes err as an ErrorResponse. AppErrors keep their
// status; anything else is a 500.
func RespondWithError(c *gin.Context, err error) {
	appErr := errors.Wrap(err)
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
}

// RespondJSON writes a raw JSON document with status 200.
func RespondJSON(c *gin.Context, body []byte) {
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// RespondAttachment writes body as a JSON download named filename.
func RespondAttachment(c *gin.Context, filename string, body []byte) {
	c.Header("Content-Disposition", mimeAttachment(filename))
	RespondJSON(c, body)
}

// RespondOK sends a 200 response with data serialized as JSON.
func RespondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

func mimeAttachment(filename string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": filename}); v != "" {
		return v
	}
	return "attachment"
}
