package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/geoknoesis/rdf-convert/rdf"
)

// handleConvert converts the request body into triples rebased onto the
// "base" query parameter and renders them in the requested output form.
func (s *Server) handleConvert(format rdf.InputFormat) gin.HandlerFunc {
	return func(c *gin.Context) {
		base := c.Query("base")
		if base == "" {
			handleError(c, fmt.Errorf("%w: missing base query parameter", rdf.ErrInvalidNamespace))
			return
		}
		output, ok := rdf.ParseOutputFormat(c.Query("output"))
		if !ok {
			handleError(c, fmt.Errorf("%w: output %q", rdf.ErrUnsupportedFormat, c.Query("output")))
			return
		}
		if format == rdf.InputAuto {
			if ct := c.ContentType(); ct != "" {
				if detected, err := rdf.InputFormatFromContentType(ct); err == nil {
					format = detected
				}
			}
		}

		body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, s.settings.MaxBodyBytes))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				err = fmt.Errorf("%w: body exceeds %d bytes", rdf.ErrInputTooLarge, tooLarge.Limit)
			}
			handleError(c, err)
			return
		}

		opts := append(append([]rdf.Option{}, s.settings.Options...), rdf.OptContext(c.Request.Context()))
		out, err := rdf.Render(output, format, body, base, rdf.NonEmpty(c.Query("label")), opts...)
		if err != nil {
			s.logger.Debug("conversion failed", "format", format, "output", output, "error", err)
			handleError(c, err)
			return
		}
		c.Data(http.StatusOK, output.ContentType(), out)
	}
}

// handleError writes err as {"code", "error"} with a status matching its code.
func handleError(c *gin.Context, err error) {
	code := rdf.Code(err)
	c.JSON(statusFor(code), gin.H{"code": code, "error": err.Error()})
}

func statusFor(code rdf.ErrorCode) int {
	switch code {
	case rdf.ErrCodeInvalidEncoding, rdf.ErrCodeInvalidNamespace, rdf.ErrCodeUnsupportedFormat:
		return http.StatusBadRequest
	case rdf.ErrCodeInputTooLarge, rdf.ErrCodeTripleLimitExceeded:
		return http.StatusRequestEntityTooLarge
	case rdf.ErrCodeContextCanceled:
		return http.StatusServiceUnavailable
	default:
		return http.StatusUnprocessableEntity
	}
}
