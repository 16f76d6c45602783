package printing

import (
	"context"
	"errors"
	"time"
)

// RenderRequest is one HTML document to print. HTML may be a fragment; the
// renderer wraps it in a full document using Title. Margins are in mm.
type RenderRequest struct {
	HTML        string
	Title       string
	PaperSize   PaperSize
	Orientation Orientation
	Margins     Margins

	// Chrome header/footer templates. They may use the pageNumber and
	// totalPages classes.
	HeaderHTML string
	FooterHTML string

	// Timeout overrides the renderer default when non-zero.
	Timeout time.Duration
}

// RenderResult is a rendered PDF.
type RenderResult struct {
	PDFData        []byte
	PageCount      int
	RenderDuration time.Duration
}

// PDFRenderer turns HTML into PDF bytes.
type PDFRenderer interface {
	Render(ctx context.Context, req *RenderRequest) (*RenderResult, error)
	Close() error
}

// RenderErrorCode classifies a rendering failure.
type RenderErrorCode string

const (
	ErrCodeRenderTimeout    RenderErrorCode = "RENDER_TIMEOUT"
	ErrCodeRenderFailed     RenderErrorCode = "RENDER_FAILED"
	ErrCodeInvalidHTML      RenderErrorCode = "INVALID_HTML"
	ErrCodeInvalidPaperSize RenderErrorCode = "INVALID_PAPER_SIZE"
)

// RenderError is returned by renderers, template execution and printer setup.
type RenderError struct {
	Code    RenderErrorCode
	Message string
	Cause   error
}

// NewRenderError builds a RenderError. cause may be nil.
func NewRenderError(code RenderErrorCode, message string, cause error) *RenderError {
	return &RenderError{Code: code, Message: message, Cause: cause}
}

func (e *RenderError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *RenderError) Unwrap() error { return e.Cause }

// IsTimeout reports whether err is a timed out or cancelled render.
func IsTimeout(err error) bool {
	var re *RenderError
	return errors.As(err, &re) && re.Code == ErrCodeRenderTimeout
}
