package printing

import (
	"context"
	"time"
)

// PaperSize is a supported sheet format
type PaperSize string

const (
	PaperSizeA4     PaperSize = "A4"
	PaperSizeLetter PaperSize = "LETTER"
)

// IsValid checks if the paper size is supported
func (p PaperSize) IsValid() bool {
	return p == PaperSizeA4 || p == PaperSizeLetter
}

// Dimensions returns width and height in millimeters
func (p PaperSize) Dimensions() (width, height int) {
	if p == PaperSizeLetter {
		return 216, 279
	}
	return 210, 297
}

// Orientation is portrait or landscape
type Orientation string

const (
	OrientationPortrait  Orientation = "PORTRAIT"
	OrientationLandscape Orientation = "LANDSCAPE"
)

// Margins in millimeters
type Margins struct {
	Top    int
	Right  int
	Bottom int
	Left   int
}

// DefaultMargins returns 15mm on every side
func DefaultMargins() Margins {
	return Margins{Top: 15, Right: 15, Bottom: 15, Left: 15}
}

// RenderRequest contains the parameters for rendering HTML to PDF
type RenderRequest struct {
	HTML        string
	PaperSize   PaperSize
	Orientation Orientation
	Margins     Margins
	// Title for the PDF document metadata
	Title string
	// FooterHTML is printed on every page (optional)
	FooterHTML string
	// Timeout overrides the default rendering timeout
	Timeout time.Duration
}

// RenderResult contains the output from PDF rendering
type RenderResult struct {
	PDFData        []byte
	PageCount      int
	RenderDuration time.Duration
}

// PDFRenderer defines the interface for rendering HTML to PDF
type PDFRenderer interface {
	// Render converts HTML content to a PDF document
	Render(ctx context.Context, req *RenderRequest) (*RenderResult, error)
	// Close releases any resources held by the renderer
	Close() error
}

// RenderError represents an error during PDF rendering
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// Error codes for rendering failures
const (
	ErrCodeRenderTimeout    = "RENDER_TIMEOUT"
	ErrCodeRenderFailed     = "RENDER_FAILED"
	ErrCodeInvalidHTML      = "INVALID_HTML"
	ErrCodeInvalidPaperSize = "INVALID_PAPER_SIZE"
	ErrCodeUnknownTemplate  = "UNKNOWN_TEMPLATE"
)

// NewRenderError creates a new RenderError
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}
