package printing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const (
	defaultChromeTimeout = 30 * time.Second
	defaultScale         = 1.0
)

// ChromedpConfig contains configuration for the chromedp renderer
type ChromedpConfig struct {
	DefaultTimeout time.Duration
	// RemoteURL is the DevTools URL of a running Chrome; empty launches a local browser
	RemoteURL string
	// NoSandbox runs Chrome without sandbox (required for Docker/root)
	NoSandbox bool
	Scale     float64
	Logger    *zap.Logger
}

// ChromedpRenderer renders HTML to PDF using Chrome DevTools Protocol
type ChromedpRenderer struct {
	config      *ChromedpConfig
	logger      *zap.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewChromedpRenderer creates a new chromedp-based PDF renderer. The browser
// is started lazily on the first render.
func NewChromedpRenderer(config *ChromedpConfig) *ChromedpRenderer {
	if config == nil {
		config = &ChromedpConfig{}
	}
	if config.DefaultTimeout == 0 {
		config.DefaultTimeout = defaultChromeTimeout
	}
	if config.Scale == 0 {
		config.Scale = defaultScale
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &ChromedpRenderer{config: config, logger: logger.Named("chromedp")}
	r.initAllocator()
	return r
}

func (r *ChromedpRenderer) initAllocator() {
	if r.config.RemoteURL != "" {
		r.allocCtx, r.allocCancel = chromedp.NewRemoteAllocator(context.Background(), r.config.RemoteURL)
		return
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true), // Docker
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if r.config.NoSandbox {
		opts = append(opts, chromedp.Flag("no-sandbox", true))
	}
	r.allocCtx, r.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
}

// Render converts HTML content to PDF
func (r *ChromedpRenderer) Render(ctx context.Context, req *RenderRequest) (*RenderResult, error) {
	if req == nil {
		return nil, NewRenderError(ErrCodeInvalidHTML, "render request is nil", nil)
	}
	if strings.TrimSpace(req.HTML) == "" {
		return nil, NewRenderError(ErrCodeInvalidHTML, "HTML content is empty", nil)
	}
	if !req.PaperSize.IsValid() {
		return nil, NewRenderError(ErrCodeInvalidPaperSize, "invalid paper size: "+string(req.PaperSize), nil)
	}

	start := time.Now()
	timeout := req.Timeout
	if timeout == 0 {
		timeout = r.config.DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	browserCtx, browserCancel := chromedp.NewContext(r.allocCtx,
		chromedp.WithLogf(func(format string, args ...any) {
			r.logger.Debug(fmt.Sprintf(format, args...))
		}),
	)
	defer browserCancel()
	// Tie the tab to the request deadline
	stop := context.AfterFunc(ctx, browserCancel)
	defer stop()

	doc := buildCompleteHTML(req)
	params := r.buildPrintParams(req)

	var pdfData []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, doc).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(params.paperWidth).
				WithPaperHeight(params.paperHeight).
				WithMarginTop(params.marginTop).
				WithMarginRight(params.marginRight).
				WithMarginBottom(params.marginBottom).
				WithMarginLeft(params.marginLeft).
				WithScale(params.scale).
				WithLandscape(params.landscape).
				WithDisplayHeaderFooter(params.displayHeaderFooter).
				WithHeaderTemplate("<span></span>").
				WithFooterTemplate(params.footerTemplate).
				Do(ctx)
			if err != nil {
				return err
			}
			pdfData = data
			return nil
		}),
	)
	if err != nil {
		switch {
		case errors.Is(ctx.Err(), context.DeadlineExceeded):
			return nil, NewRenderError(ErrCodeRenderTimeout,
				fmt.Sprintf("PDF rendering timed out after %v", timeout), err)
		case errors.Is(ctx.Err(), context.Canceled):
			return nil, NewRenderError(ErrCodeRenderTimeout, "PDF rendering was cancelled", err)
		}
		r.logger.Error("chromedp rendering failed", zap.Error(err))
		return nil, NewRenderError(ErrCodeRenderFailed, "chromedp execution failed", err)
	}
	if len(pdfData) == 0 {
		return nil, NewRenderError(ErrCodeRenderFailed, "generated PDF is empty", nil)
	}

	result := &RenderResult{
		PDFData:        pdfData,
		PageCount:      estimatePageCount(pdfData),
		RenderDuration: time.Since(start),
	}
	r.logger.Debug("PDF rendered",
		zap.Int("bytes", len(pdfData)),
		zap.Int("pages", result.PageCount),
		zap.Duration("duration", result.RenderDuration))
	return result, nil
}

type printParams struct {
	paperWidth          float64
	paperHeight         float64
	marginTop           float64
	marginRight         float64
	marginBottom        float64
	marginLeft          float64
	scale               float64
	landscape           bool
	displayHeaderFooter bool
	footerTemplate      string
}

// buildPrintParams converts the request to Chrome's inch-based parameters
func (r *ChromedpRenderer) buildPrintParams(req *RenderRequest) *printParams {
	width, height := req.PaperSize.Dimensions()
	params := &printParams{
		paperWidth:   mmToInches(float64(width)),
		paperHeight:  mmToInches(float64(height)),
		marginTop:    mmToInches(float64(req.Margins.Top)),
		marginRight:  mmToInches(float64(req.Margins.Right)),
		marginBottom: mmToInches(float64(req.Margins.Bottom)),
		marginLeft:   mmToInches(float64(req.Margins.Left)),
		scale:        r.config.Scale,
		landscape:    req.Orientation == OrientationLandscape,
	}
	if req.FooterHTML != "" {
		params.displayHeaderFooter = true
		params.footerTemplate = req.FooterHTML
		if params.marginBottom < mmToInches(12) {
			params.marginBottom = mmToInches(12)
		}
	}
	return params
}

// buildCompleteHTML wraps a fragment in a UTF-8 document
func buildCompleteHTML(req *RenderRequest) string {
	lower := strings.ToLower(req.HTML)
	if strings.Contains(lower, "<!doctype") || strings.Contains(lower, "<html") {
		return req.HTML
	}

	var buf bytes.Buffer
	buf.WriteString(`<!DOCTYPE html><html lang="pt-BR"><head><meta charset="UTF-8">`)
	if req.Title != "" {
		buf.WriteString("<title>")
		buf.WriteString(html.EscapeString(req.Title))
		buf.WriteString("</title>")
	}
	buf.WriteString("</head><body>")
	buf.WriteString(req.HTML)
	buf.WriteString("</body></html>")
	return buf.String()
}

// Close releases resources held by the renderer
func (r *ChromedpRenderer) Close() error {
	if r.allocCancel != nil {
		r.allocCancel()
	}
	return nil
}

func mmToInches(mm float64) float64 {
	return mm / 25.4
}

var pageObject = regexp.MustCompile(`/Type\s*/Page[^s]`)

// estimatePageCount counts page objects in the PDF body
func estimatePageCount(pdf []byte) int {
	n := len(pageObject.FindAll(pdf, -1))
	if n == 0 {
		return 1
	}
	return n
}

var _ PDFRenderer = (*ChromedpRenderer)(nil)
