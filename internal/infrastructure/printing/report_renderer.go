package printing

import (
	"context"
	"embed"
	"time"

	"github.com/clube/backend/internal/application/report"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var reportTemplates embed.FS

// orientations lists reports printed in landscape
var orientations = map[report.DocumentKind]Orientation{
	report.DocumentCashFlow:    OrientationLandscape,
	report.DocumentDelinquency: OrientationLandscape,
	report.DocumentAccounts:    OrientationLandscape,
}

// ReportRendererConfig configures the report renderer
type ReportRendererConfig struct {
	PaperSize PaperSize
	Logger    *zap.Logger
}

// ReportRenderer prints report documents with the embedded templates
type ReportRenderer struct {
	engine    *TemplateEngine
	pdf       PDFRenderer
	paperSize PaperSize
	logger    *zap.Logger
}

// NewReportRenderer creates a renderer backed by pdf
func NewReportRenderer(engine *TemplateEngine, pdf PDFRenderer, cfg ReportRendererConfig) *ReportRenderer {
	if engine == nil {
		engine = NewTemplateEngine()
	}
	if !cfg.PaperSize.IsValid() {
		cfg.PaperSize = PaperSizeA4
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportRenderer{
		engine:    engine,
		pdf:       pdf,
		paperSize: cfg.PaperSize,
		logger:    logger.Named("report-renderer"),
	}
}

// reportView is the root object every report template receives
type reportView struct {
	Title       string
	ClubName    string
	GeneratedAt time.Time
	Report      any
}

// RenderHTML executes the layout and the template of doc.Kind
func (r *ReportRenderer) RenderHTML(doc *report.Document) (string, error) {
	if doc == nil {
		return "", NewRenderError(ErrCodeInvalidHTML, "document is nil", nil)
	}
	switch doc.Kind {
	case report.DocumentCashFlow, report.DocumentIncomeStatement, report.DocumentDelinquency, report.DocumentAccounts:
	default:
		return "", NewRenderError(ErrCodeUnknownTemplate, "no template for "+string(doc.Kind), nil)
	}

	tmpl, err := r.engine.Load(string(doc.Kind), reportTemplates,
		"templates/layout.html", "templates/"+string(doc.Kind)+".html")
	if err != nil {
		return "", err
	}
	return execute(tmpl, reportView{
		Title:       doc.Title,
		ClubName:    doc.ClubName,
		GeneratedAt: doc.GeneratedAt,
		Report:      doc.Data,
	})
}

// Export renders doc to HTML and prints it to PDF
func (r *ReportRenderer) Export(ctx context.Context, doc *report.Document) ([]byte, error) {
	html, err := r.RenderHTML(doc)
	if err != nil {
		return nil, err
	}
	orientation, ok := orientations[doc.Kind]
	if !ok {
		orientation = OrientationPortrait
	}

	result, err := r.pdf.Render(ctx, &RenderRequest{
		HTML:        html,
		PaperSize:   r.paperSize,
		Orientation: orientation,
		Margins:     DefaultMargins(),
		Title:       doc.Title,
		FooterHTML:  pageFooter,
	})
	if err != nil {
		return nil, err
	}
	r.logger.Info("Report printed",
		zap.String("kind", string(doc.Kind)),
		zap.Int("pages", result.PageCount),
		zap.Duration("duration", result.RenderDuration))
	return result.PDFData, nil
}

const pageFooter = `<div style="font-size:8px;width:100%;text-align:right;padding-right:15mm;">` +
	`Página <span class="pageNumber"></span> de <span class="totalPages"></span></div>`

var _ report.Exporter = (*ReportRenderer)(nil)
