package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clube/backend/internal/domain/identity"
	"github.com/clube/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DocumentKind names the template a report is printed with
type DocumentKind string

const (
	DocumentCashFlow        DocumentKind = "cash_flow"
	DocumentIncomeStatement DocumentKind = "income_statement"
	DocumentDelinquency     DocumentKind = "delinquency"
	DocumentAccounts        DocumentKind = "accounts"
)

// Document is a report ready to be printed
type Document struct {
	Kind        DocumentKind
	Title       string
	ClubName    string
	GeneratedAt time.Time
	// Data is one of the *Report types of this package
	Data any
}

// Exporter turns a report document into a PDF file
type Exporter interface {
	Export(ctx context.Context, doc *Document) ([]byte, error)
}

// Archive keeps exported files and hands out temporary download links
type Archive interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	GenerateDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error)
}

// ExportOptions controls where an exported PDF goes
type ExportOptions struct {
	// Archive stores the file and returns a download URL instead of the bytes
	Archive bool `form:"archive"`
}

// ExportResult is either the PDF bytes or an archived download link
type ExportResult struct {
	FileName  string     `json:"file_name"`
	PDF       []byte     `json:"-"`
	URL       string     `json:"url,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// PDFExporterConfig holds the dependencies of the PDF exporter
type PDFExporterConfig struct {
	Exporter   Exporter
	Archive    Archive
	TenantRepo identity.TenantRepository
	// LinkTTL is how long archived download links stay valid
	LinkTTL time.Duration
	Logger  *zap.Logger
}

// PDFExporter prints reports built by ReportService
type PDFExporter struct {
	reports    *ReportService
	exporter   Exporter
	archive    Archive
	tenantRepo identity.TenantRepository
	linkTTL    time.Duration
	now        func() time.Time
	logger     *zap.Logger
}

// NewPDFExporter creates a new PDFExporter. Archive may be nil.
func NewPDFExporter(reports *ReportService, cfg PDFExporterConfig) *PDFExporter {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := cfg.LinkTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &PDFExporter{
		reports:    reports,
		exporter:   cfg.Exporter,
		archive:    cfg.Archive,
		tenantRepo: cfg.TenantRepo,
		linkTTL:    ttl,
		now:        time.Now,
		logger:     logger.Named("report-export"),
	}
}

// CashFlow exports the cash-flow statement
func (e *PDFExporter) CashFlow(ctx context.Context, tenantID uuid.UUID, filter CashFlowFilter, opts ExportOptions) (*ExportResult, error) {
	r, err := e.reports.CashFlow(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	title := fmt.Sprintf("Fluxo de Caixa - %s", r.CashBoxName)
	return e.export(ctx, tenantID, DocumentCashFlow, title, r, opts)
}

// IncomeStatement exports the DRE
func (e *PDFExporter) IncomeStatement(ctx context.Context, tenantID uuid.UUID, filter DateRange, opts ExportOptions) (*ExportResult, error) {
	r, err := e.reports.IncomeStatement(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	return e.export(ctx, tenantID, DocumentIncomeStatement, "Demonstrativo de Resultado", r, opts)
}

// Delinquency exports the delinquency list
func (e *PDFExporter) Delinquency(ctx context.Context, tenantID uuid.UUID, filter DelinquencyFilter, opts ExportOptions) (*ExportResult, error) {
	r, err := e.reports.Delinquency(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	return e.export(ctx, tenantID, DocumentDelinquency, "Relatório de Inadimplência", r, opts)
}

// Accounts exports the accounts report
func (e *PDFExporter) Accounts(ctx context.Context, tenantID uuid.UUID, filter AccountsFilter, opts ExportOptions) (*ExportResult, error) {
	r, err := e.reports.Accounts(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	return e.export(ctx, tenantID, DocumentAccounts, "Contas a Pagar e Receber", r, opts)
}

func (e *PDFExporter) export(ctx context.Context, tenantID uuid.UUID, kind DocumentKind, title string, data any, opts ExportOptions) (*ExportResult, error) {
	if e.exporter == nil {
		return nil, shared.NewConfigurationError("PDF export is not configured")
	}
	if opts.Archive && e.archive == nil {
		return nil, shared.NewConfigurationError("Report archive is not configured")
	}

	clubName, err := e.clubName(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	now := e.now()
	pdf, err := e.exporter.Export(ctx, &Document{
		Kind:        kind,
		Title:       title,
		ClubName:    clubName,
		GeneratedAt: now,
		Data:        data,
	})
	if err != nil {
		e.logger.Error("PDF rendering failed",
			zap.String("tenant_id", tenantID.String()),
			zap.String("kind", string(kind)),
			zap.Error(err))
		return nil, fmt.Errorf("failed to render %s report: %w", kind, err)
	}

	result := &ExportResult{
		FileName: fmt.Sprintf("%s-%s.pdf", kind, now.Format("20060102-150405")),
	}
	if !opts.Archive {
		result.PDF = pdf
		return result, nil
	}

	key := fmt.Sprintf("reports/%s/%s", tenantID, result.FileName)
	if err := e.archive.Upload(ctx, key, pdf, "application/pdf"); err != nil {
		return nil, fmt.Errorf("failed to archive report: %w", err)
	}
	url, expiresAt, err := e.archive.GenerateDownloadURL(ctx, key, e.linkTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign report link: %w", err)
	}
	result.URL = url
	result.ExpiresAt = &expiresAt

	e.logger.Info("Report archived",
		zap.String("tenant_id", tenantID.String()),
		zap.String("key", key),
		zap.Int("bytes", len(pdf)))
	return result, nil
}

func (e *PDFExporter) clubName(ctx context.Context, tenantID uuid.UUID) (string, error) {
	if e.tenantRepo == nil {
		return "", nil
	}
	tenant, err := e.tenantRepo.FindByID(ctx, tenantID)
	if errors.Is(err, shared.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return tenant.Name, nil
}
