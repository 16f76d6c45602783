package printing

import (
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"time"

	appreport "github.com/pos/backend/internal/application/report"
	appsales "github.com/pos/backend/internal/application/sales"
	"github.com/pos/backend/internal/infrastructure/config"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

//go:embed templates/sales_report.html
var salesReportTemplate string

const pageFooter = `<div style="font-size:8px;width:100%;text-align:center;color:#777;">` +
	`Page <span class="pageNumber"></span> of <span class="totalPages"></span></div>`

// ReportPrinterOptions configures the page layout of printed reports
type ReportPrinterOptions struct {
	PaperSize   PaperSize
	Orientation Orientation
	Margins     *Margins
	Timeout     time.Duration
	Logger      *zap.Logger
}

// ReportPrinter prints sales range reports to PDF
type ReportPrinter struct {
	renderer PDFRenderer
	engine   *TemplateEngine
	tmpl     *template.Template
	opts     ReportPrinterOptions
	logger   *zap.Logger
}

// reportRow is a sale line with its date in the report timezone
type reportRow struct {
	appsales.SaleResponse
	LocalDate time.Time
}

type reportView struct {
	*appreport.SalesReportDocument
	Rows []reportRow
}

// NewReportPrinter creates a printer that renders through renderer
func NewReportPrinter(renderer PDFRenderer, engine *TemplateEngine, opts ReportPrinterOptions) (*ReportPrinter, error) {
	if renderer == nil {
		return nil, fmt.Errorf("renderer is required")
	}
	if engine == nil {
		engine = NewTemplateEngine()
	}
	if opts.PaperSize == "" {
		opts.PaperSize = PaperSizeA4
	}
	if !opts.PaperSize.IsValid() {
		return nil, NewRenderError(ErrCodeInvalidPaperSize, "invalid paper size: "+string(opts.PaperSize), nil)
	}
	if opts.Orientation == "" {
		opts.Orientation = OrientationPortrait
	}
	if opts.Margins == nil {
		m := DefaultMargins()
		opts.Margins = &m
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	tmpl, err := engine.Parse("sales_report", salesReportTemplate)
	if err != nil {
		return nil, err
	}
	return &ReportPrinter{
		renderer: renderer,
		engine:   engine,
		tmpl:     tmpl,
		opts:     opts,
		logger:   logger,
	}, nil
}

// NewReportPrinterFromConfig builds a Chrome backed printer from configuration
func NewReportPrinterFromConfig(cfg config.PrintingConfig, logger *zap.Logger) (*ReportPrinter, error) {
	paper, err := ParsePaperSize(cfg.PaperSize)
	if err != nil {
		return nil, err
	}
	tag := language.English
	if cfg.LocaleLanguage != "" {
		if tag, err = language.Parse(cfg.LocaleLanguage); err != nil {
			return nil, fmt.Errorf("invalid printing locale %q: %w", cfg.LocaleLanguage, err)
		}
	}

	renderer, err := NewChromedpRenderer(&ChromedpConfig{
		DefaultTimeout: cfg.Timeout,
		RemoteURL:      cfg.ChromeURL,
		NoSandbox:      cfg.NoSandbox,
		Logger:         logger,
	})
	if err != nil {
		return nil, err
	}
	return NewReportPrinter(renderer, NewTemplateEngine(WithLanguage(tag)), ReportPrinterOptions{
		PaperSize: paper,
		Timeout:   cfg.Timeout,
		Logger:    logger,
	})
}

// RenderHTML binds the report to the sales report template
func (p *ReportPrinter) RenderHTML(doc *appreport.SalesReportDocument) (string, error) {
	if doc == nil {
		return "", NewRenderError(ErrCodeInvalidHTML, "report document is nil", nil)
	}
	loc := doc.GeneratedAt.Location()
	view := reportView{SalesReportDocument: doc, Rows: make([]reportRow, len(doc.Sales))}
	for i, s := range doc.Sales {
		view.Rows[i] = reportRow{SaleResponse: s, LocalDate: s.SaleDate.In(loc)}
	}
	return p.engine.Execute(p.tmpl, view)
}

// PrintSalesReport renders the report to PDF
func (p *ReportPrinter) PrintSalesReport(ctx context.Context, doc *appreport.SalesReportDocument) ([]byte, error) {
	html, err := p.RenderHTML(doc)
	if err != nil {
		return nil, err
	}

	result, err := p.renderer.Render(ctx, &RenderRequest{
		HTML:        html,
		PaperSize:   p.opts.PaperSize,
		Orientation: p.opts.Orientation,
		Margins:     *p.opts.Margins,
		Title:       "Sales Report",
		FooterHTML:  pageFooter,
		Timeout:     p.opts.Timeout,
	})
	if err != nil {
		if IsTimeout(err) {
			p.logger.Warn("Sales report rendering timed out",
				zap.Duration("timeout", p.opts.Timeout),
				zap.Int("rows", len(doc.Sales)),
			)
		}
		return nil, err
	}

	p.logger.Debug("Sales report printed",
		zap.Int("pages", result.PageCount),
		zap.Duration("duration", result.RenderDuration),
	)
	return result.PDFData, nil
}

// Close releases the renderer
func (p *ReportPrinter) Close() error {
	return p.renderer.Close()
}

var _ appreport.ReportPrinter = (*ReportPrinter)(nil)
