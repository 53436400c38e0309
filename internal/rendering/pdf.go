package rendering

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/jonathan/cv-forge/internal/types"
)

// DefaultPDFTimeout bounds a single export including browser startup
const DefaultPDFTimeout = 60 * time.Second

// A4 paper size in inches
const (
	a4Width  = 8.27
	a4Height = 11.69
)

// PDFExporter prints rendered CVs to PDF with a headless Chrome.
// Requires Chrome or Chromium on the host; ExecPath overrides discovery.
type PDFExporter struct {
	ExecPath string
	Timeout  time.Duration
	Logger   *zap.Logger
}

// NewPDFExporter creates an exporter with the default timeout
func NewPDFExporter(execPath string, logger *zap.Logger) *PDFExporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PDFExporter{ExecPath: execPath, Timeout: DefaultPDFTimeout, Logger: logger}
}

// Export renders cv with r and prints the read-only document to PDF
func (e *PDFExporter) Export(ctx context.Context, r Renderer, cv types.CVData) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, cv); err != nil {
		return nil, err
	}
	return e.PrintHTML(ctx, buf.Bytes())
}

// PrintHTML prints a complete HTML document to A4 PDF
func (e *PDFExporter) PrintHTML(ctx context.Context, html []byte) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if e.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(e.ExecPath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	timeout := e.Timeout
	if timeout <= 0 {
		timeout = DefaultPDFTimeout
	}
	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	tmpDir, err := os.MkdirTemp("", "cv-")
	if err != nil {
		return nil, &RenderError{Message: "failed to create temp dir", Cause: err}
	}
	defer os.RemoveAll(tmpDir)

	htmlPath := filepath.Join(tmpDir, "index.html")
	if err := os.WriteFile(htmlPath, html, 0o600); err != nil {
		return nil, &RenderError{Message: "failed to write document", Cause: err}
	}

	start := time.Now()
	var pdf []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate("file://"+htmlPath),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(a4Width).
				WithPaperHeight(a4Height).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, &RenderError{Message: "browser printing failed", Cause: err}
	}

	e.Logger.Info("exported pdf",
		zap.Int("bytes", len(pdf)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return pdf, nil
}
