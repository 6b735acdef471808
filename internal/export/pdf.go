// Package export renders cover letters into A4 PDF documents.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"

	"coverletter-backend/internal/shared/metrics"
	"coverletter-backend/internal/shared/storage/object"
	"coverletter-backend/internal/shared/telemetry"
)

const (
	// DefaultPath is where Export writes when no path is configured.
	DefaultPath = "cover_letter.pdf"

	fontFamily      = "Arial"
	fontSize        = 12
	lineHeight      = 10
	pageBreakMargin = 15
	contentTypePDF  = "application/pdf"
)

// Exporter writes letters to a fixed path, overwriting the previous export.
// When Store is set the file is mirrored there under Key.
type Exporter struct {
	Path  string
	Store object.ObjectStore
	Key   string
}

// New returns an Exporter writing to path. store may be nil.
func New(path string, store object.ObjectStore) *Exporter {
	if strings.TrimSpace(path) == "" {
		path = DefaultPath
	}
	return &Exporter{Path: path, Store: store, Key: filepath.Base(path)}
}

// Render lays content out on A4 pages: one wrapped paragraph per line, with
// automatic page breaks.
func Render(content string) (*fpdf.Fpdf, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.AddPage()
	doc.SetFont(fontFamily, "", fontSize)
	doc.SetAutoPageBreak(true, pageBreakMargin)

	// Core fonts are cp1252; translate so accented text survives.
	tr := doc.UnicodeTranslatorFromDescriptor("")

	pageWidth, _ := doc.GetPageSize()
	left, _, _, _ := doc.GetMargins()
	width := pageWidth - 2*left

	for _, line := range strings.Split(content, "\n") {
		doc.MultiCell(width, lineHeight, tr(line), "", "", false)
	}
	if err := doc.Error(); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return doc, nil
}

// Export renders content and writes it to e.Path, returning that path.
func (e *Exporter) Export(ctx context.Context, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	doc, err := Render(content)
	if err != nil {
		metrics.IncExportFailed()
		return "", err
	}

	if dir := filepath.Dir(e.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			metrics.IncExportFailed()
			return "", fmt.Errorf("mkdir: %w", err)
		}
	}
	if err := doc.OutputFileAndClose(e.Path); err != nil {
		metrics.IncExportFailed()
		return "", fmt.Errorf("write pdf %s: %w", e.Path, err)
	}
	metrics.IncExport()

	telemetry.Info("export.written", map[string]any{
		"path":  e.Path,
		"pages": doc.PageCount(),
	})
	e.mirror(ctx)
	return e.Path, nil
}

// mirror copies the written file to the object store. Failures are logged only.
func (e *Exporter) mirror(ctx context.Context) {
	if e.Store == nil {
		return
	}
	f, err := os.Open(e.Path)
	if err != nil {
		telemetry.Error("export.mirror.failed", map[string]any{"path": e.Path, "err": err.Error()})
		return
	}
	defer f.Close()

	n, err := e.Store.SaveWithKey(ctx, e.Key, contentTypePDF, f)
	if err != nil {
		telemetry.Error("export.mirror.failed", map[string]any{"key": e.Key, "err": err.Error()})
		return
	}
	telemetry.Info("export.mirrored", map[string]any{"key": e.Key, "size_bytes": n})
}
