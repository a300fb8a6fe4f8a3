package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
	"golang.org/x/sync/errgroup"

	"resume-fit/internal/shared/metrics"
	"resume-fit/internal/shared/telemetry"
)

var errNoOCRText = errors.New("ocr produced no text")

func (e *Extractor) extractPDF(ctx context.Context, data []byte) (string, error) {
	text, err := pdfTextLayer(data)
	if err == nil && text != "" {
		return text, nil
	}
	if e.ocr == nil || e.raster == nil {
		return "", &ImageBasedPDFError{Cause: err}
	}

	telemetry.Info("extract.pdf.ocr_fallback", map[string]any{
		"bytes":      len(data),
		"text_error": err,
	})
	metrics.IncOCRFallback()

	scanned, ocrErr := e.ocrPDF(ctx, data)
	if ocrErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", &ImageBasedPDFError{Cause: ocrErr}
	}
	if scanned == "" {
		return "", &ImageBasedPDFError{Cause: errNoOCRText}
	}
	return scanned, nil
}

// pdfTextLayer reads the embedded text layer. The parser panics on some
// malformed inputs, so panics are reported as errors.
func pdfTextLayer(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("parse pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse pdf: %w", err)
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// ocrPDF rasterizes every page and recognizes them concurrently. Page text is
// joined in page order with blank lines between pages.
func (e *Extractor) ocrPDF(ctx context.Context, data []byte) (string, error) {
	pages, err := e.raster.Rasterize(ctx, data)
	if err != nil {
		return "", err
	}

	results := make([]string, len(pages))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.pageWorkers)
	for i, page := range pages {
		g.Go(func() error {
			text, err := e.ocr.Recognize(gctx, page)
			if err != nil {
				return fmt.Errorf("ocr page %d: %w", i+1, err)
			}
			results[i] = strings.TrimSpace(text)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	parts := make([]string, 0, len(results))
	for _, r := range results {
		if r != "" {
			parts = append(parts, r)
		}
	}
	return strings.Join(parts, "\n\n"), nil
}
