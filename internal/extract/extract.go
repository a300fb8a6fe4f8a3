package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"resume-fit/internal/shared/metrics"
	"resume-fit/internal/shared/telemetry"
)

// Recognizer runs OCR on one encoded image. *ocr.Engine satisfies it.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte) (string, error)
}

// Rasterizer renders every page of a PDF to an encoded image, in page order.
// ocr.Rasterizer satisfies it.
type Rasterizer interface {
	Rasterize(ctx context.Context, pdf []byte) ([][]byte, error)
}

// Opener reads staged objects back from an object store.
type Opener interface {
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// Options configures an Extractor. OCR and Rasterizer are optional: without
// OCR images are unsupported, and without both scanned PDFs fail with
// *ImageBasedPDFError.
type Options struct {
	OCR         Recognizer
	Rasterizer  Rasterizer
	PageWorkers int
}

type strategy func(ctx context.Context, data []byte) (string, error)

// Extractor turns an uploaded document into plain text, choosing a strategy
// by MIME type.
type Extractor struct {
	ocr         Recognizer
	raster      Rasterizer
	pageWorkers int
	strategies  map[string]strategy
}

// New builds an Extractor. PDF and Word documents are always supported.
func New(opts Options) *Extractor {
	e := &Extractor{
		ocr:         opts.OCR,
		raster:      opts.Rasterizer,
		pageWorkers: opts.PageWorkers,
	}
	if e.pageWorkers <= 0 {
		e.pageWorkers = 2
	}
	e.strategies = map[string]strategy{
		MimePDF:  e.extractPDF,
		MimeDOCX: extractDOCX,
		MimeDOC:  extractDOC,
	}
	if e.ocr != nil {
		for _, mt := range imageTypes {
			e.strategies[mt] = e.extractImage
		}
	}
	return e
}

// Supports reports whether mimeType (after normalization) has a strategy.
func (e *Extractor) Supports(mimeType string) bool {
	_, ok := e.strategies[NormalizeMimeType(mimeType, nil)]
	return ok
}

// Extract returns the trimmed text content of data.
func (e *Extractor) Extract(ctx context.Context, data []byte, mimeType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	normalized := NormalizeMimeType(mimeType, data)
	run, ok := e.strategies[normalized]
	if !ok {
		metrics.IncExtraction(kindOf(normalized), "unsupported")
		return "", &UnsupportedTypeError{MimeType: normalized}
	}

	started := time.Now()
	text, err := run(ctx, data)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.IncExtraction(kindOf(normalized), outcome)
	telemetry.Debug("extract.done", map[string]any{
		"mime":        normalized,
		"bytes":       len(data),
		"outcome":     outcome,
		"duration_ms": float64(time.Since(started).Microseconds()) / 1000.0,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// ExtractObject reads a staged object and extracts its text.
func (e *Extractor) ExtractObject(ctx context.Context, store Opener, key string, mimeType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	body, err := store.Open(ctx, key)
	if err != nil {
		return "", fmt.Errorf("extract key=%s mime=%s: %w", key, mimeType, err)
	}
	defer body.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return "", fmt.Errorf("extract key=%s mime=%s: read: %w", key, mimeType, err)
	}
	return e.Extract(ctx, buf.Bytes(), mimeType)
}

func kindOf(mimeType string) string {
	switch mimeType {
	case MimePDF:
		return "pdf"
	case MimeDOCX, MimeDOC:
		return "word"
	case MimeJPEG, MimePNG, MimeWEBP:
		return "image"
	default:
		return "other"
	}
}
