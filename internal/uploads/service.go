package uploads

import (
	"context"
	"fmt"
	"io"
	"time"

	"resume-fit/internal/extract"
	"resume-fit/internal/shared/storage/object"
	"resume-fit/internal/shared/telemetry"
)

const defaultCleanupTimeout = 10 * time.Second

var allowedContentTypes = map[string]struct{}{
	extract.MimePDF:  {},
	extract.MimeDOC:  {},
	extract.MimeDOCX: {},
	extract.MimeJPEG: {},
	extract.MimePNG:  {},
	extract.MimeWEBP: {},
}

// Extractor is the behavior the upload flow needs from *extract.Extractor.
type Extractor interface {
	Supports(mimeType string) bool
	ExtractObject(ctx context.Context, store extract.Opener, key string, mimeType string) (string, error)
}

// Result is the outcome of one processed upload.
type Result struct {
	Text     string
	FileName string
	Size     int64
}

// Service stages an uploaded file, extracts its text and removes the staged
// copy. Nothing outlives the request.
type Service struct {
	Store          object.Store
	Extractor      Extractor
	CleanupTimeout time.Duration
}

// Accepts reports whether the declared MIME type is on the allow-list and has
// an extraction strategy in this deployment.
func (s *Service) Accepts(mimeType string) bool {
	clean := extract.NormalizeMimeType(mimeType, nil)
	if _, ok := allowedContentTypes[clean]; !ok {
		return false
	}
	return s.Extractor.Supports(clean)
}

// Process stages r under namespace and returns its extracted text. The staged
// object is deleted on every return path, including cancellation.
func (s *Service) Process(ctx context.Context, namespace, fileName, mimeType string, r io.Reader) (Result, error) {
	obj, err := s.Store.Save(ctx, namespace, fileName, r)
	if err != nil {
		return Result{}, fmt.Errorf("stage upload: %w", err)
	}
	defer s.cleanup(ctx, obj.Key)

	text, err := s.Extractor.ExtractObject(ctx, s.Store, obj.Key, mimeType)
	if err != nil {
		return Result{}, err
	}
	return Result{Text: text, FileName: fileName, Size: obj.Size}, nil
}

func (s *Service) cleanup(ctx context.Context, key string) {
	timeout := s.CleanupTimeout
	if timeout <= 0 {
		timeout = defaultCleanupTimeout
	}
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()
	if err := s.Store.Delete(cctx, key); err != nil {
		telemetry.Error("upload.cleanup.failed", map[string]any{"key": key, "err": err})
	}
}
