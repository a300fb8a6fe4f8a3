package ocr

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"resume-fit/internal/shared/lazy"
	"resume-fit/internal/shared/telemetry"
)

// Recognizer turns an encoded image (PNG, JPEG, WEBP) into text.
// Implementations are not required to be safe for concurrent use.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte) (string, error)
	Close() error
}

// Factory builds a Recognizer. It is called at most once per successful init.
type Factory func() (Recognizer, error)

// ErrEmptyImage is returned when Recognize is called with no bytes.
var ErrEmptyImage = errors.New("ocr: empty image")

// Engine is the process-wide OCR worker. The underlying recognizer is started
// on first use and every recognition call is serialized against it.
type Engine struct {
	rec *lazy.Value[Recognizer]
	mu  sync.Mutex
}

// NewEngine returns an Engine that starts its recognizer lazily via factory.
func NewEngine(factory Factory) *Engine {
	build := func(ctx context.Context) (Recognizer, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		started := time.Now()
		rec, err := factory()
		if err != nil {
			telemetry.Error("ocr.init.failed", map[string]any{"err": err})
			return nil, fmt.Errorf("ocr init: %w", err)
		}
		telemetry.Info("ocr.init", map[string]any{
			"duration_ms": float64(time.Since(started).Microseconds()) / 1000.0,
		})
		return rec, nil
	}
	release := func(r Recognizer) error { return r.Close() }
	return &Engine{rec: lazy.New(build, release)}
}

// Recognize runs OCR on a single image.
func (e *Engine) Recognize(ctx context.Context, image []byte) (string, error) {
	if len(image) == 0 {
		return "", ErrEmptyImage
	}
	rec, err := e.rec.Get(ctx)
	if err != nil {
		return "", err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return rec.Recognize(ctx, image)
}

// Started reports whether the recognizer has been initialized.
func (e *Engine) Started() bool {
	return e.rec.Ready()
}

// Close shuts the recognizer down. It waits for an in-progress recognition.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rec.Close()
}
