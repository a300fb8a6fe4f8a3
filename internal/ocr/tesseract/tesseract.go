// Package tesseract adapts gosseract to the ocr.Recognizer interface.
package tesseract

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"resume-fit/internal/ocr"
)

// Recognizer wraps one gosseract client. Not safe for concurrent use; the
// ocr.Engine serializes calls.
type Recognizer struct {
	client *gosseract.Client
}

// New starts a tesseract client for the given languages (default "eng").
func New(languages ...string) (*Recognizer, error) {
	client := gosseract.NewClient()
	langs := make([]string, 0, len(languages))
	for _, l := range languages {
		if l = strings.TrimSpace(l); l != "" {
			langs = append(langs, l)
		}
	}
	if len(langs) == 0 {
		langs = []string{"eng"}
	}
	if err := client.SetLanguage(langs...); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("tesseract set language %v: %w", langs, err)
	}
	return &Recognizer{client: client}, nil
}

// Factory returns an ocr.Factory that builds a tesseract recognizer.
func Factory(languages ...string) ocr.Factory {
	return func() (ocr.Recognizer, error) {
		return New(languages...)
	}
}

// Recognize implements ocr.Recognizer.
func (r *Recognizer) Recognize(ctx context.Context, image []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := r.client.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("tesseract set image: %w", err)
	}
	text, err := r.client.Text()
	if err != nil {
		return "", fmt.Errorf("tesseract recognize: %w", err)
	}
	return text, nil
}

// Close implements ocr.Recognizer.
func (r *Recognizer) Close() error {
	return r.client.Close()
}

var _ ocr.Recognizer = (*Recognizer)(nil)
