package extract

import (
	"context"
	"fmt"
	"strings"
)

func (e *Extractor) extractImage(ctx context.Context, data []byte) (string, error) {
	text, err := e.ocr.Recognize(ctx, data)
	if err != nil {
		return "", fmt.Errorf("ocr image: %w", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", &EmptyExtractionError{Format: "image"}
	}
	return text, nil
}
