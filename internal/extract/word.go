package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"code.sajari.com/docconv"
)

func extractDOCX(ctx context.Context, data []byte) (string, error) {
	text, _, err := docconv.ConvertDocx(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("parse docx: %w", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", &EmptyExtractionError{Format: "Word document"}
	}
	return text, nil
}

// extractDOC handles legacy binary .doc files.
func extractDOC(ctx context.Context, data []byte) (string, error) {
	text, _, err := docconv.ConvertDoc(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("parse doc: %w", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", &EmptyExtractionError{Format: "Word document"}
	}
	return text, nil
}
