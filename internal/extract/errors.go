package extract

import (
	"errors"
	"fmt"
)

// UnsupportedTypeError is returned when no strategy handles the MIME type.
type UnsupportedTypeError struct {
	MimeType string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported file type: %s. Please upload a PDF, Word document or image", e.MimeType)
}

// EmptyExtractionError is returned when a document parsed but held no text.
type EmptyExtractionError struct {
	Format string
}

func (e *EmptyExtractionError) Error() string {
	return fmt.Sprintf("no text found in %s. The document might be empty", e.Format)
}

// ImageBasedPDFError is returned when a PDF has no usable text layer and OCR
// could not recover any text. Cause is the underlying parse or OCR failure,
// nil when the text layer was simply empty.
type ImageBasedPDFError struct {
	Cause error
}

func (e *ImageBasedPDFError) Error() string {
	return "no text found in PDF. The document appears to be image-based or scanned; please upload it as an image (JPG, PNG or WEBP) instead"
}

func (e *ImageBasedPDFError) Unwrap() error { return e.Cause }

// IsUserFixable reports whether err is an extraction outcome the uploader can
// act on (wrong type, empty document, scanned PDF) rather than a server fault.
func IsUserFixable(err error) bool {
	var unsupported *UnsupportedTypeError
	var empty *EmptyExtractionError
	var imageBased *ImageBasedPDFError
	return errors.As(err, &unsupported) || errors.As(err, &empty) || errors.As(err, &imageBased)
}
