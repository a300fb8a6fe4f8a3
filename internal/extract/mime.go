package extract

import (
	"archive/zip"
	"bytes"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const (
	MimePDF  = "application/pdf"
	MimeDOC  = "application/msword"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeJPEG = "image/jpeg"
	MimePNG  = "image/png"
	MimeWEBP = "image/webp"
)

var imageTypes = []string{MimeJPEG, MimePNG, MimeWEBP}

// NormalizeMimeType lower-cases the declared type, drops parameters and folds
// aliases. Generic container types are resolved by sniffing the content.
func NormalizeMimeType(mimeType string, data []byte) string {
	clean := stripParams(mimeType)
	switch clean {
	case "image/jpg", "image/pjpeg":
		return MimeJPEG
	case "", "application/octet-stream", "application/zip", "application/x-zip-compressed":
		if len(data) == 0 {
			return clean
		}
		detected := stripParams(mimetype.Detect(data).String())
		switch detected {
		case "application/zip":
			if isDOCXArchive(data) {
				return MimeDOCX
			}
			return clean
		case "application/octet-stream":
			return clean
		}
		return detected
	default:
		return clean
	}
}

func stripParams(mimeType string) string {
	return strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
}

// isDOCXArchive catches DOCX files whose entry order defeats signature sniffing.
func isDOCXArchive(data []byte) bool {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return false
	}
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == "word/document.xml" {
			return true
		}
	}
	return false
}
