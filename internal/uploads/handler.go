package uploads

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"resume-fit/internal/extract"
	"resume-fit/internal/shared/metrics"
	"resume-fit/internal/shared/server/middleware"
	"resume-fit/internal/shared/server/respond"
	"resume-fit/internal/shared/telemetry"
)

const (
	formField = "resume"
	// multipartOverhead is allowed on top of the file limit for boundaries
	// and part headers.
	multipartOverhead = 64 << 10

	ErrorCodeValidation   = "validation_error"
	ErrorCodeTooLarge     = "file_too_large"
	ErrorCodeInvalidType  = "invalid_file_type"
	ErrorCodeExtraction   = "extraction_failed"
	ErrorCodeUploadFailed = "upload_failed"
)

// Handler serves resume uploads.
type Handler struct {
	Svc      *Service
	MaxBytes int64
}

// NewHandler constructs a Handler with the given per-file byte limit.
func NewHandler(svc *Service, maxBytes int64) *Handler {
	return &Handler{Svc: svc, MaxBytes: maxBytes}
}

// RegisterRoutes attaches upload routes to the router group. Extra middleware
// (rate limiting) applies to these routes only.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, extra ...gin.HandlerFunc) {
	rg.POST("/upload-resume", append(extra, h.upload)...)
}

func (h *Handler) tooLargeMessage() string {
	return fmt.Sprintf("File too large. Maximum size is %dMB.", h.MaxBytes>>20)
}

func (h *Handler) upload(c *gin.Context) {
	defer func() { metrics.IncUpload(c.Writer.Status()) }()

	limit := h.MaxBytes + multipartOverhead
	if c.Request.ContentLength > limit {
		respond.Error(c, http.StatusBadRequest, ErrorCodeTooLarge, h.tooLargeMessage(), nil)
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

	fileHeader, err := c.FormFile(formField)
	if err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large"):
			respond.Error(c, http.StatusBadRequest, ErrorCodeTooLarge, h.tooLargeMessage(), nil)
		case errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart):
			respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "No file uploaded", nil)
		default:
			respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "Upload error: "+err.Error(), nil)
		}
		return
	}
	if fileHeader.Size > h.MaxBytes {
		respond.Error(c, http.StatusBadRequest, ErrorCodeTooLarge, h.tooLargeMessage(), nil)
		return
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if !h.Svc.Accepts(mimeType) {
		respond.Error(c, http.StatusBadRequest, ErrorCodeInvalidType,
			"Invalid file type. Only PDF, Word (DOC, DOCX), JPG, PNG and WEBP files are allowed.", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "Unable to read uploaded file", nil)
		return
	}
	defer file.Close()

	namespace := middleware.RequestIDFromContext(c)
	if namespace == "" {
		namespace = uuid.NewString()
	}

	result, err := h.Svc.Process(c.Request.Context(), namespace, fileHeader.Filename, mimeType, file)
	if err != nil {
		if extract.IsUserFixable(err) {
			respond.Error(c, http.StatusBadRequest, ErrorCodeExtraction, err.Error(), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, ErrorCodeUploadFailed, "Upload failed: "+err.Error(), nil)
		return
	}

	telemetry.Info("upload.extracted", map[string]any{
		"request_id": namespace,
		"mime":       mimeType,
		"size":       result.Size,
		"chars":      len(result.Text),
	})
	respond.Success(c, gin.H{
		"extractedText": result.Text,
		"filename":      result.FileName,
		"size":          result.Size,
	})
}
