package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"resume-fit/internal/shared/server/respond"
)

// Analyzer is the behavior the HTTP handler needs from Service.
type Analyzer interface {
	Analyze(ctx context.Context, resumeText, jobDescription string) (AnalysisResult, error)
}

// Handler wires HTTP handlers to the analysis service.
type Handler struct {
	Svc Analyzer
}

// NewHandler constructs a Handler.
func NewHandler(svc Analyzer) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches analysis routes to the router group. Extra
// middleware (rate limiting) applies to these routes only.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, extra ...gin.HandlerFunc) {
	rg.POST("/analyze-resume", append(extra, h.analyze)...)
}

type analyzeRequest struct {
	ResumeText     string `json:"resumeText" binding:"required"`
	JobDescription string `json:"jobDescription" binding:"required"`
}

var fieldMessages = map[string]string{
	"resumeText":     "Resume text is required",
	"jobDescription": "Job description is required",
}

func (h *Handler) analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "Invalid request data", bindErrors(err))
		return
	}

	result, err := h.Svc.Analyze(c.Request.Context(), req.ResumeText, req.JobDescription)
	if err != nil {
		h.writeError(c, err)
		return
	}

	respond.Success(c, gin.H{"analysis": result})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	var validation *ValidationError
	var upstream *UpstreamError
	switch {
	case errors.As(err, &validation):
		fields := make([]respond.FieldError, len(validation.Fields))
		for i, f := range validation.Fields {
			fields[i] = respond.FieldError{Field: f.Field, Message: f.Message}
		}
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "Invalid request data", fields)
	case errors.As(err, &upstream):
		respond.Error(c, http.StatusInternalServerError, upstream.Code(), upstream.Error(), nil)
	case errors.Is(err, context.DeadlineExceeded):
		respond.Error(c, http.StatusInternalServerError, ErrorCodeLLMTimeout, "Analysis timed out. Please try again.", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, ErrorCodeAnalysisFailed, "Failed to analyze resume: "+err.Error(), nil)
	}
}

func bindErrors(err error) []respond.FieldError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]respond.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			field := lowerCamel(fe.Field())
			msg, ok := fieldMessages[field]
			if !ok || fe.Tag() != "required" {
				msg = field + " failed " + fe.Tag() + " validation"
			}
			out = append(out, respond.FieldError{Field: field, Message: msg})
		}
		return out
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return []respond.FieldError{{Field: field, Message: "Expected " + typeErr.Type.String() + ", got " + typeErr.Value}}
	}
	return []respond.FieldError{{Field: "body", Message: "Request body must be a JSON object"}}
}

func lowerCamel(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
