package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func setupRouter(svc Analyzer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api"))
	return r
}

func postJSON(t *testing.T, r http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/analyze-resume", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

type errorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Errors  []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body
}

func TestAnalyzeResumeSuccess(t *testing.T) {
	fake := &fakeLLM{reply: kubernetesReply}
	r := setupRouter(NewService(fake, Options{Provider: "Gemini"}))

	resp := postJSON(t, r, `{"resumeText":"Go developer, Docker","jobDescription":"Go engineer with Kubernetes"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var body struct {
		Success  bool           `json:"success"`
		Analysis AnalysisResult `json:"analysis"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !body.Success {
		t.Fatalf("expected success true")
	}
	if body.Analysis.MatchScore != 72 || len(body.Analysis.MissingSkills) != 1 || body.Analysis.MissingSkills[0].Skill != "Kubernetes" {
		t.Fatalf("unexpected analysis %+v", body.Analysis)
	}
}

func TestAnalyzeResumeValidation(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		fields []string
	}{
		{name: "empty job description", body: `{"resumeText":"Go developer","jobDescription":""}`, fields: []string{"jobDescription"}},
		{name: "blank job description", body: `{"resumeText":"Go developer","jobDescription":"   "}`, fields: []string{"jobDescription"}},
		{name: "missing both", body: `{}`, fields: []string{"resumeText", "jobDescription"}},
		{name: "wrong type", body: `{"resumeText":5,"jobDescription":"job"}`, fields: []string{"resumeText"}},
		{name: "not json", body: `resume please`, fields: []string{"body"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeLLM{reply: kubernetesReply}
			resp := postJSON(t, setupRouter(NewService(fake, Options{})), tt.body)

			if resp.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d", resp.Code)
			}
			body := decodeError(t, resp)
			if body.Message != "Invalid request data" {
				t.Fatalf("unexpected message %q", body.Message)
			}
			if len(body.Errors) != len(tt.fields) {
				t.Fatalf("unexpected field errors %+v", body.Errors)
			}
			for i, f := range tt.fields {
				if body.Errors[i].Field != f {
					t.Fatalf("error %d field = %q, want %q", i, body.Errors[i].Field, f)
				}
				if body.Errors[i].Message == "" {
					t.Fatalf("error %d has no message", i)
				}
			}
			if fake.calls.Load() != 0 {
				t.Fatalf("model must not be called for invalid requests")
			}
		})
	}
}

type stubAnalyzer struct{ err error }

func (s stubAnalyzer) Analyze(ctx context.Context, resumeText, jobDescription string) (AnalysisResult, error) {
	return AnalysisResult{}, s.err
}

func TestAnalyzeResumeFailures(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    string
		message string
	}{
		{
			name:    "quota",
			err:     &UpstreamError{Kind: ErrQuotaExceeded, Provider: "Gemini", Cause: errors.New("quota")},
			code:    ErrorCodeLLMQuota,
			message: "Gemini API quota exceeded. Please try again later.",
		},
		{
			name:    "malformed",
			err:     &UpstreamError{Kind: ErrMalformedResponse, Provider: "OpenAI"},
			code:    ErrorCodeLLMSchemaMismatch,
			message: "Invalid JSON response from OpenAI API",
		},
		{
			name:    "timeout",
			err:     context.DeadlineExceeded,
			code:    ErrorCodeLLMTimeout,
			message: "Analysis timed out. Please try again.",
		},
		{
			name:    "unexpected",
			err:     errors.New("boom"),
			code:    ErrorCodeAnalysisFailed,
			message: "Failed to analyze resume: boom",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, setupRouter(stubAnalyzer{err: tt.err}), `{"resumeText":"r","jobDescription":"j"}`)
			if resp.Code != http.StatusInternalServerError {
				t.Fatalf("expected status 500, got %d", resp.Code)
			}
			body := decodeError(t, resp)
			if body.Code != tt.code || body.Message != tt.message {
				t.Fatalf("unexpected body %+v", body)
			}
		})
	}
}
