package analysis

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"resume-fit/internal/llm"
)

type fakeLLM struct {
	reply string
	err   error
	calls atomic.Int32
	last  llm.Request
	block bool
}

func (f *fakeLLM) Generate(ctx context.Context, req llm.Request) (string, error) {
	f.calls.Add(1)
	f.last = req
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.reply, f.err
}

const kubernetesReply = `{
  "matchScore": 72.4,
  "skillsMatch": 65,
  "experienceMatch": 80,
  "missingSkills": [{"skill": "Kubernetes", "priority": "high", "category": "technical"}],
  "optimizedResume": {
    "summary": "Backend engineer building Go services on Docker.",
    "skills": "Go, Docker, PostgreSQL",
    "experience": "Containerized billing services with Docker."
  },
  "suggestions": [{"title": "Surface container orchestration", "description": "Describe how Docker services were deployed.", "priority": "high"}]
}`

func TestAnalyzeKubernetesScenario(t *testing.T) {
	fake := &fakeLLM{reply: "```json\n" + kubernetesReply + "\n```"}
	svc := NewService(fake, Options{Provider: "Gemini"})

	got, err := svc.Analyze(context.Background(), "Go developer. Docker, PostgreSQL.", "Looking for a Go engineer with Kubernetes experience.")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if got.MatchScore != 72 || got.SkillsMatch != 65 || got.ExperienceMatch != 80 {
		t.Fatalf("unexpected scores %+v", got)
	}
	found := false
	for _, m := range got.MissingSkills {
		if m.Skill == "Kubernetes" && m.Priority == PriorityHigh && m.Category == CategoryTechnical {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected Kubernetes as a high priority technical gap, got %+v", got.MissingSkills)
	}
	if got.OptimizedResume.Education != "" || got.OptimizedResume.Certifications != "" {
		t.Fatalf("optional sections should default to empty, got %+v", got.OptimizedResume)
	}
	if !strings.Contains(fake.last.Prompt, "Kubernetes experience") {
		t.Fatalf("job description not sent to the model")
	}
}

func TestAnalyzeValidation(t *testing.T) {
	tests := []struct {
		name   string
		resume string
		job    string
		fields []string
	}{
		{name: "empty job", resume: "resume", job: "", fields: []string{"jobDescription"}},
		{name: "blank resume", resume: " \n\t", job: "job", fields: []string{"resumeText"}},
		{name: "both", resume: "", job: "  ", fields: []string{"resumeText", "jobDescription"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeLLM{reply: kubernetesReply}
			_, err := NewService(fake, Options{}).Analyze(context.Background(), tt.resume, tt.job)

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if len(verr.Fields) != len(tt.fields) {
				t.Fatalf("unexpected fields %+v", verr.Fields)
			}
			for i, f := range tt.fields {
				if verr.Fields[i].Field != f {
					t.Fatalf("field %d = %q, want %q", i, verr.Fields[i].Field, f)
				}
			}
			if fake.calls.Load() != 0 {
				t.Fatalf("model must not be called for invalid input")
			}
		})
	}
}

func TestAnalyzeClassifiesUpstreamErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		kind    error
		message string
	}{
		{name: "missing key", err: llm.ErrMissingAPIKey, kind: ErrInvalidAPIKey, message: "Invalid or missing Gemini API key. Please check your configuration."},
		{name: "bad key", err: errors.New("Error 400: API key not valid"), kind: ErrInvalidAPIKey, message: "Invalid or missing Gemini API key"},
		{name: "quota", err: errors.New("429 RESOURCE_EXHAUSTED: Quota exceeded for metric"), kind: ErrQuotaExceeded, message: "Gemini API quota exceeded. Please try again later."},
		{name: "rate limit", err: errors.New("Rate limit reached for requests"), kind: ErrRateLimited, message: "Gemini API rate limit exceeded. Please try again in a moment."},
		{name: "other", err: errors.New("connection reset by peer"), kind: ErrAnalysisFailed, message: "Gemini API analysis failed: connection reset by peer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewService(&fakeLLM{err: tt.err}, Options{Provider: "Gemini"}).Analyze(context.Background(), "resume", "job")
			if !errors.Is(err, tt.kind) {
				t.Fatalf("expected %v, got %v", tt.kind, err)
			}
			if !errors.Is(err, tt.err) {
				t.Fatalf("expected cause to be kept, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.message) {
				t.Fatalf("message %q does not contain %q", err.Error(), tt.message)
			}
		})
	}
}

func TestAnalyzeBadModelOutput(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		kind  error
		code  string
	}{
		{name: "empty", reply: "", kind: ErrEmptyModelResponse, code: ErrorCodeLLMEmpty},
		{name: "whitespace", reply: " \n ", kind: ErrEmptyModelResponse, code: ErrorCodeLLMEmpty},
		{name: "empty fence", reply: "```json\n```", kind: ErrEmptyModelResponse, code: ErrorCodeLLMEmpty},
		{name: "prose", reply: "I cannot help with that.", kind: ErrMalformedResponse, code: ErrorCodeLLMSchemaMismatch},
		{name: "truncated", reply: `{"matchScore": 70, "missingSkills": [`, kind: ErrMalformedResponse, code: ErrorCodeLLMSchemaMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewService(&fakeLLM{reply: tt.reply}, Options{}).Analyze(context.Background(), "resume", "job")
			var upstream *UpstreamError
			if !errors.As(err, &upstream) || !errors.Is(err, tt.kind) {
				t.Fatalf("expected %v, got %v", tt.kind, err)
			}
			if upstream.Code() != tt.code {
				t.Fatalf("code = %q, want %q", upstream.Code(), tt.code)
			}
		})
	}
}

func TestAnalyzeWellFormedButWrongShapeIsSanitized(t *testing.T) {
	got, err := NewService(&fakeLLM{reply: `{"matchScore": "ninety", "missingSkills": {"skill": "Go"}}`}, Options{}).
		Analyze(context.Background(), "resume", "job")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if got.MatchScore != 0 || len(got.MissingSkills) != 0 {
		t.Fatalf("unexpected result %+v", got)
	}
}

func TestAnalyzeTimeoutIsNotClassified(t *testing.T) {
	svc := NewService(&fakeLLM{block: true}, Options{Timeout: 10 * time.Millisecond})
	_, err := svc.Analyze(context.Background(), "resume", "job")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		t.Fatalf("context errors must not be wrapped as upstream failures")
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := map[string]string{
		`{"a":1}`:               `{"a":1}`,
		"```json\n{\"a\":1}\n```": `{"a":1}`,
		"```\n{\"a\":1}\n```":     `{"a":1}`,
		"```json{\"a\":1}```":     `{"a":1}`,
		"  \n":                    "",
	}
	for in, want := range tests {
		if got := stripCodeFence(in); got != want {
			t.Fatalf("stripCodeFence(%q) = %q, want %q", in, got, want)
		}
	}
}
