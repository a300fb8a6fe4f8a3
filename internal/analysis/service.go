package analysis

import (
	"context"
	"errors"
	"strings"
	"time"

	"resume-fit/internal/llm"
	"resume-fit/internal/shared/metrics"
	"resume-fit/internal/shared/telemetry"
)

// Options configures a Service.
type Options struct {
	// Provider is the display name used in user-facing errors, e.g. "Gemini".
	Provider string
	// Timeout bounds one model call. Zero means no extra deadline.
	Timeout time.Duration
}

// Service runs resume-vs-job analyses against an LLM.
type Service struct {
	client   llm.Client
	provider string
	timeout  time.Duration
}

// NewService constructs a Service.
func NewService(client llm.Client, opts Options) *Service {
	provider := strings.TrimSpace(opts.Provider)
	if provider == "" {
		provider = "LLM"
	}
	return &Service{client: client, provider: provider, timeout: opts.Timeout}
}

// Analyze validates the inputs, asks the model for a structured analysis and
// sanitizes the answer. It makes exactly one model call and never retries.
func (s *Service) Analyze(ctx context.Context, resumeText, jobDescription string) (AnalysisResult, error) {
	if err := validateInputs(resumeText, jobDescription); err != nil {
		metrics.IncAnalysisFailed("validation")
		return AnalysisResult{}, err
	}

	metrics.IncAnalysisStarted()
	started := time.Now()
	req := llm.AnalysisRequest(resumeText, jobDescription)

	result, err := s.run(ctx, req)
	elapsed := float64(time.Since(started).Microseconds()) / 1000.0
	metrics.ObserveAnalysisDurationMs(elapsed)

	fields := map[string]any{
		"provider":      s.provider,
		"prompt_sha256": req.Hash(),
		"resume_chars":  len(resumeText),
		"job_chars":     len(jobDescription),
		"duration_ms":   elapsed,
	}
	if err != nil {
		fields["err"] = err
		metrics.IncAnalysisFailed(failureReason(err))
		telemetry.Error("analysis.failed", fields)
		return AnalysisResult{}, err
	}

	fields["match_score"] = result.MatchScore
	fields["missing_skills"] = len(result.MissingSkills)
	metrics.IncAnalysisCompleted()
	telemetry.Info("analysis.complete", fields)
	return result, nil
}

func (s *Service) run(ctx context.Context, req llm.Request) (AnalysisResult, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	raw, err := s.client.Generate(ctx, req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return AnalysisResult{}, err
		}
		return AnalysisResult{}, &UpstreamError{Kind: classify(err), Provider: s.provider, Cause: err}
	}

	body := stripCodeFence(raw)
	if body == "" {
		return AnalysisResult{}, &UpstreamError{Kind: ErrEmptyModelResponse, Provider: s.provider}
	}
	decoded, err := DecodeUntrusted([]byte(body))
	if err != nil {
		telemetry.Warn("analysis.malformed_response", map[string]any{
			"provider": s.provider,
			"err":      err,
			"preview":  telemetry.Truncate(body, 200),
		})
		return AnalysisResult{}, &UpstreamError{Kind: ErrMalformedResponse, Provider: s.provider, Cause: err}
	}
	return Sanitize(decoded), nil
}

func validateInputs(resumeText, jobDescription string) error {
	var fields []FieldError
	if strings.TrimSpace(resumeText) == "" {
		fields = append(fields, FieldError{Field: "resumeText", Message: "Resume text is required"})
	}
	if strings.TrimSpace(jobDescription) == "" {
		fields = append(fields, FieldError{Field: "jobDescription", Message: "Job description is required"})
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// stripCodeFence removes a surrounding ``` or ```json fence some models add
// despite the JSON response mode.
func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func failureReason(err error) string {
	var upstream *UpstreamError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.As(err, &upstream):
		return upstream.Code()
	default:
		return "failed"
	}
}
