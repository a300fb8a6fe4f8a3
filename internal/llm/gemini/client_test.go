package gemini

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/genai"

	"resume-fit/internal/llm"
)

type fakeModels struct {
	model  string
	config *genai.GenerateContentConfig
	prompt string
	resp   *genai.GenerateContentResponse
	err    error
}

func (f *fakeModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.config = config
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.prompt = contents[0].Parts[0].Text
	}
	return f.resp, f.err
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Role: "model", Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func TestGenerateSendsStructuredOutputConfig(t *testing.T) {
	fake := &fakeModels{resp: textResponse(" {\"matchScore\": 80} ")}
	client := newWithModels(fake, "")

	req := llm.AnalysisRequest("resume text", "job text")
	got, err := client.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got != `{"matchScore": 80}` {
		t.Fatalf("unexpected text %q", got)
	}
	if fake.model != defaultModel {
		t.Fatalf("expected default model, got %q", fake.model)
	}
	if fake.prompt != req.Prompt {
		t.Fatalf("prompt not forwarded")
	}
	cfg := fake.config
	if cfg.ResponseMIMEType != "application/json" {
		t.Fatalf("unexpected mime %q", cfg.ResponseMIMEType)
	}
	if cfg.Temperature == nil || *cfg.Temperature != float32(0.3) {
		t.Fatalf("unexpected temperature %v", cfg.Temperature)
	}
	if cfg.SystemInstruction == nil || cfg.SystemInstruction.Parts[0].Text != req.System {
		t.Fatalf("system instruction not forwarded")
	}
	schema := cfg.ResponseSchema
	if schema == nil || schema.Type != genai.TypeObject {
		t.Fatalf("expected object schema, got %+v", schema)
	}
	score := schema.Properties["matchScore"]
	if score.Type != genai.TypeNumber || score.Minimum == nil || *score.Maximum != 100 {
		t.Fatalf("unexpected score schema %+v", score)
	}
	priority := schema.Properties["suggestions"].Items.Properties["priority"]
	if len(priority.Enum) != 3 || priority.Format != "enum" {
		t.Fatalf("unexpected priority schema %+v", priority)
	}
}

func TestGenerateEmptyResponse(t *testing.T) {
	for name, resp := range map[string]*genai.GenerateContentResponse{
		"nil response":  nil,
		"no candidates": {},
		"blank text":    textResponse("   "),
	} {
		t.Run(name, func(t *testing.T) {
			got, err := newWithModels(&fakeModels{resp: resp}, "gemini-2.5-flash").Generate(context.Background(), llm.Request{Prompt: "p"})
			if err != nil {
				t.Fatalf("generate: %v", err)
			}
			if got != "" {
				t.Fatalf("expected empty text, got %q", got)
			}
		})
	}
}

func TestGeneratePropagatesUpstreamMessage(t *testing.T) {
	fake := &fakeModels{err: errors.New("Error 429, Message: Resource has been exhausted (e.g. check quota).")}
	_, err := newWithModels(fake, "").Generate(context.Background(), llm.Request{Prompt: "p"})
	if err == nil || !errors.Is(err, fake.err) {
		t.Fatalf("expected wrapped upstream error, got %v", err)
	}
}

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := New(context.Background(), "  ", ""); !errors.Is(err, llm.ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}
