package analysis

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"
)

const (
	defaultSkill         = "Unknown Skill"
	defaultSummary       = "Professional summary not available"
	defaultSkills        = "Skills section not available"
	defaultExperience    = "Experience section not available"
	defaultSuggestion    = "Improvement Suggestion"
	defaultDescription   = "No description available"
	defaultPriority      = PriorityMedium
	defaultSkillCategory = CategoryTechnical
)

// Untrusted is a decoded model response that has not been validated. Only
// Sanitize turns it into an AnalysisResult.
type Untrusted struct {
	v any
}

// DecodeUntrusted parses a single JSON value. Numbers keep their literal form
// so out-of-range values can be rejected instead of failing the decode.
func DecodeUntrusted(data []byte) (Untrusted, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return Untrusted{}, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Untrusted{}, errors.New("unexpected data after JSON value")
	}
	return Untrusted{v: v}, nil
}

// UntrustedValue wraps an already decoded value, e.g. from map literals.
func UntrustedValue(v any) Untrusted {
	return Untrusted{v: v}
}

// Sanitize coerces any decoded value into a valid AnalysisResult. It never
// fails: missing or ill-typed fields take documented defaults.
func Sanitize(raw Untrusted) AnalysisResult {
	top := asObject(raw.v)
	resume := asObject(top["optimizedResume"])

	out := AnalysisResult{
		MatchScore:      score(top["matchScore"]),
		SkillsMatch:     score(top["skillsMatch"]),
		ExperienceMatch: score(top["experienceMatch"]),
		MissingSkills:   []MissingSkill{},
		OptimizedResume: OptimizedResume{
			Summary:        text(resume["summary"], defaultSummary),
			Skills:         text(resume["skills"], defaultSkills),
			Experience:     text(resume["experience"], defaultExperience),
			Education:      optionalText(resume["education"]),
			Certifications: optionalText(resume["certifications"]),
		},
		Suggestions: []Suggestion{},
	}

	if items, ok := top["missingSkills"].([]any); ok {
		for _, item := range items {
			obj := asObject(item)
			out.MissingSkills = append(out.MissingSkills, MissingSkill{
				Skill:    text(obj["skill"], defaultSkill),
				Priority: priority(obj["priority"]),
				Category: category(obj["category"]),
			})
		}
	}
	if items, ok := top["suggestions"].([]any); ok {
		for _, item := range items {
			obj := asObject(item)
			out.Suggestions = append(out.Suggestions, Suggestion{
				Title:       text(obj["title"], defaultSuggestion),
				Description: text(obj["description"], defaultDescription),
				Priority:    priority(obj["priority"]),
			})
		}
	}
	return out
}

func asObject(v any) map[string]any {
	if obj, ok := v.(map[string]any); ok {
		return obj
	}
	return nil
}

// score clamps to [0, 100] and rounds half away from zero. Non-numeric and
// non-finite values score 0.
func score(v any) int {
	f, ok := number(v)
	if !ok {
		return 0
	}
	return int(math.Round(math.Max(0, math.Min(100, f))))
}

func number(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case json.Number:
		parsed, err := strconv.ParseFloat(n.String(), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	case float64:
		f = n
	case int:
		f = float64(n)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func text(v any, fallback string) string {
	if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
		return s
	}
	return fallback
}

func optionalText(v any) string {
	s, _ := v.(string)
	return s
}

func priority(v any) Priority {
	s, _ := v.(string)
	switch p := Priority(strings.ToLower(strings.TrimSpace(s))); p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return p
	default:
		return defaultPriority
	}
}

func category(v any) Category {
	s, _ := v.(string)
	switch c := Category(strings.ToLower(strings.TrimSpace(s))); c {
	case CategoryTechnical, CategorySoft:
		return c
	default:
		return defaultSkillCategory
	}
}
