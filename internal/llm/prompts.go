package llm

import (
	_ "embed"
	"strings"
)

var (
	//go:embed prompts/analysis_system.txt
	analysisSystemPrompt string
	//go:embed prompts/analysis_user.txt
	analysisUserPrompt string
)

// AnalysisTemperature keeps scoring stable between runs.
const AnalysisTemperature = 0.3

// AnalysisRequest builds the fixed resume-vs-job request. Inputs are inserted
// verbatim.
func AnalysisRequest(resumeText, jobDescription string) Request {
	replacer := strings.NewReplacer(
		"{{RESUME_TEXT}}", resumeText,
		"{{JOB_DESCRIPTION}}", jobDescription,
	)
	return Request{
		System:      strings.TrimSpace(analysisSystemPrompt),
		Prompt:      replacer.Replace(analysisUserPrompt),
		Schema:      AnalysisSchema(),
		Temperature: AnalysisTemperature,
	}
}
