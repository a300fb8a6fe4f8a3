package analysis

// Priority ranks a missing skill or a suggestion.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Category classifies a missing skill.
type Category string

const (
	CategoryTechnical Category = "technical"
	CategorySoft      Category = "soft"
)

// MissingSkill is a job requirement not evidenced in the resume.
type MissingSkill struct {
	Skill    string   `json:"skill"`
	Priority Priority `json:"priority"`
	Category Category `json:"category"`
}

// OptimizedResume holds the rewritten resume sections.
type OptimizedResume struct {
	Summary        string `json:"summary"`
	Skills         string `json:"skills"`
	Experience     string `json:"experience"`
	Education      string `json:"education"`
	Certifications string `json:"certifications"`
}

// Suggestion is one actionable improvement.
type Suggestion struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
}

// AnalysisResult is the validated fit analysis returned to clients. Scores
// are integers in [0, 100] and slices are never nil.
type AnalysisResult struct {
	MatchScore      int             `json:"matchScore"`
	SkillsMatch     int             `json:"skillsMatch"`
	ExperienceMatch int             `json:"experienceMatch"`
	MissingSkills   []MissingSkill  `json:"missingSkills"`
	OptimizedResume OptimizedResume `json:"optimizedResume"`
	Suggestions     []Suggestion    `json:"suggestions"`
}
