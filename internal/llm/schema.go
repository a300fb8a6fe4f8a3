package llm

// Type is a JSON schema type name.
type Type string

const (
	TypeObject  Type = "object"
	TypeArray   Type = "array"
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeInteger Type = "integer"
	TypeBoolean Type = "boolean"
)

// Schema is the subset of JSON schema both providers accept for structured
// output. Providers convert it to their own representation.
type Schema struct {
	Type       Type               `json:"type"`
	Properties map[string]*Schema `json:"properties,omitempty"`
	Items      *Schema            `json:"items,omitempty"`
	Required   []string           `json:"required,omitempty"`
	Enum       []string           `json:"enum,omitempty"`
	Minimum    *float64           `json:"minimum,omitempty"`
	Maximum    *float64           `json:"maximum,omitempty"`
}

func bounded(lo, hi float64) *Schema {
	return &Schema{Type: TypeNumber, Minimum: &lo, Maximum: &hi}
}

func str() *Schema { return &Schema{Type: TypeString} }

func enum(values ...string) *Schema { return &Schema{Type: TypeString, Enum: values} }

// AnalysisSchema describes the analysis result the model must return.
func AnalysisSchema() *Schema {
	return &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			"matchScore":      bounded(0, 100),
			"skillsMatch":     bounded(0, 100),
			"experienceMatch": bounded(0, 100),
			"missingSkills": {
				Type: TypeArray,
				Items: &Schema{
					Type: TypeObject,
					Properties: map[string]*Schema{
						"skill":    str(),
						"priority": enum("high", "medium", "low"),
						"category": enum("technical", "soft"),
					},
					Required: []string{"skill", "priority", "category"},
				},
			},
			"optimizedResume": {
				Type: TypeObject,
				Properties: map[string]*Schema{
					"summary":        str(),
					"skills":         str(),
					"experience":     str(),
					"education":      str(),
					"certifications": str(),
				},
				Required: []string{"summary", "skills", "experience"},
			},
			"suggestions": {
				Type: TypeArray,
				Items: &Schema{
					Type: TypeObject,
					Properties: map[string]*Schema{
						"title":       str(),
						"description": str(),
						"priority":    enum("high", "medium", "low"),
					},
					Required: []string{"title", "description", "priority"},
				},
			},
		},
		Required: []string{"matchScore", "skillsMatch", "experienceMatch", "missingSkills", "optimizedResume", "suggestions"},
	}
}
