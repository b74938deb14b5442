package types

// Mode selects how aggressively the engine uses the generative model.
type Mode string

const (
	ModeSpeed   Mode = "speed"
	ModeQuality Mode = "quality"
	ModeHybrid  Mode = "hybrid"
)

// Method records which strategy produced a collected value.
type Method string

const (
	MethodDeterministic Method = "deterministic"
	MethodGenerative    Method = "generative"
)

// CollectedValue is the typed result of extracting one field from a user
// reply. Notes are append-only; the value itself is frozen once the session
// advances past annotation.
type CollectedValue struct {
	Value      any      `json:"value"`
	Raw        string   `json:"raw"`
	Confidence float64  `json:"confidence"`
	Method     Method   `json:"extraction_method"`
	Notes      []string `json:"notes,omitempty"`
}

// AppendNotes adds notes without ever replacing existing ones.
func (c *CollectedValue) AppendNotes(notes ...string) {
	for _, n := range notes {
		if n != "" {
			c.Notes = append(c.Notes, n)
		}
	}
}

// ValidationResult is the outcome of checking one value against its field
// rules. Validation failures are values, never errors.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}
