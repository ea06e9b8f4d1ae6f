package progress

import (
	"fmt"
	"strings"

	"github.com/brayner/brayner/internal/domain/document"
)

// Weakness types the analysis model chooses from.
const (
	WeaknessConcept = "Concept confusion"
	WeaknessFormula = "Formula misuse"
	WeaknessSpeed   = "Speed issue"
)

// WeaknessAnalysis is the structured result of a practice analysis.
type WeaknessAnalysis struct {
	WeaknessType string `json:"weaknessType"`
	Suggestion   string `json:"suggestion"`
	Priority     string `json:"priority"`
}

// Validate checks that every field is filled.
func (w WeaknessAnalysis) Validate() error {
	var missing []string
	if strings.TrimSpace(w.WeaknessType) == "" {
		missing = append(missing, "weaknessType")
	}
	if strings.TrimSpace(w.Suggestion) == "" {
		missing = append(missing, "suggestion")
	}
	if strings.TrimSpace(w.Priority) == "" {
		missing = append(missing, "priority")
	}
	if len(missing) > 0 {
		return fmt.Errorf("weakness analysis missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// WeakArea converts the analysis into a stored weak area for subject.
func (w WeaknessAnalysis) WeakArea(subject string) document.WeakArea {
	return document.WeakArea{
		Subject:    subject,
		Issue:      w.WeaknessType,
		Suggestion: w.Suggestion,
	}
}
