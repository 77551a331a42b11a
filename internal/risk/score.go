package risk

import "github.com/Felici4no/RedeSentinela/pkg/models"

// Base scores per declared severity. A located HIGH report with a long
// description lands exactly on the 100 cap.
const (
	baseLow    = 30
	baseMedium = 60
	baseHigh   = 90

	locationBonus    = 5
	descriptionBonus = 5

	// LongDescriptionLen is the exclusive threshold above which a
	// description earns the detail bonus.
	LongDescriptionLen = 100

	maxScore = 100
)

// Score computes the 0-100 risk score of a submission. It is pure and total:
// unknown severities score as if LOW. The result is persisted once at
// creation time and never recomputed, even when the severity is later
// overridden during validation.
func Score(severity models.Severity, hasLocation bool, descriptionLen int) int {
	var score int
	switch severity {
	case models.SeverityHigh:
		score = baseHigh
	case models.SeverityMedium:
		score = baseMedium
	default:
		score = baseLow
	}

	if hasLocation {
		score += locationBonus
	}
	if descriptionLen > LongDescriptionLen {
		score += descriptionBonus
	}

	return min(score, maxScore)
}
