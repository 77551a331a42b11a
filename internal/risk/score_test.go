package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Felici4no/RedeSentinela/pkg/models"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name     string
		severity models.Severity
		hasLoc   bool
		descLen  int
		want     int
	}{
		{"low bare", models.SeverityLow, false, 10, 30},
		{"low with location", models.SeverityLow, true, 10, 35},
		{"low with long description", models.SeverityLow, false, 101, 35},
		{"medium bare", models.SeverityMedium, false, 0, 60},
		{"medium full", models.SeverityMedium, true, 150, 70},
		{"high bare", models.SeverityHigh, false, 0, 90},
		{"high with location", models.SeverityHigh, true, 100, 95},
		{"high capped at 100", models.SeverityHigh, true, 101, 100},
		{"description at threshold earns no bonus", models.SeverityLow, false, 100, 30},
		{"unknown severity scores as low", models.Severity("URGENT"), true, 0, 35},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.severity, tt.hasLoc, tt.descLen))
		})
	}
}

func TestScoreBounds(t *testing.T) {
	severities := []models.Severity{models.SeverityLow, models.SeverityMedium, models.SeverityHigh, ""}
	for _, s := range severities {
		for _, loc := range []bool{true, false} {
			for _, l := range []int{0, 50, 100, 101, 10000} {
				got := Score(s, loc, l)
				assert.GreaterOrEqual(t, got, 0, "severity=%s loc=%v len=%d", s, loc, l)
				assert.LessOrEqual(t, got, 100, "severity=%s loc=%v len=%d", s, loc, l)
			}
		}
	}
}
