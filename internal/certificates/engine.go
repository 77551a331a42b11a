package certificates

import (
	"fmt"
	"strings"
	"time"

	"github.com/Felici4no/RedeSentinela/pkg/models"
)

// Criteria holds the thresholds for one tier. Counts refer to VALIDATED
// reports only; MaxReports is informational (shown on the certificate), it
// never gates anything.
type Criteria struct {
	MinReports      int
	MaxReports      int
	MinHighSeverity int
}

var criteria = map[models.Tier]Criteria{
	models.TierBronze:  {MinReports: 1, MaxReports: 2},
	models.TierSilver:  {MinReports: 3, MaxReports: 5},
	models.TierGold:    {MinReports: 6, MaxReports: 10, MinHighSeverity: 2},
	models.TierDiamond: {MinReports: 11, MinHighSeverity: 3},
}

// TierOrder lists the tiers from lowest to highest.
var TierOrder = []models.Tier{models.TierBronze, models.TierSilver, models.TierGold, models.TierDiamond}

// CriteriaFor returns the thresholds for a tier.
func CriteriaFor(tier models.Tier) Criteria {
	return criteria[tier]
}

func tally(validated []models.Report) (count, high int) {
	for _, r := range validated {
		if r.Status != models.StatusValidated {
			continue
		}
		count++
		if r.Severity == models.SeverityHigh {
			high++
		}
	}
	return count, high
}

// AchievedTiers returns every tier whose minimums the validated history
// meets. Tiers are checked independently, so a heavy contributor holds all
// four at once.
func AchievedTiers(reports []models.Report) []models.Tier {
	count, high := tally(reports)

	var achieved []models.Tier
	for _, tier := range TierOrder {
		c := criteria[tier]
		if count >= c.MinReports && high >= c.MinHighSeverity {
			achieved = append(achieved, tier)
		}
	}
	return achieved
}

// Achieved reports whether the validated history satisfies a single tier.
func Achieved(tier models.Tier, reports []models.Report) bool {
	count, high := tally(reports)
	c := criteria[tier]
	return count >= c.MinReports && high >= c.MinHighSeverity
}

// Progress is the single-tier dashboard view: the highest satisfied tier,
// the next one to chase, and a 0-100 completion percentage toward it.
type Progress struct {
	Current        models.Tier  `json:"current"`
	Next           *models.Tier `json:"next,omitempty"`
	Percent        float64      `json:"percent"`
	ValidatedCount int          `json:"validated_count"`
	HighSeverity   int          `json:"high_severity_count"`
}

// TierProgress computes the dashboard progress view from a user's reports
// (any status; only VALIDATED ones count). The GOLD→DIAMOND leg reuses
// DIAMOND's report minimum even while the high-severity gate is unmet; that
// matches what contributors have always seen on their progress bars, so it
// stays as-is. DIAMOND is terminal: no next tier, progress pinned to 100.
func TierProgress(reports []models.Report) Progress {
	count, high := tally(reports)

	p := Progress{ValidatedCount: count, HighSeverity: high}

	switch {
	case count >= criteria[models.TierDiamond].MinReports && high >= criteria[models.TierDiamond].MinHighSeverity:
		p.Current = models.TierDiamond
		p.Percent = 100
	case count >= criteria[models.TierGold].MinReports && high >= criteria[models.TierGold].MinHighSeverity:
		p.Current = models.TierGold
		p.Next = tierPtr(models.TierDiamond)
		p.Percent = percentToward(count, criteria[models.TierDiamond].MinReports)
	case count >= criteria[models.TierSilver].MinReports:
		p.Current = models.TierSilver
		p.Next = tierPtr(models.TierGold)
		p.Percent = percentToward(count, criteria[models.TierGold].MinReports)
	case count >= criteria[models.TierBronze].MinReports:
		p.Current = models.TierBronze
		p.Next = tierPtr(models.TierSilver)
		p.Percent = percentToward(count, criteria[models.TierSilver].MinReports)
	default:
		// nothing validated yet: BRONZE is still the displayed rung
		p.Current = models.TierBronze
		p.Next = tierPtr(models.TierBronze)
		p.Percent = percentToward(count, criteria[models.TierBronze].MinReports)
	}

	return p
}

func percentToward(count, minReports int) float64 {
	return min(100*float64(count)/float64(minReports), 100)
}

func tierPtr(t models.Tier) *models.Tier {
	return &t
}

// VerifyCode derives the deterministic verification code for a (user, tier)
// pair: RS-<first 8 chars of the user id, uppercased>-<TIER>. Already-issued
// certificates carry codes in this exact format.
func VerifyCode(userID string, tier models.Tier) string {
	prefix := userID
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	return fmt.Sprintf("RS-%s-%s", strings.ToUpper(prefix), tier)
}

// NewCertificate builds the record persisted on issuance. Issuing the same
// (user, tier) again overwrites the previous code and timestamp upstream.
func NewCertificate(userID string, tier models.Tier, issuedAt time.Time) *models.Certificate {
	return &models.Certificate{
		UserID:     userID,
		Tier:       tier,
		VerifyCode: VerifyCode(userID, tier),
		IssuedAt:   issuedAt.UTC().UnixMilli(),
	}
}
