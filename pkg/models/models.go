package models

// Domain models matching the database schema in db/migrations/0001_init.sql

// Severity is the declared risk level of a report.
type Severity string

const (
	SeverityLow    Severity = "LOW"
	SeverityMedium Severity = "MEDIUM"
	SeverityHigh   Severity = "HIGH"
)

// Valid reports whether s is one of the three known severities.
func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return true
	}
	return false
}

// ReportStatus is the lifecycle state of a report. PENDING is the only
// non-terminal state.
type ReportStatus string

const (
	StatusPending   ReportStatus = "PENDING"
	StatusValidated ReportStatus = "VALIDATED"
	StatusRejected  ReportStatus = "REJECTED"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Tier is a certificate achievement level.
type Tier string

const (
	TierBronze  Tier = "BRONZE"
	TierSilver  Tier = "SILVER"
	TierGold    Tier = "GOLD"
	TierDiamond Tier = "DIAMOND"
)

func (t Tier) Valid() bool {
	switch t {
	case TierBronze, TierSilver, TierGold, TierDiamond:
		return true
	}
	return false
}

// Report is a single citizen-submitted hazard observation. The risk score is
// computed once at creation and never recomputed; lat/lng are either both set
// or both nil. Timestamps are unix milliseconds UTC.
type Report struct {
	ID               string       `json:"id" db:"id"`
	UserID           string       `json:"user_id" db:"user_id"`
	Type             string       `json:"type" db:"type"`
	Severity         Severity     `json:"severity" db:"severity"`
	RiskScore        int          `json:"risk_score" db:"risk_score"`
	Status           ReportStatus `json:"status" db:"status"`
	Lat              *float64     `json:"lat,omitempty" db:"lat"`
	Lng              *float64     `json:"lng,omitempty" db:"lng"`
	AddressText      string       `json:"address_text,omitempty" db:"address_text"`
	Description      string       `json:"description" db:"description"`
	PhotoURL         string       `json:"photo_url,omitempty" db:"photo_url"`
	AIClassification string       `json:"ai_classification,omitempty" db:"ai_classification"`
	CreatedAt        int64        `json:"created_at" db:"created_at"`
	ValidatedAt      *int64       `json:"validated_at,omitempty" db:"validated_at"`
	ValidatedBy      *string      `json:"validated_by,omitempty" db:"validated_by"`
}

// HasLocation reports whether both coordinates were captured.
func (r *Report) HasLocation() bool {
	return r.Lat != nil && r.Lng != nil
}

// Profile is a citizen or administrator account. Points only ever increase,
// through validation events.
type Profile struct {
	ID           string `json:"id" db:"id"`
	Name         string `json:"name" db:"name"`
	Email        string `json:"email" db:"email"`
	Role         Role   `json:"role" db:"role"`
	Points       int64  `json:"points" db:"points"`
	PasswordHash string `json:"-" db:"password_hash"`
	Created      int64  `json:"created" db:"created"`
	Updated      int64  `json:"updated" db:"updated"`
}

// Certificate is a derived achievement record, at most one per (user, tier).
type Certificate struct {
	ID         int64  `json:"id" db:"id"`
	UserID     string `json:"user_id" db:"user_id"`
	Tier       Tier   `json:"tier" db:"tier"`
	VerifyCode string `json:"verify_code" db:"verify_code"`
	IssuedAt   int64  `json:"issued_at" db:"issued_at"`
}

// HazardTypes is the closed set of accepted hazard types. The strings are
// load-bearing: classification lookups and stored records depend on them.
var HazardTypes = []string{
	"Construção civil",
	"Máquinas agrícolas",
	"Poda",
	"Pipa",
	"Cabo no solo",
	"Poste danificado",
	"Veículos altos",
	"Outro",
}

// KnownHazardType reports whether t belongs to the closed hazard set.
func KnownHazardType(t string) bool {
	for _, h := range HazardTypes {
		if h == t {
			return true
		}
	}
	return false
}
