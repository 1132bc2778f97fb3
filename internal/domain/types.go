// Package domain contains the core business entities for oral cancer risk
// screening: symptom profiles, canonical assessments, and the activity
// history records derived from them.
package domain

import "strings"

// RiskTier is the coarse risk classification shared by the local scoring
// engine and the remote classifier. Every score or probability deterministically
// maps to exactly one tier.
type RiskTier string

const (
	TierVeryLow  RiskTier = "VERY_LOW"
	TierLow      RiskTier = "LOW"
	TierModerate RiskTier = "MODERATE"
	TierHigh     RiskTier = "HIGH"
	// TierUnknown is a valid terminal value for remote payloads whose risk
	// label matches none of the recognized spellings. It is not an error.
	TierUnknown RiskTier = "UNKNOWN"
)

// AssessmentSource records which component produced an assessment.
type AssessmentSource string

const (
	SourceRemote AssessmentSource = "REMOTE"
	SourceLocal  AssessmentSource = "LOCAL"
)

// Gender follows the enumeration used by the screening questionnaire.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// ActivityType categorizes durable activity records.
type ActivityType string

const (
	ActivitySymptoms ActivityType = "symptoms"
	ActivityUpload   ActivityType = "upload"
	ActivityOther    ActivityType = "other"
)

// Point thresholds for the engine-native (unbounded) score scale.
const (
	pointsHigh     = 150
	pointsModerate = 80
	pointsLow      = 40
)

// Percentage thresholds for scores on a 0-100 scale.
const (
	percentHigh     = 80
	percentModerate = 40
	percentLow      = 10
)

// IsValid reports whether the tier is one of the recognized values.
func (t RiskTier) IsValid() bool {
	switch t {
	case TierVeryLow, TierLow, TierModerate, TierHigh, TierUnknown:
		return true
	default:
		return false
	}
}

// String returns the string representation of the tier.
func (t RiskTier) String() string {
	return string(t)
}

// DisplayLabel returns the human-readable label used in activity records,
// matching the labels the remote classifier emits.
func (t RiskTier) DisplayLabel() string {
	switch t {
	case TierHigh:
		return "High Risk"
	case TierModerate:
		return "Moderate Risk"
	case TierLow:
		return "Low Risk"
	case TierVeryLow:
		return "Very Low Risk"
	default:
		return "Unknown"
	}
}

// IsValid reports whether the gender is one of the recognized values.
func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	default:
		return false
	}
}

// IsValid reports whether the activity type is one of the recognized values.
func (a ActivityType) IsValid() bool {
	switch a {
	case ActivitySymptoms, ActivityUpload, ActivityOther:
		return true
	default:
		return false
	}
}

// TierFromPoints maps an engine-native point total to a tier using the
// absolute thresholds of the scoring rule set. The total is unbounded above.
func TierFromPoints(points int) RiskTier {
	switch {
	case points >= pointsHigh:
		return TierHigh
	case points >= pointsModerate:
		return TierModerate
	case points >= pointsLow:
		return TierLow
	default:
		return TierVeryLow
	}
}

// TierFromPercent maps a 0-100 score to a tier.
func TierFromPercent(percent int) RiskTier {
	switch {
	case percent >= percentHigh:
		return TierHigh
	case percent >= percentModerate:
		return TierModerate
	case percent >= percentLow:
		return TierLow
	default:
		return TierVeryLow
	}
}

// ParseTierLabel normalizes a free-form risk label ("Medium Risk",
// "moderate", "VERY LOW") to a canonical tier. Matching is case-insensitive
// and substring-based; "very low" is checked before plain "low" so both
// spellings resolve correctly. Unrecognized labels yield TierUnknown.
func ParseTierLabel(label string) RiskTier {
	l := strings.ToLower(strings.TrimSpace(label))
	switch {
	case l == "":
		return TierUnknown
	case strings.Contains(l, "high"):
		return TierHigh
	case strings.Contains(l, "moder"), strings.Contains(l, "medium"):
		return TierModerate
	case strings.Contains(l, "very low"):
		return TierVeryLow
	case strings.Contains(l, "low"):
		return TierLow
	default:
		return TierUnknown
	}
}

// PlaceholderScore returns the canonical 0-100 placeholder used when a remote
// payload carries only a risk label, so that score is always populated for
// display. TierUnknown has no meaningful placeholder and maps to zero.
func (t RiskTier) PlaceholderScore() int {
	switch t {
	case TierHigh:
		return 85
	case TierModerate:
		return 55
	case TierLow:
		return 25
	case TierVeryLow:
		return 10
	default:
		return 0
	}
}
