package domain

import "time"

// Assessment is the canonical result produced by either the local scoring
// engine or the remote classifier. The rest of the system consumes this
// shape identically regardless of source.
type Assessment struct {
	// Score is on a 0-100 scale when derived from a remote probability or
	// percentage, or the engine-native point total for local results.
	Score int      `json:"score"`
	Tier  RiskTier `json:"tier"`

	// Probability is set only when a remote source supplied one.
	Probability *float64 `json:"probability,omitempty"`

	Recommendations []string `json:"recommendations"`
	WarningSigns    []string `json:"warning_signs"`
	NextSteps       []string `json:"next_steps"`

	Source    AssessmentSource `json:"source"`
	CreatedAt time.Time        `json:"created_at"`
}

// ActivityRecord is a durable history entry. Only IsLiked is mutable after
// creation; records are never deleted individually, only bulk-cleared.
type ActivityRecord struct {
	ID              int64        `json:"id"`
	Title           string       `json:"title"`
	Description     string       `json:"description"`
	TimestampMillis int64        `json:"timestamp_millis"`
	Type            ActivityType `json:"type,omitempty"`
	RiskLevel       *string      `json:"risk_level,omitempty"`
	RiskScore       *int         `json:"risk_score,omitempty"`
	RiskPercent     *int         `json:"risk_percent,omitempty"`
	IsLiked         bool         `json:"is_liked"`
}

// RecentActivity is the lightweight cache-tier twin of ActivityRecord. It is
// not authoritative: the durable store remains the source of truth and the
// cache may be dropped or rebuilt without data loss.
type RecentActivity struct {
	Title           string       `json:"title"`
	Description     string       `json:"description"`
	TimestampMillis int64        `json:"ts"`
	Type            ActivityType `json:"type,omitempty"`
	RiskLevel       *string      `json:"riskLevel,omitempty"`
	RiskScore       *int         `json:"riskScore,omitempty"`
	RiskPercent     *int         `json:"riskPercent,omitempty"`
}

// RecentFromRecord projects a durable record into its cache-tier twin.
func RecentFromRecord(r ActivityRecord) RecentActivity {
	return RecentActivity{
		Title:           r.Title,
		Description:     r.Description,
		TimestampMillis: r.TimestampMillis,
		Type:            r.Type,
		RiskLevel:       r.RiskLevel,
		RiskScore:       r.RiskScore,
		RiskPercent:     r.RiskPercent,
	}
}
