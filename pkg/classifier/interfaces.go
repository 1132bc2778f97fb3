// Package classifier provides the HTTP client for the remote cancer-risk
// classification API, plus a resilient wrapper adding a circuit breaker and
// an in-process response memo.
package classifier

import (
	"context"

	"github.com/echohealth-screening-server/internal/domain"
)

// RemoteClassifier is the narrow interface the orchestrator consumes.
type RemoteClassifier interface {
	// Classify submits a symptom profile for remote risk classification.
	// token is an optional bearer credential; pass "" for anonymous calls.
	Classify(ctx context.Context, profile *domain.SymptomProfile, token string) (*Response, error)
}

// Response is the heterogeneous remote payload. Any subset of the
// score-bearing fields may be present; the normalizer reconciles them.
type Response struct {
	ID                   *int     `json:"id,omitempty"`
	RiskScore            *int     `json:"risk_score,omitempty"`
	RiskLevel            *string  `json:"risk_level,omitempty"`
	Probability          *float64 `json:"probability,omitempty"`
	PredictionPercentage *float64 `json:"prediction_percentage,omitempty"`
	Recommendations      []string `json:"recommendations,omitempty"`
	WarningSigns         []string `json:"warning_signs,omitempty"`
	NextSteps            []string `json:"next_steps,omitempty"`
	Message              string   `json:"message,omitempty"`
	Mode                 string   `json:"mode,omitempty"`
	CreatedAt            string   `json:"created_at,omitempty"`
}
