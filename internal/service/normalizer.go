package service

import (
	"fmt"
	"math"
	"time"

	"github.com/echohealth-screening-server/internal/domain"
	"github.com/echohealth-screening-server/pkg/classifier"
)

// Normalizer reconciles the heterogeneous remote response shapes into the
// canonical assessment. It is pure: all I/O and decoding happens in the
// classifier client.
type Normalizer struct{}

// NewNormalizer creates a new result normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize maps a remote payload to a canonical assessment with
// Source=Remote. Precedence, first match wins:
//
//  1. explicit risk_score (risk_level verbatim when present, else derived)
//  2. probability in [0,1], score = round(probability*100)
//  3. prediction_percentage in [0,100], score = round(percentage)
//  4. risk_level label only, score from the tier placeholder
//
// A payload with none of the four score-bearing fields fails with
// ErrMalformedResponse.
func (n *Normalizer) Normalize(resp *classifier.Response) (*domain.Assessment, error) {
	if resp == nil {
		return nil, fmt.Errorf("normalize: %w", domain.ErrMalformedResponse)
	}

	a := &domain.Assessment{
		Recommendations: stringsOrEmpty(resp.Recommendations),
		WarningSigns:    stringsOrEmpty(resp.WarningSigns),
		NextSteps:       stringsOrEmpty(resp.NextSteps),
		Source:          domain.SourceRemote,
		CreatedAt:       time.Now().UTC(),
	}

	switch {
	case resp.RiskScore != nil:
		a.Score = *resp.RiskScore
		if resp.RiskLevel != nil {
			a.Tier = domain.ParseTierLabel(*resp.RiskLevel)
		} else {
			a.Tier = domain.TierFromPercent(a.Score)
		}

	case resp.Probability != nil:
		p := clamp01(*resp.Probability)
		a.Score = int(math.Round(p * 100))
		a.Tier = domain.TierFromPercent(a.Score)
		a.Probability = &p

	case resp.PredictionPercentage != nil:
		pct := clampPercent(*resp.PredictionPercentage)
		a.Score = int(math.Round(pct))
		a.Tier = domain.TierFromPercent(a.Score)
		p := pct / 100
		a.Probability = &p

	case resp.RiskLevel != nil:
		a.Tier = domain.ParseTierLabel(*resp.RiskLevel)
		a.Score = a.Tier.PlaceholderScore()

	default:
		return nil, fmt.Errorf("normalize: %w", domain.ErrMalformedResponse)
	}

	return a, nil
}

func clamp01(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}

func clampPercent(v float64) float64 {
	return math.Min(math.Max(v, 0), 100)
}

func stringsOrEmpty(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
