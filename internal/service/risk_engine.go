// Package service implements the risk-assessment pipeline: the local scoring
// engine, the remote-result normalizer, and the orchestrator that coordinates
// them and persists the outcome.
package service

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/echohealth-screening-server/internal/domain"
)

// Weights of the fixed point-based rule set. The total tops out at 325;
// classification uses absolute point thresholds, not a percentage of the
// maximum.
const (
	pointsAge40Plus      = 15
	pointsGenderMale     = 10
	pointsGenderFemale   = 5
	pointsGenderOther    = 7
	pointsTobacco        = 25
	pointsAlcohol        = 20
	pointsHPV            = 30
	pointsBetelQuid      = 25
	pointsPoorHygiene    = 10
	pointsOralLesions    = 35
	pointsBleeding       = 40
	pointsSwallowing     = 30
	pointsPatches        = 35
	pointsPriorDiagnosis = 50
)

// RiskEngine is the deterministic offline scoring engine. It is the fallback
// authority when the remote classifier is unreachable and must produce the
// same result for the same profile every time.
type RiskEngine struct {
	log *logrus.Logger
}

// NewRiskEngine creates a new scoring engine.
func NewRiskEngine(logger *logrus.Logger) *RiskEngine {
	return &RiskEngine{log: logger}
}

// Score computes a local assessment for a validated profile. It is a total
// function: callers validate profile completeness first, and a well-formed
// profile never fails.
func (e *RiskEngine) Score(profile *domain.SymptomProfile) *domain.Assessment {
	points := e.points(profile)
	tier := domain.TierFromPoints(points)

	e.log.WithFields(logrus.Fields{
		"points": points,
		"tier":   tier,
	}).Debug("Local risk score computed")

	return &domain.Assessment{
		Score:           points,
		Tier:            tier,
		Recommendations: domain.RecommendationsForTier(tier),
		WarningSigns:    domain.WarningSignsForTier(tier),
		NextSteps:       domain.NextStepsForTier(tier),
		Source:          domain.SourceLocal,
		CreatedAt:       time.Now().UTC(),
	}
}

func (e *RiskEngine) points(p *domain.SymptomProfile) int {
	points := 0

	if p.Age >= 40 {
		points += pointsAge40Plus
	}

	switch p.Gender {
	case domain.GenderMale:
		points += pointsGenderMale
	case domain.GenderFemale:
		points += pointsGenderFemale
	case domain.GenderOther:
		points += pointsGenderOther
	}

	if p.TobaccoUse {
		points += pointsTobacco
	}
	if p.AlcoholConsumption {
		points += pointsAlcohol
	}
	if p.HPVInfection {
		points += pointsHPV
	}
	if p.BetelQuidUse {
		points += pointsBetelQuid
	}
	if p.PoorOralHygiene {
		points += pointsPoorHygiene
	}

	// Symptoms carry heavier weights than lifestyle factors.
	if p.OralLesions {
		points += pointsOralLesions
	}
	if p.UnexplainedBleeding {
		points += pointsBleeding
	}
	if p.DifficultySwallowing {
		points += pointsSwallowing
	}
	if p.WhiteRedPatches {
		points += pointsPatches
	}
	if p.PriorDiagnosis {
		points += pointsPriorDiagnosis
	}

	return points
}
