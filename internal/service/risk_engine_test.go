package service

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echohealth-screening-server/internal/domain"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestRiskEngineScore(t *testing.T) {
	engine := NewRiskEngine(testLogger())

	tests := []struct {
		name       string
		profile    domain.SymptomProfile
		wantPoints int
		wantTier   domain.RiskTier
	}{
		{
			name:       "Young female no factors",
			profile:    domain.SymptomProfile{Age: 25, Gender: domain.GenderFemale},
			wantPoints: 5,
			wantTier:   domain.TierVeryLow,
		},
		{
			name: "Male 45 tobacco alcohol",
			profile: domain.SymptomProfile{
				Age:                45,
				Gender:             domain.GenderMale,
				TobaccoUse:         true,
				AlcoholConsumption: true,
			},
			wantPoints: 70,
			wantTier:   domain.TierLow,
		},
		{
			name: "Other gender HPV and hygiene",
			profile: domain.SymptomProfile{
				Age:             39,
				Gender:          domain.GenderOther,
				HPVInfection:    true,
				PoorOralHygiene: true,
			},
			wantPoints: 47,
			wantTier:   domain.TierLow,
		},
		{
			name: "Low from mixed factors",
			profile: domain.SymptomProfile{
				Age:             30,
				Gender:          domain.GenderFemale,
				OralLesions:     true,
				BetelQuidUse:    true,
				PoorOralHygiene: true,
			},
			wantPoints: 75,
			wantTier:   domain.TierLow,
		},
		{
			name: "High from prior diagnosis and bleeding",
			profile: domain.SymptomProfile{
				Age:                 62,
				Gender:              domain.GenderMale,
				UnexplainedBleeding: true,
				WhiteRedPatches:     true,
				PriorDiagnosis:      true,
			},
			wantPoints: 150,
			wantTier:   domain.TierHigh,
		},
		{
			name: "Everything set",
			profile: domain.SymptomProfile{
				Age:                  80,
				Gender:               domain.GenderMale,
				TobaccoUse:           true,
				AlcoholConsumption:   true,
				HPVInfection:         true,
				BetelQuidUse:         true,
				PoorOralHygiene:      true,
				OralLesions:          true,
				UnexplainedBleeding:  true,
				DifficultySwallowing: true,
				WhiteRedPatches:      true,
				PriorDiagnosis:       true,
			},
			wantPoints: 325,
			wantTier:   domain.TierHigh,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := engine.Score(&tt.profile)
			require.NotNil(t, result)
			assert.Equal(t, tt.wantPoints, result.Score)
			assert.Equal(t, tt.wantTier, result.Tier)
			assert.Equal(t, domain.SourceLocal, result.Source)
			assert.Nil(t, result.Probability)
			assert.Len(t, result.Recommendations, 5)
			assert.Len(t, result.WarningSigns, 5)
			assert.NotEmpty(t, result.NextSteps)
			assert.False(t, result.CreatedAt.IsZero())
		})
	}
}

func TestRiskEngineDeterministic(t *testing.T) {
	engine := NewRiskEngine(testLogger())
	profile := domain.SymptomProfile{
		Age:          55,
		Gender:       domain.GenderOther,
		TobaccoUse:   true,
		OralLesions:  true,
		BetelQuidUse: true,
	}

	first := engine.Score(&profile)
	for i := 0; i < 10; i++ {
		again := engine.Score(&profile)
		assert.Equal(t, first.Score, again.Score)
		assert.Equal(t, first.Tier, again.Tier)
		assert.Equal(t, first.Recommendations, again.Recommendations)
	}
}
