package domain

// SymptomProfile is the immutable input to a risk assessment: demographic
// data plus ten boolean risk and symptom indicators collected by the
// screening questionnaire.
type SymptomProfile struct {
	Age    int    `json:"age"`
	Gender Gender `json:"gender"`

	// Risk factors
	TobaccoUse         bool `json:"tobacco_use"`
	AlcoholConsumption bool `json:"alcohol_consumption"`
	HPVInfection       bool `json:"hpv_infection"`
	BetelQuidUse       bool `json:"betel_quid_use"`
	PoorOralHygiene    bool `json:"poor_oral_hygiene"`

	// Symptoms
	OralLesions          bool `json:"oral_lesions"`
	UnexplainedBleeding  bool `json:"unexplained_bleeding"`
	DifficultySwallowing bool `json:"difficulty_swallowing"`
	WhiteRedPatches      bool `json:"white_red_patches"`
	PriorDiagnosis       bool `json:"prior_diagnosis"`
}

// Validate ensures the profile is complete before it reaches the scoring
// pipeline. Validation failures identify the offending field so the caller
// can prompt for it; the engine itself never sees an invalid profile.
func (p *SymptomProfile) Validate() error {
	if p.Age <= 0 || p.Age > 120 {
		return NewValidationError("age", "age must be between 1 and 120", p.Age)
	}
	if !p.Gender.IsValid() {
		return NewValidationError("gender", "gender must be male, female, or other", string(p.Gender))
	}
	return nil
}
