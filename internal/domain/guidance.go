package domain

// Guidance lists are fixed per tier rather than derived from which individual
// risk factors fired. This mirrors the behavior of the questionnaire the rule
// set was audited against.

var tierRecommendations = map[RiskTier][]string{
	TierHigh: {
		"Immediate medical consultation recommended",
		"Schedule an appointment with an oral specialist",
		"Consider biopsy for suspicious lesions",
		"Stop tobacco and alcohol use immediately",
		"Regular monitoring every 3 months",
	},
	TierModerate: {
		"Schedule a dental checkup within 2 weeks",
		"Consider specialist consultation",
		"Reduce or eliminate tobacco/alcohol use",
		"Improve oral hygiene practices",
		"Monitor symptoms closely",
	},
	TierLow: {
		"Regular dental checkups every 6 months",
		"Maintain good oral hygiene",
		"Limit alcohol consumption",
		"Avoid tobacco products",
		"Monitor for new symptoms",
	},
	TierVeryLow: {
		"Continue regular dental checkups",
		"Maintain good oral hygiene",
		"Avoid tobacco and excessive alcohol",
		"Stay informed about oral health",
		"Report any new symptoms promptly",
	},
}

var tierWarningSigns = map[RiskTier][]string{
	TierHigh: {
		"Persistent mouth sores that do not heal",
		"Unexplained bleeding in the mouth",
		"Lumps or thickening in cheek or neck",
		"Difficulty or pain when swallowing",
		"Numbness of the tongue or mouth",
	},
	TierModerate: {
		"Sores lasting longer than two weeks",
		"Red or white patches in the mouth",
		"Persistent sore throat or hoarseness",
		"Loose teeth without dental cause",
		"Pain or difficulty moving the jaw",
	},
	TierLow: {
		"New or changing mouth sores",
		"Patches that change color or size",
		"Persistent bad breath despite hygiene",
		"Mild discomfort when chewing",
		"Swelling that does not subside",
	},
	TierVeryLow: {
		"Any sore that does not heal in two weeks",
		"Unexplained color changes in the mouth",
		"New lumps in the mouth or neck",
		"Persistent ear pain without infection",
		"Sudden changes in voice",
	},
}

var tierNextSteps = map[RiskTier][]string{
	TierHigh: {
		"Book a specialist appointment this week",
		"Bring this assessment to your consultation",
		"Arrange follow-up screening in 3 months",
	},
	TierModerate: {
		"Book a dental checkup within 2 weeks",
		"Track symptoms daily until reviewed",
		"Re-run the assessment after lifestyle changes",
	},
	TierLow: {
		"Keep your 6-month dental checkup schedule",
		"Re-run the assessment if symptoms appear",
		"Review risk factors with your dentist",
	},
	TierVeryLow: {
		"Keep routine dental visits",
		"Re-run the assessment yearly",
		"Report new symptoms promptly",
	},
}

// RecommendationsForTier returns the fixed recommendation list for a tier.
// TierUnknown falls back to the very-low list so displays are never empty.
func RecommendationsForTier(t RiskTier) []string {
	if items, ok := tierRecommendations[t]; ok {
		return append([]string(nil), items...)
	}
	return append([]string(nil), tierRecommendations[TierVeryLow]...)
}

// WarningSignsForTier returns the fixed warning-sign list for a tier.
func WarningSignsForTier(t RiskTier) []string {
	if items, ok := tierWarningSigns[t]; ok {
		return append([]string(nil), items...)
	}
	return append([]string(nil), tierWarningSigns[TierVeryLow]...)
}

// NextStepsForTier returns the fixed next-step list for a tier.
func NextStepsForTier(t RiskTier) []string {
	if items, ok := tierNextSteps[t]; ok {
		return append([]string(nil), items...)
	}
	return append([]string(nil), tierNextSteps[TierVeryLow]...)
}
