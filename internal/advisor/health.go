package advisor

import "math/rand"

// HealthAssessment is a placeholder plant-health diagnosis. Confidence is a
// fraction in (0,1].
type HealthAssessment struct {
	Issue      string
	Confidence float64
	Suggestion string
}

// healthOutcomes is the fixed placeholder set until an image-based
// diagnosis model is wired in.
var healthOutcomes = []HealthAssessment{
	{
		Issue:      "Healthy",
		Confidence: 0.95,
		Suggestion: "No action needed.",
	},
	{
		Issue:      "Maize Common Rust",
		Confidence: 0.88,
		Suggestion: "Apply appropriate fungicide like Propiconazole or Mancozeb if infection is moderate to severe, focusing on upper leaves.",
	},
	{
		Issue:      "Tomato Bacterial Spot",
		Confidence: 0.92,
		Suggestion: "Use copper-based bactericides. Remove and destroy infected leaves immediately. Avoid overhead watering.",
	},
	{
		Issue:      "Wheat Powdery Mildew",
		Confidence: 0.85,
		Suggestion: "Apply sulfur-based fungicides or systemic options like Tebuconazole at early signs. Ensure good air circulation.",
	},
}

// HealthAdvisor returns placeholder plant-health assessments.
type HealthAdvisor struct {
	rng *rand.Rand
}

// NewHealthAdvisor creates a health advisor using the given random source.
func NewHealthAdvisor(rng *rand.Rand) *HealthAdvisor {
	return &HealthAdvisor{rng: rng}
}

// Diagnose picks one of the placeholder assessments uniformly.
func (a *HealthAdvisor) Diagnose() HealthAssessment {
	return healthOutcomes[a.rng.Intn(len(healthOutcomes))]
}
