// Package advisor holds the heuristic advisors: crop suitability, a
// market-price simulator, and a plant-health placeholder. They are context
// enrichers for the model, not agronomy engines; each takes an injected
// random source so callers and tests control variability.
package advisor

import (
	"math/rand"
	"strings"
	"time"
)

const maxCropSuggestions = 3

// CropAdvisor suggests candidate crops from soil type, climate averages,
// and the growing season.
type CropAdvisor struct {
	rng *rand.Rand
}

// NewCropAdvisor creates a crop advisor using the given random source.
func NewCropAdvisor(rng *rand.Rand) *CropAdvisor {
	return &CropAdvisor{rng: rng}
}

// CurrentSeason returns the Indian growing season for a point in time:
// Kharif for June through October, Rabi otherwise.
func CurrentSeason(t time.Time) string {
	m := t.Month()
	if m >= time.June && m <= time.October {
		return "Kharif"
	}
	return "Rabi"
}

// Suggest returns up to three distinct candidate crops. Soil matching is a
// case-insensitive substring test so entries like "Black (Regur)" hit the
// clay/black rules.
func (a *CropAdvisor) Suggest(soil string, avgTemp, avgRain float64, season string) []string {
	candidates := candidateCrops(soil, avgTemp, avgRain, season)

	a.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	seen := make(map[string]struct{}, len(candidates))
	crops := make([]string, 0, maxCropSuggestions)
	for _, crop := range candidates {
		if _, dup := seen[crop]; dup {
			continue
		}
		seen[crop] = struct{}{}
		crops = append(crops, crop)
		if len(crops) == maxCropSuggestions {
			break
		}
	}
	return crops
}

func candidateCrops(soil string, avgTemp, avgRain float64, season string) []string {
	s := strings.ToLower(soil)

	switch {
	case strings.Contains(s, "loamy") || strings.Contains(s, "alluvial"):
		if avgRain > 600 && season == "Kharif" {
			return []string{"Rice", "Cotton", "Sugarcane", "Maize"}
		}
		if season == "Rabi" {
			return []string{"Wheat", "Mustard", "Barley", "Gram"}
		}
		return []string{"Vegetables", "Pulses"}

	case strings.Contains(s, "clay") || strings.Contains(s, "black"):
		if avgRain > 500 && season == "Kharif" {
			return []string{"Cotton", "Soybean", "Sorghum", "Pigeon Pea"}
		}
		if season == "Rabi" {
			return []string{"Wheat", "Gram", "Linseed"}
		}
		return []string{"Pulses", "Sunflower"}

	case strings.Contains(s, "sandy") || strings.Contains(s, "desert") || strings.Contains(s, "arid"):
		if avgTemp > 25 {
			return []string{"Bajra", "Groundnut", "Millet", "Guar"}
		}
		return []string{"Mustard", "Barley", "Chickpea"}

	case strings.Contains(s, "red") || strings.Contains(s, "laterite"):
		return []string{"Groundnut", "Pulses", "Potato", "Ragi", "Millets"}

	default:
		return []string{"Sorghum", "Local Pulses", "Regional Vegetables", "Fodder Crops"}
	}
}

// EstimateClimate samples plausible regional climate averages for the crop
// rules when no measured values are available: temperature in [20,35)°C and
// annual rain in [400,800)mm.
func (a *CropAdvisor) EstimateClimate() (avgTemp, avgRain float64) {
	avgTemp = 20 + a.rng.Float64()*15
	avgRain = 400 + a.rng.Float64()*400
	return avgTemp, avgRain
}
