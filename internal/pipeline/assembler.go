package pipeline

import (
	"fmt"
	"strings"

	"github.com/krishisahayak/sahayak/internal/advisor"
	"github.com/krishisahayak/sahayak/internal/database"
	"github.com/krishisahayak/sahayak/internal/intent"
	"github.com/krishisahayak/sahayak/internal/weather"
)

// CropFactors carries the inputs and outcome of a crop suitability lookup
// into the assembled context.
type CropFactors struct {
	Soil   string
	Season string
	Crops  []string
}

// AdvisoryData holds whatever the fetch stage produced for one turn. At
// most one field group is populated, matching the classified intent.
type AdvisoryData struct {
	Forecast    *weather.Forecast
	ForecastErr error
	Crop        *CropFactors
	Market      *advisor.MarketForecast
	Health      *advisor.HealthAssessment
}

var intentMarkers = map[intent.Intent]string{
	intent.Weather: "Farmer Query Intent: Weather Forecast & Implications Request",
	intent.Crop:    "Farmer Query Intent: Crop Recommendation Request",
	intent.Market:  "Farmer Query Intent: Market Price Inquiry",
	intent.Health:  "Farmer Query Intent: Plant Health/Problem Diagnosis",
	intent.General: "Farmer Query Intent: General Farming Question",
}

// BuildContext renders the structured context lines the model receives for
// one turn: a profile summary, the intent marker, and one bracketed data
// block. Deterministic given its inputs; the joined lines are what gets
// logged as the internal prompt.
func BuildContext(farmer *database.Farmer, query string, it intent.Intent, data AdvisoryData) []string {
	lines := []string{profileLine(farmer), "", intentMarkers[it]}

	switch it {
	case intent.Weather:
		lines = append(lines, weatherBlock(farmer, data)...)
	case intent.Crop:
		lines = append(lines, cropBlock(data.Crop)...)
	case intent.Market:
		lines = append(lines, marketBlock(data.Market)...)
	case intent.Health:
		lines = append(lines, healthBlock(data.Health)...)
	default:
		lines = append(lines, generalBlock(query)...)
	}

	lines = append(lines, "")
	return lines
}

func locationDescription(farmer *database.Farmer) string {
	if farmer.HasCoordinates() {
		return fmt.Sprintf("Farm Near %.2f,%.2f", farmer.Latitude, farmer.Longitude)
	}
	return "Location Not Set"
}

func profileLine(farmer *database.Farmer) string {
	location := locationDescription(farmer)

	size := "Not Set"
	if farmer.FarmSizeHa > 0 {
		size = fmt.Sprintf("%.2f Ha", farmer.FarmSizeHa)
	}

	soil := farmer.SoilType
	if soil == "" {
		soil = "Unknown"
	}

	return fmt.Sprintf("Farmer Context: Name: %s, Location: %s, Soil: %s, Farm Size: %s.",
		farmer.Name, location, soil, size)
}

// weatherBlock always carries the weather frame; when the forecast failed
// the body is the single unavailable line and the header names the farm
// location instead of the resolved place.
func weatherBlock(farmer *database.Farmer, data AdvisoryData) []string {
	location := locationDescription(farmer)
	if data.Forecast != nil && data.Forecast.Location != "" {
		location = data.Forecast.Location
	}

	lines := []string{
		fmt.Sprintf("--- Relevant Weather Data for %s (Interpret for Farmer) ---", location),
	}
	if data.ForecastErr != nil {
		lines = append(lines, fmt.Sprintf("Weather Forecast Unavailable: %s", data.ForecastErr))
	} else {
		for _, day := range data.Forecast.Days {
			lines = append(lines, "- "+day)
		}
	}
	lines = append(lines, "--- End Weather Data ---")
	return lines
}

func cropBlock(factors *CropFactors) []string {
	return []string{
		"--- Crop Suggestion Analysis Factors ---",
		fmt.Sprintf("Factors Considered: Soil='%s', Season='%s'.", factors.Soil, factors.Season),
		fmt.Sprintf("Initial Suitable Crop Ideas: %s. (Analyze these based on profile/weather/market)",
			strings.Join(factors.Crops, ", ")),
		"--- End Crop Suggestion Factors ---",
	}
}

func marketBlock(forecast *advisor.MarketForecast) []string {
	return []string{
		fmt.Sprintf("--- Market Price Indicators for %s in %s (Interpret Trend) ---",
			forecast.Crop, forecast.Market),
		fmt.Sprintf("Forecast %d days: Range ~₹%.2f - ₹%.2f / Quintal. Trend Analysis: %s",
			len(forecast.Prices), forecast.Min(), forecast.Max(), forecast.TrendNote),
		"--- End Market Price Indicators ---",
	}
}

func healthBlock(assessment *advisor.HealthAssessment) []string {
	return []string{
		"--- Initial Plant Health Assessment (Placeholder) ---",
		fmt.Sprintf("Potential Issue: '%s' (Confidence: %.0f%%). Suggestion: %s (Please verify visually).",
			assessment.Issue, assessment.Confidence*100, assessment.Suggestion),
		"--- End Plant Health Assessment ---",
	}
}

func generalBlock(query string) []string {
	return []string{
		"--- General Query Context ---",
		fmt.Sprintf("Farmer Question: '%s'. (Provide a comprehensive agricultural answer based on profile/history/general knowledge.)", query),
		"--- End General Query Context ---",
	}
}
