package database

import (
	"errors"
	"strings"
	"time"
)

// SupportedLanguages lists the output languages a farmer may select.
var SupportedLanguages = []string{"English", "Hindi", "Tamil", "Bengali", "Telugu", "Marathi"}

// SoilTypes lists the accepted soil descriptions for a farmer profile.
var SoilTypes = []string{
	"Loamy", "Alluvial", "Clay", "Black (Regur)", "Sandy",
	"Arid (Desert)", "Red", "Laterite", "Unknown",
}

// ErrEmptyFarmerName is returned when a profile is saved without a name.
var ErrEmptyFarmerName = errors.New("farmer name cannot be empty")

// Farmer is a registered farmer profile. Names are unique case-insensitively.
type Farmer struct {
	ID         uint      `db:"id"`
	Name       string    `db:"name"`
	ChatID     int64     `db:"chat_id"`
	Language   string    `db:"language"`
	Latitude   float64   `db:"latitude"`
	Longitude  float64   `db:"longitude"`
	SoilType   string    `db:"soil_type"`
	FarmSizeHa float64   `db:"farm_size_ha"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// Sanitize normalizes a profile before persistence: the name must be
// non-empty, a non-positive farm size falls back to 1.0 hectares, an empty
// soil type becomes "Unknown", and an unsupported language becomes English.
func (f *Farmer) Sanitize() error {
	f.Name = strings.TrimSpace(f.Name)
	if f.Name == "" {
		return ErrEmptyFarmerName
	}

	if f.FarmSizeHa <= 0 {
		f.FarmSizeHa = 1.0
	}

	f.SoilType = strings.TrimSpace(f.SoilType)
	if f.SoilType == "" {
		f.SoilType = "Unknown"
	}

	if !isSupportedLanguage(f.Language) {
		f.Language = "English"
	}

	return nil
}

// HasCoordinates reports whether the farm location has been set. The (0,0)
// origin doubles as the unset marker.
func (f *Farmer) HasCoordinates() bool {
	return f.Latitude != 0 || f.Longitude != 0
}

func isSupportedLanguage(lang string) bool {
	for _, l := range SupportedLanguages {
		if strings.EqualFold(l, lang) {
			return true
		}
	}
	return false
}

// Interaction is one logged advisory turn.
type Interaction struct {
	ID             uint      `db:"id"`
	Timestamp      time.Time `db:"timestamp"`
	FarmerName     string    `db:"farmer_name"`
	Language       string    `db:"language"`
	Query          string    `db:"query"`
	Response       string    `db:"response"`
	InternalPrompt string    `db:"internal_prompt"`
}
