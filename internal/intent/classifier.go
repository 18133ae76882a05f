// Package intent routes farmer queries to an advisory category by keyword
// matching across English, romanized, and Indic-script terms.
package intent

import "strings"

// Intent is the advisory category of a farmer query.
type Intent string

// Advisory categories, checked in priority order.
const (
	Weather Intent = "weather"
	Crop    Intent = "crop"
	Market  Intent = "market"
	Health  Intent = "health"
	General Intent = "general"
)

// Classifier assigns an advisory category to a raw query. Implementations
// must be deterministic: the same query always yields the same intent.
type Classifier interface {
	Classify(query string) Intent
}

// KeywordClassifier matches lowercased substrings against fixed multilingual
// keyword sets. Categories are checked in a fixed order and the first match
// wins, so a query naming both weather and prices routes to weather.
type KeywordClassifier struct{}

// NewKeywordClassifier creates the default keyword classifier.
func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{}
}

var weatherKeywords = []string{
	"weather", "forecast", "mausam", "मौसम", "வானிலை", "আবহাওয়া", "వాతావరణం",
	"हवामान", "rain", "temperature", "barish", "tapman", "humidity", "wind",
}

var cropKeywords = []string{
	"crop recommend", "suggest crop", "kya ugana", "फसल सुझा", "பயிர்களைப் பரிந்துரை",
	"ফসল সুপারিশ", "పంటలను సూచిం", "पिके सुचवा", "grow next", "suitable crop",
	"कौन सी फसल", "எந்தப் பயிர்", "plant next",
}

var marketKeywords = []string{
	"market price", "mandi rate", "bazaar price", "बाजार भाव", "சந்தை விலை",
	"বাজার দর", "మార్కెట్ ధర", "what price", "selling price", "bhav", "kimat",
}

var healthKeywords = []string{
	"disease", "pest", "infection", "sick plant", "plant health", "रोग", "कीट",
	"நோய்", "রোগ", "తెగులు", "कीड", "problem with plant", "issue with crop",
}

// Classify returns the first matching category, or General when no keyword
// set matches.
func (c *KeywordClassifier) Classify(query string) Intent {
	q := strings.ToLower(query)

	switch {
	case containsAny(q, weatherKeywords):
		return Weather
	case containsAny(q, cropKeywords):
		return Crop
	case containsAny(q, marketKeywords):
		return Market
	case containsAny(q, healthKeywords):
		return Health
	default:
		return General
	}
}

func containsAny(q string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}

var cropTerms = map[string][]string{
	"Rice":   {"rice", "chawal", "धान", "चावल", "அரிசி", "চাল", "బియ్యం", "तांदूळ"},
	"Maize":  {"maize", "makka", "मक्का", "சோளம்", "ভুট্টা", "మొక్కజొన్న", "मका"},
	"Cotton": {"cotton", "kapas", "कपास", "பருத்தி", "তুলা", "పత్తి", "कापूस"},
	"Tomato": {"tomato", "tamatar", "टमाटर", "தக்காளி", "টমেটো", "టమోటా", "टोमॅटो"},
}

// cropOrder keeps detection deterministic across the term map.
var cropOrder = []string{"Rice", "Maize", "Cotton", "Tomato"}

// DetectCrop extracts the crop a market query is about, defaulting to Wheat.
func DetectCrop(query string) string {
	q := strings.ToLower(query)
	for _, crop := range cropOrder {
		if containsAny(q, cropTerms[crop]) {
			return crop
		}
	}
	return "Wheat"
}
