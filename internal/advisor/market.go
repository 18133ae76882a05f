package advisor

import (
	"math"
	"math/rand"
)

// basePrices holds indicative ₹/quintal base rates per crop.
var basePrices = map[string]float64{
	"Wheat":  2100,
	"Rice":   2800,
	"Maize":  1900,
	"Cotton": 6200,
	"Tomato": 1200,
}

const defaultBasePrice = 2300

// MarketForecast is a simulated short-term price outlook for one crop.
type MarketForecast struct {
	Crop      string
	Market    string
	Prices    []float64
	TrendNote string
}

// MarketAdvisor simulates near-term mandi prices with a bounded random
// walk. Prices are indicative only.
type MarketAdvisor struct {
	rng *rand.Rand
}

// NewMarketAdvisor creates a market advisor using the given random source.
func NewMarketAdvisor(rng *rand.Rand) *MarketAdvisor {
	return &MarketAdvisor{rng: rng}
}

// Forecast simulates a 7-day price walk for the crop. Each day applies a
// trend drift plus volatility noise; prices never fall below 60% of the
// crop's base rate.
func (a *MarketAdvisor) Forecast(crop, market string) *MarketForecast {
	base, ok := basePrices[crop]
	if !ok {
		base = defaultBasePrice
	}

	current := base * a.uniform(0.9, 1.1)
	trend := a.uniform(-0.03, 0.03)
	volatility := a.uniform(0.01, 0.06)
	floor := 0.6 * base

	prices := make([]float64, 0, 7)
	last := current
	for i := 0; i < 7; i++ {
		factor := 1 + trend*float64(i+1)/7 + a.uniform(-volatility, volatility)
		price := last * factor
		if price < floor {
			price = floor
		}
		price = math.Round(price*100) / 100
		prices = append(prices, price)
		last = price
	}

	return &MarketForecast{
		Crop:      crop,
		Market:    market,
		Prices:    prices,
		TrendNote: trendNote(prices[0], prices[len(prices)-1]),
	}
}

// Min returns the lowest forecast price.
func (f *MarketForecast) Min() float64 {
	min := f.Prices[0]
	for _, p := range f.Prices[1:] {
		if p < min {
			min = p
		}
	}
	return min
}

// Max returns the highest forecast price.
func (f *MarketForecast) Max() float64 {
	max := f.Prices[0]
	for _, p := range f.Prices[1:] {
		if p > max {
			max = p
		}
	}
	return max
}

func trendNote(first, last float64) string {
	switch {
	case last > first*1.04:
		return "Suggests a potential upward trend in the near term."
	case last < first*0.96:
		return "Indicates a potential downward trend in the near term."
	case math.Abs(last-first)/first < 0.015:
		return "Prices look relatively stable for the next week."
	default:
		return "Market appears volatile with no clear short-term trend."
	}
}

func (a *MarketAdvisor) uniform(lo, hi float64) float64 {
	return lo + a.rng.Float64()*(hi-lo)
}
