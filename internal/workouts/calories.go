package workouts

import (
	"math"
	"strings"
)

// DefaultCalorieIntensity is used when no per-category table is configured.
// Values are kcal per minute of training at body weight.
func DefaultCalorieIntensity() map[string]float64 {
	return map[string]float64{
		"legs":      8,
		"back":      7,
		"chest":     6,
		"arms":      5,
		"shoulders": 5,
		"core":      4,
		"abs":       4,
		"cardio":    10,
	}
}

// CalorieEstimator derives calories burned for entries that were logged
// without them: k(category) * duration * (1 + weight/100).
type CalorieEstimator struct {
	intensity map[string]float64
	fallback  float64
}

func NewCalorieEstimator(intensity map[string]float64, fallback float64) *CalorieEstimator {
	if len(intensity) == 0 {
		intensity = DefaultCalorieIntensity()
	}
	normalized := make(map[string]float64, len(intensity))
	for category, k := range intensity {
		normalized[normalizeCategory(category)] = k
	}
	return &CalorieEstimator{
		intensity: normalized,
		fallback:  fallback,
	}
}

// Intensity returns k for the category, case insensitive.
func (e *CalorieEstimator) Intensity(category string) float64 {
	if k, ok := e.intensity[normalizeCategory(category)]; ok {
		return k
	}
	return e.fallback
}

func (e *CalorieEstimator) Estimate(entry Entry) float64 {
	calories := e.Intensity(entry.Category) * entry.Duration * (1 + entry.Weight/100)
	return round2(calories)
}

func normalizeCategory(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
