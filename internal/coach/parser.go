package coach

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strings"
)

const (
	jsonStart = "|||JSON_START|||"
	jsonEnd   = "|||JSON_END|||"
)

// Nutrition is one extracted food/water record. Numeric fields are
// validated as numbers during parsing; anything absent or non-numeric
// defaults to zero.
type Nutrition struct {
	Food     string
	Calories int
	Protein  int
	Carbs    int
	Fats     int
	WaterML  int
}

// extractNutrition pulls the delimited nutrition block out of free-form
// model output. The model is prompted to emit the block but is not a
// verified schema producer, so every failure mode is non-fatal: the
// original text comes back verbatim and the record is nil.
func extractNutrition(text string, logger *slog.Logger) (string, *Nutrition) {
	start := strings.Index(text, jsonStart)
	if start < 0 {
		return text, nil
	}
	rest := text[start+len(jsonStart):]
	end := strings.Index(rest, jsonEnd)
	if end < 0 {
		return text, nil
	}

	n, err := parseNutrition(rest[:end])
	if err != nil {
		logger.Warn("failed to parse nutrition block", "error", err)
		return text, nil
	}

	display := strings.TrimSpace(text[:start] + rest[end+len(jsonEnd):])
	return display, n
}

// parseNutrition decodes the block dynamically: the shape is a prompt
// convention, not a schema, so each field is checked individually instead
// of trusting the whole object.
func parseNutrition(raw string) (*Nutrition, error) {
	var m map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &m); err != nil {
		return nil, fmt.Errorf("decode nutrition json: %w", err)
	}

	food, _ := m["food"].(string)
	return &Nutrition{
		Food:     strings.TrimSpace(food),
		Calories: numField(m, "calories"),
		Protein:  numField(m, "protein"),
		Carbs:    numField(m, "carbs"),
		Fats:     numField(m, "fats"),
		WaterML:  numField(m, "water_ml"),
	}, nil
}

func numField(m map[string]any, key string) int {
	f, ok := m[key].(float64)
	if !ok || f < 0 || math.IsNaN(f) {
		return 0
	}
	return int(math.Round(f))
}
