package project

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	MinLikelihood = 0.0
	MaxLikelihood = 1.0
	MinImpact     = 1
	MaxImpact     = 10
)

// Impact is a 1–10 severity score. It decodes from any JSON number (the
// model sometimes answers 7.5) or numeric string, rounding to the nearest
// integer, so an out-of-shape value never fails a whole analysis.
type Impact int

func (i *Impact) UnmarshalJSON(data []byte) error {
	return i.parse(strings.Trim(strings.TrimSpace(string(data)), `"`))
}

// UnmarshalYAML accepts the same forms as UnmarshalJSON.
func (i *Impact) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: impact must be a number", value.Line)
	}
	if value.Tag == "!!null" {
		*i = 0
		return nil
	}
	return i.parse(strings.TrimSpace(value.Value))
}

func (i *Impact) parse(raw string) error {
	if raw == "" || raw == "null" {
		*i = 0
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("impact %s is not a number", raw)
	}
	*i = Impact(math.Round(f))
	return nil
}

func (i Impact) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(i))
}

// ClampLikelihood limits v to [0,1]. NaN becomes 0.
func ClampLikelihood(v float64) float64 {
	if math.IsNaN(v) || v < MinLikelihood {
		return MinLikelihood
	}
	if v > MaxLikelihood {
		return MaxLikelihood
	}
	return v
}

// ClampImpact limits v to [1,10].
func ClampImpact(v Impact) Impact {
	if v < MinImpact {
		return MinImpact
	}
	if v > MaxImpact {
		return MaxImpact
	}
	return v
}
