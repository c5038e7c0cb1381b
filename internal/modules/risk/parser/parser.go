// Package parser extracts daily forecast series from Open-Meteo style
// responses of the shape {"daily": {"<field>": [v0, v1, ...]}}.
package parser

import (
	"encoding/json"
	"errors"
	"fmt"

	"floodalert/internal/modules/risk/types"
)

const (
	FieldRiverDischarge   = "river_discharge"
	FieldPrecipitationSum = "precipitation_sum"
)

// ErrParse is returned for any body that does not carry the expected series.
var ErrParse = errors.New("parse failure")

// ParseSeries returns body.daily[field]. Null entries stay nil; anything that
// is not a JSON number or null fails the whole series.
func ParseSeries(body []byte, field string) (types.DailySeries, error) {
	var envelope struct {
		Daily map[string]json.RawMessage `json:"daily"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if envelope.Daily == nil {
		return nil, fmt.Errorf("%w: missing \"daily\" object", ErrParse)
	}
	raw, ok := envelope.Daily[field]
	if !ok {
		return nil, fmt.Errorf("%w: missing \"daily.%s\"", ErrParse, field)
	}

	var series []*float64
	if err := json.Unmarshal(raw, &series); err != nil {
		return nil, fmt.Errorf("%w: \"daily.%s\": %v", ErrParse, field, err)
	}
	if series == nil {
		return nil, fmt.Errorf("%w: \"daily.%s\" is not an array", ErrParse, field)
	}
	return types.DailySeries(series), nil
}
