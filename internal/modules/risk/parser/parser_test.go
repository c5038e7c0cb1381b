package parser

import (
	"errors"
	"testing"
)

func TestParseSeries(t *testing.T) {
	t.Run("reads numbers and keeps nulls", func(t *testing.T) {
		body := []byte(`{"latitude":19.07,"daily":{"time":["a","b","c"],"river_discharge":[4.5,null,12.25]}}`)

		got, err := ParseSeries(body, FieldRiverDischarge)
		if err != nil {
			t.Fatalf("ParseSeries() error = %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("len = %d; want 3", len(got))
		}
		if got[0] == nil || *got[0] != 4.5 {
			t.Errorf("got[0] = %v; want 4.5", got[0])
		}
		if got[1] != nil {
			t.Errorf("got[1] = %v; want nil", *got[1])
		}
		if got[2] == nil || *got[2] != 12.25 {
			t.Errorf("got[2] = %v; want 12.25", got[2])
		}
	})

	t.Run("empty array is a valid empty series", func(t *testing.T) {
		got, err := ParseSeries([]byte(`{"daily":{"precipitation_sum":[]}}`), FieldPrecipitationSum)
		if err != nil {
			t.Fatalf("ParseSeries() error = %v", err)
		}
		if len(got) != 0 {
			t.Errorf("len = %d; want 0", len(got))
		}
		if _, ok := got.Max(); ok {
			t.Error("Max() ok = true on empty series")
		}
	})

	failures := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"daily":`},
		{name: "empty body", body: ``},
		{name: "top level array", body: `[1,2,3]`},
		{name: "missing daily", body: `{"hourly":{"river_discharge":[1]}}`},
		{name: "daily null", body: `{"daily":null}`},
		{name: "daily not object", body: `{"daily":"x"}`},
		{name: "missing field", body: `{"daily":{"precipitation_sum":[1,2,3]}}`},
		{name: "field null", body: `{"daily":{"river_discharge":null}}`},
		{name: "field not array", body: `{"daily":{"river_discharge":12}}`},
		{name: "non numeric entry", body: `{"daily":{"river_discharge":[1,"two",3]}}`},
	}
	for _, tt := range failures {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSeries([]byte(tt.body), FieldRiverDischarge)
			if !errors.Is(err, ErrParse) {
				t.Errorf("ParseSeries(%q) error = %v; want ErrParse", tt.body, err)
			}
		})
	}
}
