package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/google/uuid"

	"floodalert/internal/geo"
	"floodalert/internal/modules/risk/client"
	"floodalert/internal/modules/risk/parser"
	"floodalert/internal/modules/risk/scorer"
	"floodalert/internal/modules/risk/types"
)

const (
	summaryRisk        = "Flood Risk Detected: %.1f ft (Source: %s)"
	summaryLow         = "Low immediate flood risk detected (0.0 ft)."
	summaryNoData      = "Could not retrieve comprehensive risk data. Assuming low risk."
	summaryNoLocation  = "Location unavailable. Assuming low risk."
	ShelterSearchQuery = "evacuation shelter OR hospital near me"
)

// Assessor runs one full risk check for a position source.
type Assessor interface {
	AssessLocation(ctx context.Context, p geo.Provider) types.RiskAssessment
}

type Service struct {
	client client.Client
	newID  func() string
	now    func() time.Time
}

var _ Assessor = (*Service)(nil)

func NewService(c client.Client) *Service {
	return &Service{client: c, newID: uuid.NewString, now: time.Now}
}

// fetched is one settled upstream call travelling down the pipeline.
type fetched struct {
	source types.Source
	body   []byte
	err    error
}

// scored is the parse+score result for one source.
type scored struct {
	report types.SourceReport
	series types.DailySeries
}

// AssessLocation locates, then assesses. Any location failure yields the safe
// default with LocationAvailable unset.
func (s *Service) AssessLocation(ctx context.Context, p geo.Provider) types.RiskAssessment {
	c, err := p.Locate(ctx)
	if err != nil {
		if !geo.IsUnavailable(err) {
			slog.Warn("locate failed", "error", err)
		}
		return s.noLocation()
	}
	return s.Assess(ctx, c)
}

// Assess fetches both sources in parallel, waits for both to settle, then
// parses and scores. It never fails: unavailable sources drop out of the
// combined level.
func (s *Service) Assess(ctx context.Context, c types.Coordinate) types.RiskAssessment {
	results := make(chan fetched, 2)
	go func() {
		body, err := s.client.FetchRiver(ctx, c)
		results <- fetched{source: types.SourceRiver, body: body, err: err}
	}()
	go func() {
		body, err := s.client.FetchRain(ctx, c)
		results <- fetched{source: types.SourceRain, body: body, err: err}
	}()

	var river, rain scored
	for range 2 {
		r := <-results
		switch r.source {
		case types.SourceRiver:
			river = score(r, parser.FieldRiverDischarge, scorer.RiverLevel)
		case types.SourceRain:
			rain = score(r, parser.FieldPrecipitationSum, scorer.RainLevel)
		}
	}

	a := s.base()
	a.Coordinate = &c
	a.LocationAvailable = true
	a.RiverLevel = river.report.Level
	a.RainLevel = rain.report.Level
	a.CombinedLevel, a.DominantSource = scorer.Combine(a.RiverLevel, a.RainLevel)
	a.CombinedLevel = scorer.Clamp(a.CombinedLevel)
	a.InDanger = scorer.InDanger(river.series)
	a.DataAvailable = a.RiverLevel >= 0 || a.RainLevel >= 0
	a.Sources = []types.SourceReport{river.report, rain.report}
	summarize(&a)

	slog.Info("risk assessed",
		"id", a.ID,
		"coordinate", c.String(),
		"river", a.RiverLevel,
		"rain", a.RainLevel,
		"combined", a.CombinedLevel,
		"source", a.DominantSource.String(),
		"in_danger", a.InDanger,
	)
	return a
}

func score(r fetched, field string, rule func(float64) float64) scored {
	out := scored{report: types.SourceReport{Source: r.source, Level: types.Unavailable}}
	if r.err != nil {
		out.report.Error = "network"
		return out
	}
	series, err := parser.ParseSeries(r.body, field)
	if err != nil {
		slog.Warn("forecast parse failed", "source", r.source.String(), "error", err)
		out.report.Error = "parse"
		return out
	}
	out.series = series
	out.report.Level = scorer.SeriesLevel(series, rule)
	if peak, ok := series.Max(); ok {
		out.report.MaxValue = &peak
	}
	return out
}

func summarize(a *types.RiskAssessment) {
	switch {
	case !a.LocationAvailable:
		a.Status, a.Summary = types.StatusNoData, summaryNoLocation
	case a.CombinedLevel > 0:
		a.Status = types.StatusRisk
		a.Summary = fmt.Sprintf(summaryRisk, a.CombinedLevel, a.DominantSource.Label())
	case a.DataAvailable:
		a.Status, a.Summary = types.StatusLow, summaryLow
	default:
		a.Status, a.Summary = types.StatusNoData, summaryNoData
	}
}

func (s *Service) base() types.RiskAssessment {
	return types.RiskAssessment{
		ID:             s.newID(),
		CheckedAt:      s.now().UTC(),
		RiverLevel:     types.Unavailable,
		RainLevel:      types.Unavailable,
		DominantSource: types.SourceNone,
	}
}

func (s *Service) noLocation() types.RiskAssessment {
	a := s.base()
	summarize(&a)
	return a
}

// Evacuation runs the river-trend danger check. Every failure, including no
// position, reports not in danger.
func (s *Service) Evacuation(ctx context.Context, p geo.Provider) types.EvacuationStatus {
	out := types.EvacuationStatus{ShelterQuery: ShelterSearchQuery}

	c, err := p.Locate(ctx)
	if err != nil {
		if !geo.IsUnavailable(err) {
			slog.Warn("locate failed", "error", err)
		}
		setEvacuationText(&out)
		return out
	}
	out.Coordinate = &c
	out.LocationAvailable = true

	body, err := s.client.FetchRiver(ctx, c)
	if err == nil {
		var series types.DailySeries
		series, err = parser.ParseSeries(body, parser.FieldRiverDischarge)
		if err == nil {
			out.InDanger = scorer.InDanger(series)
		}
	}
	if err != nil {
		kind := "network"
		if errors.Is(err, parser.ErrParse) {
			kind = "parse"
		}
		slog.Warn("evacuation check assuming safe", "kind", kind, "error", err)
	}

	out.ShowRouteButton = out.InDanger
	if out.InDanger {
		out.MapsURL = MapsSearchURL()
	}
	setEvacuationText(&out)
	return out
}

func setEvacuationText(e *types.EvacuationStatus) {
	if e.InDanger {
		e.Title = "Flood Danger Detected"
		e.Message = "River discharge is forecast to rise sharply near you. Find the nearest evacuation shelter now."
		return
	}
	e.Title = "You Are Safe"
	if !e.LocationAvailable {
		e.Message = "Could not get your location. Assuming safe."
		return
	}
	e.Message = "No sharp river rise is forecast for your area. Stay alert for updates."
}

// MapsSearchURL links a public maps search for nearby shelters; the opening
// device resolves "near me".
func MapsSearchURL() string {
	q := url.Values{}
	q.Set("api", "1")
	q.Set("query", ShelterSearchQuery)
	return "https://www.google.com/maps/search/?" + q.Encode()
}
