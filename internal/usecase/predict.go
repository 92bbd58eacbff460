package usecase

import (
	"fmt"
	"math"
	"time"

	"github.com/soundtide/soundtide/internal/domain"
	"github.com/soundtide/soundtide/internal/observability"
)

const (
	// MetersPerFoot converts predicted heights for the feet output option.
	metersPerFoot = 0.3048

	// PacificZone is the basin's civil time zone, used for display only.
	// Synthesis always runs in UTC.
	PacificZone = "America/Los_Angeles"

	maxWindowDays = 365
	maxSamples    = 100000
)

// PredictionRequest is a tide prediction query. SegmentID and Lon/Lat are
// mutually exclusive: the latter resolves through the nearest-segment
// locator.
type PredictionRequest struct {
	SegmentID *int
	Lon       *float64
	Lat       *float64

	Start       time.Time
	IntervalMin float64
	Days        float64

	Units    string // "m" (default) or "ft"
	Timezone string // "utc" (default) or "pacific"
}

// PredictionPoint is one sample in the response, the timestamp rendered in
// the requested zone.
type PredictionPoint struct {
	Time   string  `json:"time"`
	Height float64 `json:"height"`
}

// ExtremaResponse lists the high and low tide events in the window.
type ExtremaResponse struct {
	Highs []PredictionPoint `json:"highs"`
	Lows  []PredictionPoint `json:"lows"`
}

// PredictionResponse is the full prediction result.
type PredictionResponse struct {
	SegmentID   int                   `json:"segment_id"`
	SegmentName string                `json:"segment_name"`
	Units       string                `json:"units"`
	Timezone    string                `json:"timezone"`
	MeanLevel   float64               `json:"mean_level"`
	Nearest     *domain.NearestResult `json:"nearest,omitempty"`
	Predictions []PredictionPoint     `json:"predictions"`
	Extrema     ExtremaResponse       `json:"extrema"`
}

// Service orchestrates tide predictions against the loaded segment table.
type Service struct {
	table   *domain.Table
	farKm   float64
	metrics *observability.Metrics
}

// NewService creates the prediction service.
func NewService(table *domain.Table, farThresholdKm float64, metrics *observability.Metrics) *Service {
	return &Service{table: table, farKm: farThresholdKm, metrics: metrics}
}

// Table exposes the underlying segment table for read-only queries.
func (s *Service) Table() *domain.Table { return s.table }

// Validate checks request consistency before any synthesis work.
func (r *PredictionRequest) Validate() error {
	hasID := r.SegmentID != nil
	hasCoord := r.Lon != nil && r.Lat != nil
	if !hasID && !hasCoord {
		return &domain.InputError{Param: "segment", Reason: "either segment_id or lon/lat must be provided"}
	}
	if hasID && hasCoord {
		return &domain.InputError{Param: "segment", Reason: "segment_id and lon/lat are mutually exclusive"}
	}
	if hasCoord {
		if *r.Lat < -90 || *r.Lat > 90 {
			return &domain.InputError{Param: "lat", Reason: "latitude must be between -90 and 90"}
		}
		if *r.Lon < -180 || *r.Lon > 180 {
			return &domain.InputError{Param: "lon", Reason: "longitude must be between -180 and 180"}
		}
	}

	w := r.window()
	if err := w.Validate(); err != nil {
		return err
	}
	if r.Days > maxWindowDays {
		return &domain.InputError{Param: "days", Reason: fmt.Sprintf("window must be at most %d days", maxWindowDays)}
	}
	if n := w.SampleCount(); n > maxSamples {
		return &domain.InputError{Param: "interval", Reason: fmt.Sprintf("too many samples (%d), reduce the window or increase the interval", n)}
	}

	switch r.Units {
	case "", "m", "ft":
	default:
		return &domain.InputError{Param: "units", Reason: "units must be m or ft"}
	}
	switch r.Timezone {
	case "", "utc", "pacific":
	default:
		return &domain.InputError{Param: "timezone", Reason: "timezone must be utc or pacific"}
	}
	return nil
}

func (r *PredictionRequest) window() domain.TimeWindow {
	return domain.TimeWindow{Start: r.Start, IntervalMin: r.IntervalMin, Days: r.Days}
}

// Execute resolves the segment, synthesizes the series and formats the
// response.
func (s *Service) Execute(req PredictionRequest) (*PredictionResponse, error) {
	if err := req.Validate(); err != nil {
		s.countPrediction("error")
		return nil, err
	}

	var seg *domain.SegmentRecord
	var nearest *domain.NearestResult
	var err error

	if req.SegmentID != nil {
		seg, err = s.table.Segment(*req.SegmentID)
		if err != nil {
			s.countPrediction("error")
			return nil, err
		}
	} else {
		res, err := s.table.Nearest(*req.Lon, *req.Lat, s.farKm)
		if err != nil {
			s.countPrediction("error")
			return nil, err
		}
		s.countNearest(res.Far)
		nearest = &res
		seg, err = s.table.Segment(res.SegmentID)
		if err != nil {
			s.countPrediction("error")
			return nil, err
		}
	}

	started := time.Now()
	series, err := domain.Predict(seg, req.window())
	if err != nil {
		s.countPrediction("error")
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.SynthesisDuration.Observe(time.Since(started).Seconds())
	}
	extrema := domain.FindExtrema(series.Samples)

	loc := time.UTC
	zoneName := "utc"
	if req.Timezone == "pacific" {
		loc, err = time.LoadLocation(PacificZone)
		if err != nil {
			s.countPrediction("error")
			return nil, &domain.ConfigurationError{Reason: "time zone database missing " + PacificZone}
		}
		zoneName = "pacific"
	}

	units := req.Units
	if units == "" {
		units = "m"
	}
	scale := 1.0
	if units == "ft" {
		scale = 1.0 / metersPerFoot
	}

	resp := &PredictionResponse{
		SegmentID:   seg.ID,
		SegmentName: seg.Name,
		Units:       units,
		Timezone:    zoneName,
		MeanLevel:   roundTo(seg.MeanM*scale, 3),
		Nearest:     nearest,
		Predictions: formatPoints(series.Samples, loc, scale),
		Extrema: ExtremaResponse{
			Highs: formatPoints(extrema.Highs, loc, scale),
			Lows:  formatPoints(extrema.Lows, loc, scale),
		},
	}
	s.countPrediction("success")
	return resp, nil
}

func (s *Service) countPrediction(outcome string) {
	if s.metrics != nil {
		s.metrics.PredictionsTotal.WithLabelValues(outcome).Inc()
	}
}

func (s *Service) countNearest(far bool) {
	if s.metrics == nil {
		return
	}
	result := "near"
	if far {
		result = "far"
	}
	s.metrics.NearestQueries.WithLabelValues(result).Inc()
}

func formatPoints(samples []domain.Sample, loc *time.Location, scale float64) []PredictionPoint {
	points := make([]PredictionPoint, len(samples))
	for i, p := range samples {
		points[i] = PredictionPoint{
			Time:   p.Time.In(loc).Format(time.RFC3339),
			Height: roundTo(p.HeightM*scale, 3),
		}
	}
	return points
}

func roundTo(val float64, precision int) float64 {
	multiplier := math.Pow(10, float64(precision))
	return math.Round(val*multiplier) / multiplier
}
