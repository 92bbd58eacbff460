package usecase

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/soundtide/soundtide/internal/adapter/grid"
	"github.com/soundtide/soundtide/internal/adapter/interp"
	"github.com/soundtide/soundtide/internal/domain"
	"github.com/soundtide/soundtide/internal/observability"
)

// GriddedField is a spatio-temporal water-surface field: one 2D height slice
// per instant, on the model grid. Nodes outside the interpolation radius or
// on land are NaN in every slice and false in Valid.
type GriddedField struct {
	Times   []time.Time
	Lon     [][]float64
	Lat     [][]float64
	Valid   [][]bool
	Heights [][][]float64 // [time][row][col], meters above MLLW
}

// GridService synthesizes gridded fields by evaluating every segment per
// instant and spreading the heights onto the model grid.
type GridService struct {
	geometry *grid.Geometry
	segments []*domain.SegmentRecord
	interp   *interp.Interpolator
	workers  int
	metrics  *observability.Metrics
}

// NewGridService wires the segment table to a loaded grid geometry. The
// interpolation weights are computed once here.
func NewGridService(table *domain.Table, geometry *grid.Geometry, opts interp.Options, metrics *observability.Metrics) (*GridService, error) {
	if geometry == nil {
		return nil, &domain.ConfigurationError{Reason: "gridded interpolation requires a grid geometry"}
	}
	segments := table.Segments()
	points := make([]interp.Point, len(segments))
	for i, seg := range segments {
		points[i] = interp.Point{Lon: seg.Lon, Lat: seg.Lat}
	}
	it, err := interp.New(geometry.Lon, geometry.Lat, geometry.Water, points, opts)
	if err != nil {
		return nil, err
	}
	if metrics != nil {
		metrics.GridWaterNodes.Set(float64(geometry.WaterCount()))
	}
	return &GridService{
		geometry: geometry,
		segments: segments,
		interp:   it,
		workers:  runtime.GOMAXPROCS(0),
		metrics:  metrics,
	}, nil
}

// Run synthesizes the field over the window. Cancellation is honored between
// time slices: the partial field built so far is returned alongside the
// context's error, with slices strictly in chronological order.
func (g *GridService) Run(ctx context.Context, w domain.TimeWindow) (*GriddedField, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}

	started := time.Now()
	field := &GriddedField{
		Lon:   g.geometry.Lon,
		Lat:   g.geometry.Lat,
		Valid: g.interp.Valid(),
	}
	heights := make([]float64, len(g.segments))

	for _, at := range w.Times() {
		if err := ctx.Err(); err != nil {
			g.observeRun(started)
			return field, err
		}

		st, err := domain.Arguments(at)
		if err != nil {
			g.observeRun(started)
			return field, err
		}
		g.evaluateSegments(&st, heights)

		slice, err := g.interp.Slice(heights)
		if err != nil {
			g.observeRun(started)
			return field, err
		}
		field.Times = append(field.Times, at)
		field.Heights = append(field.Heights, slice)
		if g.metrics != nil {
			g.metrics.GridSlicesTotal.Inc()
		}
	}

	g.observeRun(started)
	return field, nil
}

// evaluateSegments computes every segment's height against one shared
// astronomical state, splitting the segment list across workers.
func (g *GridService) evaluateSegments(st *domain.AstroState, out []float64) {
	workers := g.workers
	if workers > len(g.segments) {
		workers = len(g.segments)
	}
	if workers <= 1 {
		for i, seg := range g.segments {
			out[i] = domain.HeightAtState(seg, st)
		}
		return
	}

	var wg sync.WaitGroup
	chunk := (len(g.segments) + workers - 1) / workers
	for start := 0; start < len(g.segments); start += chunk {
		end := start + chunk
		if end > len(g.segments) {
			end = len(g.segments)
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				out[i] = domain.HeightAtState(g.segments[i], st)
			}
		}(start, end)
	}
	wg.Wait()
}

func (g *GridService) observeRun(started time.Time) {
	if g.metrics != nil {
		g.metrics.GridRunDuration.Observe(time.Since(started).Seconds())
	}
}
