// Package interp spreads per-segment values onto grid nodes by
// inverse-distance weighting.
package interp

import (
	"math"

	"github.com/soundtide/soundtide/internal/domain"
)

// Point is a source location carrying values to be interpolated.
type Point struct {
	Lon float64
	Lat float64
}

// Options controls the weighting scheme. Nodes farther than MaxRadiusKm from
// every point are left invalid rather than extrapolated.
type Options struct {
	MaxRadiusKm float64
	Power       float64
}

// DefaultOptions is inverse-distance-squared within 15 km.
func DefaultOptions() Options {
	return Options{MaxRadiusKm: 15, Power: 2}
}

// snapKm is the distance under which a node takes its nearest point's value
// directly, avoiding a division blow-up.
const snapKm = 1e-6

type node struct {
	row, col int
	snap     int       // point index when the node coincides with a point, else -1
	weights  []float64 // normalized, one per point, nil when snapped
}

// Interpolator maps a vector of per-point values onto a fixed grid. Weights
// are computed once at construction; each Slice call is a weighted sum per
// node. Safe for concurrent use after construction.
type Interpolator struct {
	rows, cols int
	points     int
	nodes      []node
	valid      [][]bool
}

// New builds an interpolator for the given grid geometry and source points.
// water marks the grid nodes eligible to receive values; a nil water mask
// means all nodes are eligible.
func New(lon, lat [][]float64, water [][]bool, points []Point, opts Options) (*Interpolator, error) {
	if len(points) == 0 {
		return nil, &domain.InputError{Param: "points", Reason: "at least one source point is required"}
	}
	if len(lon) == 0 || len(lon[0]) == 0 {
		return nil, &domain.InputError{Param: "grid", Reason: "empty grid"}
	}
	if opts.MaxRadiusKm <= 0 || opts.Power <= 0 {
		opts = DefaultOptions()
	}

	rows, cols := len(lon), len(lon[0])
	it := &Interpolator{rows: rows, cols: cols, points: len(points)}
	it.valid = make([][]bool, rows)
	for i := range it.valid {
		it.valid[i] = make([]bool, cols)
	}

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if water != nil && !water[i][j] {
				continue
			}
			n, ok := weighNode(lon[i][j], lat[i][j], points, opts)
			if !ok {
				continue
			}
			n.row, n.col = i, j
			it.nodes = append(it.nodes, n)
			it.valid[i][j] = true
		}
	}
	return it, nil
}

func weighNode(lon, lat float64, points []Point, opts Options) (node, bool) {
	n := node{snap: -1}
	weights := make([]float64, len(points))
	var sum float64
	inRange := false
	for k, p := range points {
		d := domain.HaversineKm(lat, lon, p.Lat, p.Lon)
		if d < snapKm {
			n.snap = k
			return n, true
		}
		if d > opts.MaxRadiusKm {
			continue
		}
		w := 1.0 / math.Pow(d, opts.Power)
		weights[k] = w
		sum += w
		inRange = true
	}
	if !inRange {
		return n, false
	}
	for k := range weights {
		weights[k] /= sum
	}
	n.weights = weights
	return n, true
}

// Valid reports which grid nodes receive values: water nodes within radius
// of at least one source point.
func (it *Interpolator) Valid() [][]bool { return it.valid }

// NodeCount is the number of valid nodes.
func (it *Interpolator) NodeCount() int { return len(it.nodes) }

// Slice interpolates one vector of per-point values onto the grid. Invalid
// nodes are NaN. values must have one entry per source point.
func (it *Interpolator) Slice(values []float64) ([][]float64, error) {
	if len(values) != it.points {
		return nil, &domain.InputError{Param: "values", Reason: "length must match the source point count"}
	}
	out := make([][]float64, it.rows)
	for i := range out {
		out[i] = make([]float64, it.cols)
		for j := range out[i] {
			out[i][j] = math.NaN()
		}
	}
	for _, n := range it.nodes {
		if n.snap >= 0 {
			out[n.row][n.col] = values[n.snap]
			continue
		}
		var v float64
		for k, w := range n.weights {
			if w != 0 {
				v += w * values[k]
			}
		}
		out[n.row][n.col] = v
	}
	return out, nil
}
