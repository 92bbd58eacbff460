// Package grid loads the model grid geometry from a NetCDF asset.
package grid

import (
	"fmt"
	"os"

	"github.com/fhs/go-netcdf/netcdf"

	"github.com/soundtide/soundtide/internal/domain"
)

// Geometry is a curvilinear model grid: per-node coordinates on the rho
// points plus the land/sea mask. Land nodes never receive interpolated
// values.
type Geometry struct {
	Rows  int // eta dimension
	Cols  int // xi dimension
	Lon   [][]float64
	Lat   [][]float64
	Water [][]bool
}

// WaterCount returns the number of sea nodes.
func (g *Geometry) WaterCount() int {
	n := 0
	for i := range g.Water {
		for j := range g.Water[i] {
			if g.Water[i][j] {
				n++
			}
		}
	}
	return n
}

// Load reads the grid geometry from a NetCDF file. The coordinate variables
// follow the regional-model convention (lon_rho/lat_rho) with common fallback
// names accepted; mask_rho is optional and defaults to all-water.
func Load(path string) (*Geometry, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &domain.ConfigurationError{Reason: fmt.Sprintf("grid file %s: %v", path, err)}
	}

	nc, err := netcdf.OpenFile(path, netcdf.NOWRITE)
	if err != nil {
		return nil, &domain.ConfigurationError{Reason: fmt.Sprintf("failed to open grid file %s: %v", path, err)}
	}
	defer func() { _ = nc.Close() }()

	lon, err := read2DAny(nc, []string{"lon_rho", "lon", "longitude"})
	if err != nil {
		return nil, &domain.ConfigurationError{Reason: "grid longitude: " + err.Error()}
	}
	lat, err := read2DAny(nc, []string{"lat_rho", "lat", "latitude"})
	if err != nil {
		return nil, &domain.ConfigurationError{Reason: "grid latitude: " + err.Error()}
	}
	if len(lon) != len(lat) || len(lon) == 0 || len(lon[0]) != len(lat[0]) {
		return nil, &domain.ConfigurationError{Reason: "grid longitude and latitude shapes differ"}
	}

	rows, cols := len(lon), len(lon[0])
	water := make([][]bool, rows)

	mask, err := read2DAny(nc, []string{"mask_rho", "mask"})
	if err != nil {
		// No mask variable: treat every node as water.
		for i := range water {
			water[i] = make([]bool, cols)
			for j := range water[i] {
				water[i][j] = true
			}
		}
	} else {
		if len(mask) != rows || len(mask[0]) != cols {
			return nil, &domain.ConfigurationError{Reason: "grid mask shape differs from coordinates"}
		}
		// Convention: mask 1 = water, 0 = land.
		for i := range water {
			water[i] = make([]bool, cols)
			for j := range water[i] {
				water[i][j] = mask[i][j] > 0.5
			}
		}
	}

	return &Geometry{Rows: rows, Cols: cols, Lon: lon, Lat: lat, Water: water}, nil
}

// read2DAny reads the first variable from names that exists as a 2D float
// grid.
func read2DAny(nc netcdf.Dataset, names []string) ([][]float64, error) {
	for _, name := range names {
		v, err := nc.Var(name)
		if err != nil {
			continue
		}
		return read2D(v)
	}
	return nil, fmt.Errorf("variable not found (tried %v)", names)
}

func read2D(v netcdf.Var) ([][]float64, error) {
	dims, err := v.Dims()
	if err != nil {
		return nil, fmt.Errorf("failed to get dimensions: %w", err)
	}
	if len(dims) != 2 {
		return nil, fmt.Errorf("expected 2D variable, got %dD", len(dims))
	}
	rows, err := dims[0].Len()
	if err != nil {
		return nil, fmt.Errorf("failed to get dim0 length: %w", err)
	}
	cols, err := dims[1].Len()
	if err != nil {
		return nil, fmt.Errorf("failed to get dim1 length: %w", err)
	}
	if rows == 0 || cols == 0 {
		return nil, fmt.Errorf("empty grid variable")
	}

	total := int(rows * cols)
	t, err := v.Type()
	if err != nil {
		return nil, fmt.Errorf("failed to get var type: %w", err)
	}

	var flat []float64
	switch t {
	case netcdf.DOUBLE:
		flat = make([]float64, total)
		if err := v.ReadFloat64s(flat); err != nil {
			return nil, err
		}
	case netcdf.FLOAT:
		tmp := make([]float32, total)
		if err := v.ReadFloat32s(tmp); err != nil {
			return nil, err
		}
		flat = make([]float64, total)
		for i, val := range tmp {
			flat[i] = float64(val)
		}
	case netcdf.INT:
		tmp := make([]int32, total)
		if err := v.ReadInt32s(tmp); err != nil {
			return nil, err
		}
		flat = make([]float64, total)
		for i, val := range tmp {
			flat[i] = float64(val)
		}
	case netcdf.SHORT:
		tmp := make([]int16, total)
		if err := v.ReadInt16s(tmp); err != nil {
			return nil, err
		}
		flat = make([]float64, total)
		for i, val := range tmp {
			flat[i] = float64(val)
		}
	default:
		return nil, fmt.Errorf("unsupported var type: %v", t)
	}

	values := make([][]float64, rows)
	for i := 0; i < int(rows); i++ {
		values[i] = flat[i*int(cols) : (i+1)*int(cols)]
	}
	return values, nil
}
