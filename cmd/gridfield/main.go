// Package main provides the gridded tide field generator. It synthesizes a
// spatio-temporal water-surface field on the model grid and writes it to a
// NetCDF file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fhs/go-netcdf/netcdf"

	"github.com/soundtide/soundtide/internal/adapter/grid"
	"github.com/soundtide/soundtide/internal/adapter/interp"
	"github.com/soundtide/soundtide/internal/adapter/store/csv"
	"github.com/soundtide/soundtide/internal/domain"
	"github.com/soundtide/soundtide/internal/usecase"
)

// fillValue marks land and out-of-radius nodes in the output file.
const fillValue = 1.0e37

func main() {
	segmentsPath := flag.String("segments", "data/segments.csv", "Path to segments CSV")
	harmonicsPath := flag.String("harmonics", "data/harmonics.csv", "Path to harmonics CSV")
	gridPath := flag.String("grid", "data/grid.nc", "Path to grid geometry NetCDF")
	outPath := flag.String("out", "tide_field.nc", "Output NetCDF file")
	startStr := flag.String("start", "", "Start time, RFC3339 (default: now)")
	length := flag.Float64("length", 1.0, "Window length in days")
	interval := flag.Float64("interval", 60, "Sampling interval in minutes")
	radiusKm := flag.Float64("radius", 15, "Interpolation radius in km")
	power := flag.Float64("power", 2, "Inverse-distance power")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *segmentsPath, *harmonicsPath, *gridPath, *outPath,
		*startStr, *length, *interval, *radiusKm, *power); err != nil {
		log.Fatalf("gridfield: %v", err)
	}
}

func run(ctx context.Context, segmentsPath, harmonicsPath, gridPath, outPath,
	startStr string, length, interval, radiusKm, power float64) error {
	start := time.Now().UTC().Truncate(time.Minute)
	if startStr != "" {
		parsed, err := time.Parse(time.RFC3339, startStr)
		if err != nil {
			return fmt.Errorf("invalid -start (expected RFC3339): %w", err)
		}
		start = parsed.UTC()
	}

	loader := csv.NewSegmentStore(segmentsPath, harmonicsPath)
	table, err := usecase.LoadTable(loader, domain.DefaultInferenceOptions())
	if err != nil {
		return err
	}
	log.Printf("Segment table loaded: %d segments", table.Len())

	geometry, err := grid.Load(gridPath)
	if err != nil {
		return err
	}
	log.Printf("Grid geometry loaded: %dx%d, %d water nodes",
		geometry.Rows, geometry.Cols, geometry.WaterCount())

	svc, err := usecase.NewGridService(table, geometry, interp.Options{
		MaxRadiusKm: radiusKm,
		Power:       power,
	}, nil)
	if err != nil {
		return err
	}

	window := domain.TimeWindow{Start: start, IntervalMin: interval, Days: length}
	log.Printf("Synthesizing %d slices from %s", window.SampleCount(), start.Format(time.RFC3339))

	field, runErr := svc.Run(ctx, window)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	if errors.Is(runErr, context.Canceled) {
		log.Printf("Interrupted: writing the %d slices completed so far", len(field.Times))
	}
	if len(field.Times) == 0 {
		return fmt.Errorf("no slices synthesized")
	}

	if err := writeField(outPath, field); err != nil {
		return err
	}
	log.Printf("Wrote %d slices to %s", len(field.Times), outPath)
	return nil
}

// writeField writes the field as time/eta_rho/xi_rho NetCDF variables. Time
// is stored as Julian day numbers; invalid nodes carry the fill value.
func writeField(path string, field *usecase.GriddedField) error {
	ds, err := netcdf.CreateFile(path, netcdf.CLOBBER|netcdf.NETCDF4)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() { _ = ds.Close() }()

	nTime := len(field.Times)
	rows := len(field.Lon)
	cols := len(field.Lon[0])

	timeDim, err := ds.AddDim("time", uint64(nTime))
	if err != nil {
		return err
	}
	etaDim, err := ds.AddDim("eta_rho", uint64(rows))
	if err != nil {
		return err
	}
	xiDim, err := ds.AddDim("xi_rho", uint64(cols))
	if err != nil {
		return err
	}

	timeVar, err := ds.AddVar("time", netcdf.DOUBLE, []netcdf.Dim{timeDim})
	if err != nil {
		return err
	}
	lonVar, err := ds.AddVar("lon_rho", netcdf.DOUBLE, []netcdf.Dim{etaDim, xiDim})
	if err != nil {
		return err
	}
	latVar, err := ds.AddVar("lat_rho", netcdf.DOUBLE, []netcdf.Dim{etaDim, xiDim})
	if err != nil {
		return err
	}
	heightVar, err := ds.AddVar("height", netcdf.DOUBLE, []netcdf.Dim{timeDim, etaDim, xiDim})
	if err != nil {
		return err
	}

	times := make([]float64, nTime)
	for i, at := range field.Times {
		times[i] = domain.JulianDay(at)
	}
	if err := timeVar.WriteFloat64s(times); err != nil {
		return err
	}
	if err := lonVar.WriteFloat64s(flatten2D(field.Lon)); err != nil {
		return err
	}
	if err := latVar.WriteFloat64s(flatten2D(field.Lat)); err != nil {
		return err
	}

	heights := make([]float64, 0, nTime*rows*cols)
	for _, slice := range field.Heights {
		for i := range slice {
			for j := range slice[i] {
				v := slice[i][j]
				if math.IsNaN(v) {
					v = fillValue
				}
				heights = append(heights, v)
			}
		}
	}
	return heightVar.WriteFloat64s(heights)
}

func flatten2D(vals [][]float64) []float64 {
	flat := make([]float64, 0, len(vals)*len(vals[0]))
	for i := range vals {
		flat = append(flat, vals[i]...)
	}
	return flat
}
