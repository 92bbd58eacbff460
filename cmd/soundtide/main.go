// Package main provides the command-line tide prediction tool.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/soundtide/soundtide/internal/adapter/store/csv"
	"github.com/soundtide/soundtide/internal/domain"
	"github.com/soundtide/soundtide/internal/usecase"
)

const (
	version      = "0.1.0"
	feetPerMeter = 3.2808
)

type options struct {
	segmentsPath  string
	harmonicsPath string

	segmentID int
	lon, lat  float64
	byCoord   bool

	start    string
	length   float64
	interval float64

	pacific   bool
	feet      bool
	julian    bool
	title     bool
	verbose   bool
	delimiter string
	outfile   string
}

func main() {
	var opts options
	flag.StringVar(&opts.segmentsPath, "segments", "data/segments.csv", "Path to segments CSV")
	flag.StringVar(&opts.harmonicsPath, "harmonics", "data/harmonics.csv", "Path to harmonics CSV")
	flag.IntVar(&opts.segmentID, "segment", 497, "Segment index to predict")
	flag.Float64Var(&opts.lon, "lon", 0, "Longitude, selects the nearest segment (with -lat)")
	flag.Float64Var(&opts.lat, "lat", 0, "Latitude, selects the nearest segment (with -lon)")
	flag.StringVar(&opts.start, "start", "", "Start time, RFC3339 (default: now)")
	flag.Float64Var(&opts.length, "length", 1.0, "Window length in days")
	flag.Float64Var(&opts.interval, "interval", 60, "Sampling interval in minutes")
	flag.BoolVar(&opts.pacific, "pacific", true, "Render times in Pacific time (use -pacific=false for UTC)")
	flag.BoolVar(&opts.feet, "feet", false, "Heights in feet instead of meters")
	flag.BoolVar(&opts.julian, "julian", false, "Render times as Julian day numbers")
	flag.BoolVar(&opts.title, "title", true, "Include the title block in the output")
	flag.BoolVar(&opts.verbose, "verbose", true, "Echo the title block to the terminal")
	flag.StringVar(&opts.delimiter, "delimiter", ",", "Output column delimiter")
	flag.StringVar(&opts.outfile, "outfile", "", "Output file (default: stdout)")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("soundtide version %s\n", version)
		return
	}
	opts.byCoord = flagPassed("lon") && flagPassed("lat")

	if err := run(opts); err != nil {
		log.Fatalf("soundtide: %v", err)
	}
}

func flagPassed(name string) bool {
	passed := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			passed = true
		}
	})
	return passed
}

func run(opts options) error {
	start := time.Now().UTC().Truncate(time.Minute)
	if opts.start != "" {
		parsed, err := time.Parse(time.RFC3339, opts.start)
		if err != nil {
			return fmt.Errorf("invalid -start (expected RFC3339): %w", err)
		}
		start = parsed.UTC()
	}

	loader := csv.NewSegmentStore(opts.segmentsPath, opts.harmonicsPath)
	table, err := usecase.LoadTable(loader, domain.DefaultInferenceOptions())
	if err != nil {
		return err
	}

	seg, err := selectSegment(table, opts)
	if err != nil {
		return err
	}

	series, err := domain.Predict(seg, domain.TimeWindow{
		Start:       start,
		IntervalMin: opts.interval,
		Days:        opts.length,
	})
	if err != nil {
		return err
	}

	out := io.Writer(os.Stdout)
	if opts.outfile != "" {
		f, err := os.Create(opts.outfile)
		if err != nil {
			return fmt.Errorf("unable to write output file %s: %w", opts.outfile, err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	if opts.title {
		writeTitle(out, seg, start, opts)
		if opts.verbose && opts.outfile != "" {
			writeTitle(os.Stdout, seg, start, opts)
		}
	}
	return writeSeries(out, series, opts)
}

func selectSegment(table *domain.Table, opts options) (*domain.SegmentRecord, error) {
	if !opts.byCoord {
		return table.Segment(opts.segmentID)
	}
	res, err := table.Nearest(opts.lon, opts.lat, 25)
	if err != nil {
		return nil, err
	}
	if res.Far {
		fmt.Fprintf(os.Stderr, "warning: nearest segment %d (%s) is %.1f km away\n",
			res.SegmentID, res.Name, res.DistanceKm)
	}
	return table.Segment(res.SegmentID)
}

func writeTitle(w io.Writer, seg *domain.SegmentRecord, start time.Time, opts options) {
	unit := "m"
	unitWord := "meters"
	scale := 1.0
	if opts.feet {
		unit, unitWord, scale = "ft", "feet", feetPerMeter
	}

	fmt.Fprintf(w, "Puget Sound Tide Model: Tide Predictions\n")
	fmt.Fprintf(w, "Segment Index: %d (%s)\n", seg.ID, seg.Name)
	fmt.Fprintf(w, "Longitude: %.6f  Latitude: %.6f\n", seg.Lon, seg.Lat)
	fmt.Fprintf(w, "Minor constituents inferred from %s\n", seg.Reference)
	fmt.Fprintf(w, "Starting time: %s\n", start.Format(time.RFC3339))
	fmt.Fprintf(w, "Time step: %.2f min  Length: %.2f days\n", opts.interval, opts.length)
	fmt.Fprintf(w, "Mean water level: %.2f %s\n\n", seg.MeanM*scale, unit)
	fmt.Fprintf(w, "Predictions generated: %s\n", time.Now().Format(time.ANSIC))
	fmt.Fprintf(w, "Heights in %s above MLLW\n", unitWord)

	switch {
	case opts.julian:
		fmt.Fprintf(w, "Prediction date and time in Julian Days (JD)\n")
		fmt.Fprintf(w, "\nDay%sHeight\n", opts.delimiter)
	case opts.pacific:
		fmt.Fprintf(w, "Prediction date and time in Pacific Time (PST or PDT)\n")
		fmt.Fprintf(w, "\nDatetime%sHeight\n", opts.delimiter)
	default:
		fmt.Fprintf(w, "Prediction date and time in Universal Time (UTC)\n")
		fmt.Fprintf(w, "\nDatetime%sHeight\n", opts.delimiter)
	}
}

func writeSeries(w io.Writer, series domain.TideSeries, opts options) error {
	var loc *time.Location
	if opts.pacific && !opts.julian {
		var err error
		loc, err = time.LoadLocation("America/Los_Angeles")
		if err != nil {
			return fmt.Errorf("time zone database missing America/Los_Angeles: %w", err)
		}
	}

	for _, s := range series.Samples {
		var stamp, height string
		switch {
		case opts.julian:
			stamp = fmt.Sprintf("%12.4f", domain.JulianDay(s.Time))
		case opts.pacific:
			stamp = s.Time.In(loc).Format("2006-01-02 15:04 MST")
		default:
			stamp = s.Time.UTC().Format("2006-01-02 15:04 UTC")
		}
		if opts.feet {
			height = fmt.Sprintf("%.1f", s.HeightM*feetPerMeter)
		} else {
			height = fmt.Sprintf("%.2f", s.HeightM)
		}
		if _, err := fmt.Fprintf(w, "%s%s%s\n", stamp, opts.delimiter, height); err != nil {
			return err
		}
	}
	return nil
}
