// Package csv loads the segment table from a pair of CSV assets.
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/soundtide/soundtide/internal/domain"
)

// SegmentStore reads the segment table from two files: a segments file with
// one row per segment, and a harmonics file with one row per (segment,
// constituent) pair. Segments that list only the major constituents rely on
// domain.NewTable to infer the rest from their reference segment.
type SegmentStore struct {
	segmentsPath  string
	harmonicsPath string
}

// NewSegmentStore creates a CSV-backed segment store.
func NewSegmentStore(segmentsPath, harmonicsPath string) *SegmentStore {
	return &SegmentStore{
		segmentsPath:  segmentsPath,
		harmonicsPath: harmonicsPath,
	}
}

var (
	segmentHeaders  = []string{"segment_id", "name", "reference", "longitude", "latitude", "mean_m"}
	harmonicHeaders = []string{"segment_id", "constituent", "amplitude_m", "phase_deg"}
)

// Load reads both files and assembles the raw segment set.
func (s *SegmentStore) Load() ([]domain.RawSegment, error) {
	segments, order, err := s.loadSegments()
	if err != nil {
		return nil, err
	}
	if err := s.loadHarmonics(segments); err != nil {
		return nil, err
	}

	out := make([]domain.RawSegment, 0, len(order))
	for _, id := range order {
		seg := segments[id]
		if len(seg.Harmonics) == 0 {
			return nil, fmt.Errorf("segment %d (%s) has no harmonic constants", seg.ID, seg.Name)
		}
		out = append(out, *seg)
	}
	return out, nil
}

func (s *SegmentStore) loadSegments() (map[int]*domain.RawSegment, []int, error) {
	reader, closeFn, err := openCSV(s.segmentsPath, segmentHeaders)
	if err != nil {
		return nil, nil, fmt.Errorf("segments file: %w", err)
	}
	defer closeFn()

	segments := make(map[int]*domain.RawSegment)
	var order []int
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read segments record: %w", err)
		}
		if len(record) != len(segmentHeaders) {
			return nil, nil, fmt.Errorf("invalid segments record: expected %d columns, got %d", len(segmentHeaders), len(record))
		}

		id, err := strconv.Atoi(strings.TrimSpace(record[0]))
		if err != nil {
			return nil, nil, fmt.Errorf("invalid segment_id %q: %w", record[0], err)
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(record[3]), 64)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid longitude for segment %d: %w", id, err)
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(record[4]), 64)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid latitude for segment %d: %w", id, err)
		}
		mean, err := strconv.ParseFloat(strings.TrimSpace(record[5]), 64)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid mean_m for segment %d: %w", id, err)
		}

		if _, dup := segments[id]; dup {
			return nil, nil, fmt.Errorf("duplicate segment_id %d in segments file", id)
		}
		segments[id] = &domain.RawSegment{
			ID:        id,
			Name:      strings.TrimSpace(record[1]),
			Reference: strings.TrimSpace(record[2]),
			Lon:       lon,
			Lat:       lat,
			MeanM:     mean,
			Harmonics: make(map[int]domain.RawHarmonic),
		}
		order = append(order, id)
	}

	if len(segments) == 0 {
		return nil, nil, fmt.Errorf("no segments found in %s", s.segmentsPath)
	}
	return segments, order, nil
}

func (s *SegmentStore) loadHarmonics(segments map[int]*domain.RawSegment) error {
	reader, closeFn, err := openCSV(s.harmonicsPath, harmonicHeaders)
	if err != nil {
		return fmt.Errorf("harmonics file: %w", err)
	}
	defer closeFn()

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read harmonics record: %w", err)
		}
		if len(record) != len(harmonicHeaders) {
			return fmt.Errorf("invalid harmonics record: expected %d columns, got %d", len(harmonicHeaders), len(record))
		}

		id, err := strconv.Atoi(strings.TrimSpace(record[0]))
		if err != nil {
			return fmt.Errorf("invalid segment_id %q: %w", record[0], err)
		}
		seg, ok := segments[id]
		if !ok {
			return fmt.Errorf("harmonics row references unknown segment %d", id)
		}

		name := strings.TrimSpace(record[1])
		idx, ok := domain.ConstituentIndex(name)
		if !ok {
			return &domain.NotFoundError{Kind: "constituent", ID: name}
		}

		amplitude, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
		if err != nil {
			return fmt.Errorf("invalid amplitude for segment %d constituent %s: %w", id, name, err)
		}
		phase, err := strconv.ParseFloat(strings.TrimSpace(record[3]), 64)
		if err != nil {
			return fmt.Errorf("invalid phase for segment %d constituent %s: %w", id, name, err)
		}
		if _, dup := seg.Harmonics[idx]; dup {
			return fmt.Errorf("duplicate constituent %s for segment %d", name, id)
		}
		seg.Harmonics[idx] = domain.RawHarmonic{AmplitudeM: amplitude, PhaseDeg: phase}
	}
	return nil
}

// openCSV opens a file, validates its header row and returns a ready reader.
func openCSV(path string, expected []string) (*csv.Reader, func(), error) {
	//nolint:gosec // G304: Paths come from startup configuration.
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	closeFn := func() { _ = file.Close() }

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("failed to read header of %s: %w", path, err)
	}
	if len(header) != len(expected) {
		closeFn()
		return nil, nil, fmt.Errorf("invalid header in %s: expected %v, got %v", path, expected, header)
	}
	for i, h := range header {
		if strings.TrimSpace(h) != expected[i] {
			closeFn()
			return nil, nil, fmt.Errorf("invalid header in %s: expected column %d to be %s, got %s", path, i, expected[i], h)
		}
	}
	return reader, closeFn, nil
}
