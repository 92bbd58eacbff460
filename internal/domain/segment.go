package domain

import (
	"fmt"
	"math"
	"sort"
	"strconv"
)

// Harmonic is one constituent's local amplitude and phase lag at a segment.
// Inferred marks values derived from the reference segment rather than
// supplied by the table asset.
type Harmonic struct {
	AmplitudeM float64
	PhaseDeg   float64
	Inferred   bool
}

// SegmentRecord is one discrete channel segment of the model. Records are
// immutable after table construction and safe to share across goroutines.
type SegmentRecord struct {
	ID        int
	Name      string
	Reference string // name of the segment minors were inferred from
	Lon       float64
	Lat       float64
	MeanM     float64 // mean water level above MLLW, meters
	Harmonics [NumConstituents]Harmonic
}

// AmplitudeSumM is the sum of all constituent amplitudes, the static
// half-width of the segment's possible tidal excursion.
func (s *SegmentRecord) AmplitudeSumM() float64 {
	var sum float64
	for i := range s.Harmonics {
		sum += s.Harmonics[i].AmplitudeM
	}
	return sum
}

// RawHarmonic is a constituent entry as parsed from the table asset.
type RawHarmonic struct {
	AmplitudeM float64
	PhaseDeg   float64
}

// RawSegment is a segment as parsed from the table asset, possibly carrying
// only the model's major constituent subset. Harmonics is keyed by catalog
// index.
type RawSegment struct {
	ID        int
	Name      string
	Reference string
	Lon       float64
	Lat       float64
	MeanM     float64
	Harmonics map[int]RawHarmonic
}

// InferenceOptions selects the dominant constituents used as the scaling
// basis when inferring a segment's minor constituents from its reference
// segment. The defaults follow the channel model convention; the exact basis
// is a documented policy choice and may be overridden.
type InferenceOptions struct {
	DiurnalBasis     []int // basis for species 0 and 1 minors
	SemidiurnalBasis []int // basis for species 2 and higher minors
}

// DefaultInferenceOptions returns the standard basis sets.
func DefaultInferenceOptions() InferenceOptions {
	return InferenceOptions{
		DiurnalBasis:     []int{CK1, CO1},
		SemidiurnalBasis: []int{CM2, CS2, CN2},
	}
}

// Table is the immutable constituent table: every segment of the model with
// a complete 37-constituent harmonic set. Concurrent reads need no locking.
type Table struct {
	segments map[int]*SegmentRecord
	ids      []int // ascending
}

// NewTable builds the table from raw parsed segments, applying the
// minor-constituent inference policy once per segment. Segments that supply
// the full catalog are taken as-is; partial segments have their missing
// constituents inferred from the segment named by their Reference field,
// which must itself be fully supplied.
func NewTable(raw []RawSegment, opts InferenceOptions) (*Table, error) {
	if len(raw) == 0 {
		return nil, &InputError{Param: "segments", Reason: "empty segment set"}
	}
	if len(opts.DiurnalBasis) == 0 || len(opts.SemidiurnalBasis) == 0 {
		opts = DefaultInferenceOptions()
	}

	byName := make(map[string]*RawSegment, len(raw))
	byID := make(map[int]*RawSegment, len(raw))
	for i := range raw {
		rs := &raw[i]
		if _, dup := byID[rs.ID]; dup {
			return nil, &InputError{Param: "segment_id", Reason: fmt.Sprintf("duplicate id %d", rs.ID)}
		}
		byID[rs.ID] = rs
		byName[rs.Name] = rs
	}

	t := &Table{segments: make(map[int]*SegmentRecord, len(raw))}
	for i := range raw {
		rs := &raw[i]
		rec, err := buildSegment(rs, byName, opts)
		if err != nil {
			return nil, fmt.Errorf("segment %d (%s): %w", rs.ID, rs.Name, err)
		}
		t.segments[rs.ID] = rec
		t.ids = append(t.ids, rs.ID)
	}
	sort.Ints(t.ids)
	return t, nil
}

func buildSegment(rs *RawSegment, byName map[string]*RawSegment, opts InferenceOptions) (*SegmentRecord, error) {
	rec := &SegmentRecord{
		ID:        rs.ID,
		Name:      rs.Name,
		Reference: rs.Reference,
		Lon:       rs.Lon,
		Lat:       rs.Lat,
		MeanM:     rs.MeanM,
	}
	if !isFinite(rs.Lon) || !isFinite(rs.Lat) || !isFinite(rs.MeanM) {
		return nil, &InputError{Param: "segment", Reason: "non-finite coordinate or mean level"}
	}
	for idx, h := range rs.Harmonics {
		if idx < 0 || idx >= NumConstituents {
			return nil, &NotFoundError{Kind: "constituent", ID: strconv.Itoa(idx)}
		}
		if !isFinite(h.AmplitudeM) || h.AmplitudeM < 0 || !isFinite(h.PhaseDeg) {
			return nil, &InputError{
				Param:  "harmonic " + Catalog[idx].Name,
				Reason: "amplitude must be finite and non-negative, phase finite",
			}
		}
		rec.Harmonics[idx] = Harmonic{AmplitudeM: h.AmplitudeM, PhaseDeg: norm360(h.PhaseDeg)}
	}
	if len(rs.Harmonics) == NumConstituents {
		return rec, nil
	}

	// Partial set: infer the missing constituents from the reference segment.
	ref, ok := byName[rs.Reference]
	if !ok || rs.Reference == "" {
		return nil, &NotFoundError{Kind: "reference segment", ID: rs.Reference}
	}
	if len(ref.Harmonics) != NumConstituents {
		return nil, &NotFoundError{Kind: "reference segment", ID: rs.Reference + " (incomplete constituent set)"}
	}

	diuRatio, diuShift, err := basisScaling(rs, ref, opts.DiurnalBasis)
	if err != nil {
		return nil, err
	}
	semiRatio, semiShift, err := basisScaling(rs, ref, opts.SemidiurnalBasis)
	if err != nil {
		return nil, err
	}

	for idx := 0; idx < NumConstituents; idx++ {
		if _, supplied := rs.Harmonics[idx]; supplied {
			continue
		}
		ratio, shift := semiRatio, semiShift
		if Catalog[idx].Species < 2 {
			ratio, shift = diuRatio, diuShift
		}
		refH := ref.Harmonics[idx]
		rec.Harmonics[idx] = Harmonic{
			AmplitudeM: ratio * refH.AmplitudeM,
			PhaseDeg:   norm360(refH.PhaseDeg + shift),
			Inferred:   true,
		}
	}
	return rec, nil
}

// basisScaling derives the amplitude ratio and phase shift between a segment
// and its reference over the basis constituents supplied by both. The phase
// shift is a circular mean so that lags near the 0/360 wrap average cleanly.
func basisScaling(seg, ref *RawSegment, basis []int) (ratio, shiftDeg float64, err error) {
	var segSum, refSum, sx, sy float64
	n := 0
	for _, idx := range basis {
		sh, okSeg := seg.Harmonics[idx]
		rh, okRef := ref.Harmonics[idx]
		if !okSeg || !okRef {
			continue
		}
		segSum += sh.AmplitudeM
		refSum += rh.AmplitudeM
		d := Deg2Rad(sh.PhaseDeg - rh.PhaseDeg)
		sx += math.Cos(d)
		sy += math.Sin(d)
		n++
	}
	if n == 0 || refSum == 0 {
		return 0, 0, &NotFoundError{Kind: "constituent", ID: "no shared inference basis with " + ref.Name}
	}
	return segSum / refSum, Rad2Deg(math.Atan2(sy, sx)), nil
}

// Segment returns the record for id.
func (t *Table) Segment(id int) (*SegmentRecord, error) {
	seg, ok := t.segments[id]
	if !ok {
		return nil, &NotFoundError{Kind: "segment", ID: strconv.Itoa(id)}
	}
	return seg, nil
}

// Segments returns all records in ascending id order.
func (t *Table) Segments() []*SegmentRecord {
	out := make([]*SegmentRecord, len(t.ids))
	for i, id := range t.ids {
		out[i] = t.segments[id]
	}
	return out
}

// Len returns the number of segments in the table.
func (t *Table) Len() int { return len(t.ids) }

// InferenceReport lists, for one segment, which constituents were measured
// (supplied directly by the table asset) and which were inferred from the
// reference segment.
type InferenceReport struct {
	SegmentID int      `json:"segment_id"`
	Reference string   `json:"reference"`
	Measured  []string `json:"measured"`
	Inferred  []string `json:"inferred"`
}

// InferenceReport builds the measured/inferred breakdown for id.
func (t *Table) InferenceReport(id int) (InferenceReport, error) {
	seg, err := t.Segment(id)
	if err != nil {
		return InferenceReport{}, err
	}
	rep := InferenceReport{SegmentID: id, Reference: seg.Reference}
	for i := range seg.Harmonics {
		if seg.Harmonics[i].Inferred {
			rep.Inferred = append(rep.Inferred, Catalog[i].Name)
		} else {
			rep.Measured = append(rep.Measured, Catalog[i].Name)
		}
	}
	return rep, nil
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
