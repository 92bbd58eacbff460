package domain

import (
	"errors"
	"math"
	"testing"
)

func TestTableInfersAllMissingConstituents(t *testing.T) {
	tbl := testTable(t)
	seg, err := tbl.Segment(497)
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}
	for i := range seg.Harmonics {
		if seg.Harmonics[i].AmplitudeM <= 0 {
			t.Errorf("%s: amplitude %v, every constituent must be populated after inference",
				Catalog[i].Name, seg.Harmonics[i].AmplitudeM)
		}
	}

	supplied := map[int]bool{CM2: true, CS2: true, CN2: true, CK1: true, CO1: true}
	for i := range seg.Harmonics {
		if supplied[i] && seg.Harmonics[i].Inferred {
			t.Errorf("%s was supplied but is flagged inferred", Catalog[i].Name)
		}
		if !supplied[i] && !seg.Harmonics[i].Inferred {
			t.Errorf("%s was missing but is not flagged inferred", Catalog[i].Name)
		}
	}
}

func TestInferenceScalesWithBasisAmplitudes(t *testing.T) {
	// Doubling the partial segment's basis amplitudes must double every
	// inferred amplitude of the same species group and leave phases alone.
	ref := referenceSegment()
	eb := elliottBaySegment()
	scaled := elliottBaySegment()
	scaled.ID = 498
	scaled.Name = "Elliott_Bay_x2"
	for idx, h := range scaled.Harmonics {
		h.AmplitudeM *= 2
		scaled.Harmonics[idx] = h
	}

	tbl, err := NewTable([]RawSegment{ref, eb, scaled}, DefaultInferenceOptions())
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	base, _ := tbl.Segment(497)
	twice, _ := tbl.Segment(498)
	for i := range base.Harmonics {
		if !base.Harmonics[i].Inferred {
			continue
		}
		want := 2 * base.Harmonics[i].AmplitudeM
		if got := twice.Harmonics[i].AmplitudeM; math.Abs(got-want) > 1e-12 {
			t.Errorf("%s: inferred amplitude %v, want %v", Catalog[i].Name, got, want)
		}
		if got := twice.Harmonics[i].PhaseDeg; math.Abs(got-base.Harmonics[i].PhaseDeg) > 1e-9 {
			t.Errorf("%s: inferred phase changed with amplitude scaling", Catalog[i].Name)
		}
	}
}

func TestInferencePhaseShiftWrapsCleanly(t *testing.T) {
	// Basis phase differences straddling the 0/360 wrap must average to a
	// small shift, not to ~180 degrees.
	ref := referenceSegment()
	refH := ref.Harmonics
	refH[CM2] = RawHarmonic{AmplitudeM: 1.0, PhaseDeg: 359.0}
	refH[CS2] = RawHarmonic{AmplitudeM: 0.25, PhaseDeg: 1.0}
	refH[CN2] = RawHarmonic{AmplitudeM: 0.20, PhaseDeg: 0.0}

	part := RawSegment{
		ID: 900, Name: "Wraparound", Reference: "Seattle",
		Lon: -122.4, Lat: 47.6, MeanM: 2.0,
		Harmonics: map[int]RawHarmonic{
			CM2: {AmplitudeM: 1.0, PhaseDeg: 1.0},  // +2 across the wrap
			CS2: {AmplitudeM: 0.25, PhaseDeg: 3.0}, // +2
			CN2: {AmplitudeM: 0.20, PhaseDeg: 2.0}, // +2
			CK1: {AmplitudeM: 0.8, PhaseDeg: 290.0},
			CO1: {AmplitudeM: 0.45, PhaseDeg: 265.0},
		},
	}
	tbl, err := NewTable([]RawSegment{ref, part}, DefaultInferenceOptions())
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	seg, _ := tbl.Segment(900)

	refM4 := refH[CM4].PhaseDeg
	got := seg.Harmonics[CM4].PhaseDeg
	want := norm360(refM4 + 2.0)
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("M4 inferred phase = %v, want %v (shift +2 across the wrap)", got, want)
	}
}

func TestCompleteSegmentTakenVerbatim(t *testing.T) {
	tbl := testTable(t)
	seg, err := tbl.Segment(17)
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}
	want := fullHarmonicSet()
	for i := range seg.Harmonics {
		if seg.Harmonics[i].Inferred {
			t.Errorf("%s flagged inferred on a complete segment", Catalog[i].Name)
		}
		if seg.Harmonics[i].AmplitudeM != want[i].AmplitudeM {
			t.Errorf("%s: amplitude %v, want %v", Catalog[i].Name, seg.Harmonics[i].AmplitudeM, want[i].AmplitudeM)
		}
	}
}

func TestNewTableRejectsDuplicateIDs(t *testing.T) {
	ref := referenceSegment()
	dup := referenceSegment()
	dup.Name = "Seattle_again"
	_, err := NewTable([]RawSegment{ref, dup}, DefaultInferenceOptions())
	if err == nil {
		t.Fatal("expected duplicate-id error")
	}
	var inputErr *InputError
	if !errors.As(err, &inputErr) {
		t.Errorf("expected InputError, got %T: %v", err, err)
	}
}

func TestNewTableRejectsMissingReference(t *testing.T) {
	eb := elliottBaySegment()
	eb.Reference = "Nowhere"
	_, err := NewTable([]RawSegment{referenceSegment(), eb}, DefaultInferenceOptions())
	if err == nil {
		t.Fatal("expected missing-reference error")
	}
	var nfErr *NotFoundError
	if !errors.As(err, &nfErr) {
		t.Errorf("expected NotFoundError, got %T: %v", err, err)
	}
}

func TestNewTableRejectsIncompleteReference(t *testing.T) {
	ref := referenceSegment()
	delete(ref.Harmonics, CM8)
	_, err := NewTable([]RawSegment{ref, elliottBaySegment()}, DefaultInferenceOptions())
	if err == nil {
		t.Fatal("expected incomplete-reference error")
	}
	var nfErr *NotFoundError
	if !errors.As(err, &nfErr) {
		t.Errorf("expected NotFoundError, got %T: %v", err, err)
	}
}

func TestNewTableRejectsNegativeAmplitude(t *testing.T) {
	ref := referenceSegment()
	ref.Harmonics[CM2] = RawHarmonic{AmplitudeM: -0.5, PhaseDeg: 10}
	_, err := NewTable([]RawSegment{ref}, DefaultInferenceOptions())
	if err == nil {
		t.Fatal("expected validation error for negative amplitude")
	}
}

func TestSegmentLookup(t *testing.T) {
	tbl := testTable(t)
	if _, err := tbl.Segment(999); err == nil {
		t.Error("expected NotFoundError for unknown id")
	}
	segs := tbl.Segments()
	if len(segs) != 2 || tbl.Len() != 2 {
		t.Fatalf("got %d segments, want 2", len(segs))
	}
	if segs[0].ID != 17 || segs[1].ID != 497 {
		t.Errorf("segments not in ascending id order: %d, %d", segs[0].ID, segs[1].ID)
	}
}

func TestInferenceReport(t *testing.T) {
	tbl := testTable(t)
	rep, err := tbl.InferenceReport(497)
	if err != nil {
		t.Fatalf("InferenceReport: %v", err)
	}
	if rep.Reference != "Seattle" {
		t.Errorf("reference = %q, want Seattle", rep.Reference)
	}
	if len(rep.Measured) != 5 {
		t.Errorf("got %d measured constituents, want 5", len(rep.Measured))
	}
	if len(rep.Measured)+len(rep.Inferred) != NumConstituents {
		t.Errorf("measured %d + inferred %d != %d", len(rep.Measured), len(rep.Inferred), NumConstituents)
	}
}

func TestConstituentIndexAliases(t *testing.T) {
	cases := map[string]int{
		"M2":      CM2,
		"m2":      CM2,
		"LAM2":    CLam2,
		"LAMBDA2": CLam2,
		"RHO":     CRho1,
		"OO":      COO1,
		"2MS2":    C2SM2,
	}
	for name, want := range cases {
		got, ok := ConstituentIndex(name)
		if !ok || got != want {
			t.Errorf("ConstituentIndex(%q) = %d, %v; want %d", name, got, ok, want)
		}
	}
	if _, ok := ConstituentIndex("Z9"); ok {
		t.Error("ConstituentIndex accepted an unknown name")
	}
}
