package domain

// Test fixtures modeled on the channel table's Seattle reference record and
// the Elliott Bay segment that infers its minors from it. Amplitudes and
// phases are representative, not survey values.

func fullHarmonicSet() map[int]RawHarmonic {
	h := make(map[int]RawHarmonic, NumConstituents)
	for i := 0; i < NumConstituents; i++ {
		h[i] = RawHarmonic{
			AmplitudeM: 0.005 + 0.0015*float64(i),
			PhaseDeg:   float64((i * 41) % 360),
		}
	}
	h[CM2] = RawHarmonic{AmplitudeM: 1.067, PhaseDeg: 10.5}
	h[CS2] = RawHarmonic{AmplitudeM: 0.259, PhaseDeg: 38.9}
	h[CN2] = RawHarmonic{AmplitudeM: 0.214, PhaseDeg: 342.3}
	h[CK1] = RawHarmonic{AmplitudeM: 0.834, PhaseDeg: 289.6}
	h[CO1] = RawHarmonic{AmplitudeM: 0.459, PhaseDeg: 264.8}
	h[CP1] = RawHarmonic{AmplitudeM: 0.260, PhaseDeg: 287.1}
	h[CK2] = RawHarmonic{AmplitudeM: 0.071, PhaseDeg: 31.2}
	h[CM4] = RawHarmonic{AmplitudeM: 0.021, PhaseDeg: 177.4}
	return h
}

func referenceSegment() RawSegment {
	return RawSegment{
		ID:        17,
		Name:      "Seattle",
		Reference: "Seattle",
		Lon:       -122.339,
		Lat:       47.603,
		MeanM:     1.98,
		Harmonics: fullHarmonicSet(),
	}
}

func elliottBaySegment() RawSegment {
	return RawSegment{
		ID:        497,
		Name:      "Elliott_Bay",
		Reference: "Seattle",
		Lon:       -122.347915,
		Lat:       47.591075,
		MeanM:     2.02,
		Harmonics: map[int]RawHarmonic{
			CM2: {AmplitudeM: 1.071, PhaseDeg: 11.0},
			CS2: {AmplitudeM: 0.261, PhaseDeg: 39.4},
			CN2: {AmplitudeM: 0.216, PhaseDeg: 342.9},
			CK1: {AmplitudeM: 0.838, PhaseDeg: 290.1},
			CO1: {AmplitudeM: 0.461, PhaseDeg: 265.2},
		},
	}
}

func testTable(t interface{ Fatalf(string, ...any) }) *Table {
	tbl, err := NewTable([]RawSegment{referenceSegment(), elliottBaySegment()}, DefaultInferenceOptions())
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	return tbl
}
