package domain

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestSampleCountInclusive(t *testing.T) {
	cases := []struct {
		interval, days float64
		want           int
	}{
		{60, 1, 25},
		{6, 1, 241},
		{60, 2, 49},
		{30, 0.5, 25},
		{15, 7, 673},
	}
	for _, tc := range cases {
		w := TimeWindow{Start: time.Now(), IntervalMin: tc.interval, Days: tc.days}
		if got := w.SampleCount(); got != tc.want {
			t.Errorf("SampleCount(interval=%v, days=%v) = %d, want %d", tc.interval, tc.days, got, tc.want)
		}
	}
}

func TestWindowValidation(t *testing.T) {
	start := time.Date(2025, 7, 16, 12, 0, 0, 0, time.UTC)
	bad := []TimeWindow{
		{IntervalMin: 60, Days: 1},
		{Start: start, IntervalMin: 0, Days: 1},
		{Start: start, IntervalMin: -6, Days: 1},
		{Start: start, IntervalMin: 60, Days: 0},
		{Start: start, IntervalMin: math.NaN(), Days: 1},
		{Start: start, IntervalMin: 60, Days: math.Inf(1)},
	}
	for i, w := range bad {
		if err := w.Validate(); err == nil {
			t.Errorf("case %d: expected validation error for %+v", i, w)
		}
	}
	if err := (TimeWindow{Start: start, IntervalMin: 60, Days: 1}).Validate(); err != nil {
		t.Errorf("valid window rejected: %v", err)
	}
}

func TestPredictRejectsOversizedWindows(t *testing.T) {
	// A finite but enormous window must fail validation instead of
	// overflowing the sample-count conversion inside Predict.
	tbl := testTable(t)
	seg, err := tbl.Segment(17)
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}
	start := time.Date(2025, 7, 16, 12, 0, 0, 0, time.UTC)
	huge := []TimeWindow{
		{Start: start, IntervalMin: 60, Days: 1e300},
		{Start: start, IntervalMin: 1e-300, Days: 1},
		{Start: start, IntervalMin: 1, Days: 1e12},
	}
	for i, w := range huge {
		_, err := Predict(seg, w)
		if err == nil {
			t.Fatalf("case %d: Predict accepted %+v", i, w)
		}
		var inputErr *InputError
		if !errors.As(err, &inputErr) {
			t.Errorf("case %d: expected InputError, got %T: %v", i, err, err)
		}
	}
}

func TestPredictDeterministic(t *testing.T) {
	tbl := testTable(t)
	seg, err := tbl.Segment(497)
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}
	w := TimeWindow{
		Start:       time.Date(2025, 7, 16, 12, 0, 0, 0, time.UTC),
		IntervalMin: 60,
		Days:        1,
	}

	s1, err := Predict(seg, w)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	s2, err := Predict(seg, w)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}

	if len(s1.Samples) != 25 {
		t.Fatalf("got %d samples for 1 day at 60 min, want 25", len(s1.Samples))
	}
	for i := range s1.Samples {
		if s1.Samples[i].HeightM != s2.Samples[i].HeightM {
			t.Fatalf("sample %d: %v != %v, synthesis must be bit-for-bit repeatable",
				i, s1.Samples[i].HeightM, s2.Samples[i].HeightM)
		}
	}
}

func TestPredictHeightsWithinNodalEnvelope(t *testing.T) {
	// |h - mean| is bounded by the nodally corrected amplitude sum at each
	// instant. The static amplitude sum is not a valid bound because f can
	// exceed 1 for the lunar families.
	tbl := testTable(t)
	seg, err := tbl.Segment(497)
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}
	w := TimeWindow{
		Start:       time.Date(2025, 7, 16, 12, 0, 0, 0, time.UTC),
		IntervalMin: 6,
		Days:        3,
	}
	series, err := Predict(seg, w)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	for _, s := range series.Samples {
		st, err := Arguments(s.Time)
		if err != nil {
			t.Fatalf("Arguments: %v", err)
		}
		var bound float64
		for i := range seg.Harmonics {
			bound += st.F[i] * seg.Harmonics[i].AmplitudeM
		}
		if dev := math.Abs(s.HeightM - seg.MeanM); dev > bound+1e-9 {
			t.Fatalf("at %v: |h-mean| = %v exceeds envelope %v", s.Time, dev, bound)
		}
	}
}

func TestPredictSplitWindowComposes(t *testing.T) {
	// A 2-day window must equal its two 1-day halves sample for sample.
	// This only holds because nodal corrections are functions of the
	// absolute instant, never of the window that contains it.
	tbl := testTable(t)
	seg, err := tbl.Segment(17)
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}
	start := time.Date(2025, 7, 16, 12, 0, 0, 0, time.UTC)

	whole, err := Predict(seg, TimeWindow{Start: start, IntervalMin: 60, Days: 2})
	if err != nil {
		t.Fatalf("Predict whole: %v", err)
	}
	first, err := Predict(seg, TimeWindow{Start: start, IntervalMin: 60, Days: 1})
	if err != nil {
		t.Fatalf("Predict first half: %v", err)
	}
	second, err := Predict(seg, TimeWindow{Start: start.AddDate(0, 0, 1), IntervalMin: 60, Days: 1})
	if err != nil {
		t.Fatalf("Predict second half: %v", err)
	}

	// First half's last sample and second half's first are the same instant.
	joined := append(append([]Sample{}, first.Samples...), second.Samples[1:]...)
	if len(joined) != len(whole.Samples) {
		t.Fatalf("joined length %d, whole length %d", len(joined), len(whole.Samples))
	}
	for i := range whole.Samples {
		if !whole.Samples[i].Time.Equal(joined[i].Time) {
			t.Fatalf("sample %d: time %v != %v", i, whole.Samples[i].Time, joined[i].Time)
		}
		if whole.Samples[i].HeightM != joined[i].HeightM {
			t.Fatalf("sample %d: height %v != %v, split windows must compose exactly",
				i, whole.Samples[i].HeightM, joined[i].HeightM)
		}
	}
}

func TestHeightAtMatchesSharedState(t *testing.T) {
	tbl := testTable(t)
	seg, err := tbl.Segment(497)
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}
	at := time.Date(2025, 7, 16, 18, 0, 0, 0, time.UTC)

	direct, err := HeightAt(seg, at)
	if err != nil {
		t.Fatalf("HeightAt: %v", err)
	}
	st, err := Arguments(at)
	if err != nil {
		t.Fatalf("Arguments: %v", err)
	}
	if shared := HeightAtState(seg, &st); shared != direct {
		t.Errorf("HeightAtState = %v, HeightAt = %v, must agree exactly", shared, direct)
	}
}

func TestFindExtremaAlternates(t *testing.T) {
	tbl := testTable(t)
	seg, err := tbl.Segment(17)
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}
	series, err := Predict(seg, TimeWindow{
		Start:       time.Date(2025, 7, 16, 0, 0, 0, 0, time.UTC),
		IntervalMin: 6,
		Days:        2,
	})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	ex := FindExtrema(series.Samples)

	// A mixed semidiurnal regime over two days yields 3 to 4 of each.
	if len(ex.Highs) < 2 || len(ex.Highs) > 5 {
		t.Errorf("got %d highs over 2 days, expected a semidiurnal count", len(ex.Highs))
	}
	if len(ex.Lows) < 2 || len(ex.Lows) > 5 {
		t.Errorf("got %d lows over 2 days, expected a semidiurnal count", len(ex.Lows))
	}
	for _, h := range ex.Highs {
		for _, l := range ex.Lows {
			if h.Time.Equal(l.Time) {
				t.Errorf("instant %v reported as both high and low", h.Time)
			}
		}
	}
	for _, h := range ex.Highs {
		if h.HeightM <= seg.MeanM {
			t.Errorf("high tide %v m at %v is not above the mean %v m", h.HeightM, h.Time, seg.MeanM)
		}
	}
}

func TestRefineExtremumRecoversParabolaVertex(t *testing.T) {
	// Samples taken from h(x) = 3 - (x-0.25)^2 at x = -1, 0, 1 hours. The
	// refinement must land on the vertex at x = 0.25, h = 3.
	base := time.Date(2025, 7, 16, 12, 0, 0, 0, time.UTC)
	f := func(x float64) float64 { return 3 - (x-0.25)*(x-0.25) }
	got := refineExtremum(
		Sample{Time: base.Add(-time.Hour), HeightM: f(-1)},
		Sample{Time: base, HeightM: f(0)},
		Sample{Time: base.Add(time.Hour), HeightM: f(1)},
	)
	if math.Abs(got.HeightM-3.0) > 1e-9 {
		t.Errorf("vertex height = %v, want 3.0", got.HeightM)
	}
	if dt := got.Time.Sub(base).Minutes(); math.Abs(dt-15) > 1e-6 {
		t.Errorf("vertex offset = %v min, want 15", dt)
	}
}
