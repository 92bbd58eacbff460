package domain

import (
	"math"
	"time"
)

const minutesPerDay = 24.0 * 60.0

// maxWindowSamples bounds how far a window may expand. SampleCount converts
// the step count float to int, which is only safe well inside the int range;
// 10 million samples is about 19 years at one-minute resolution.
const maxWindowSamples = 10_000_000

// TimeWindow describes a prediction window: an absolute start instant, a
// sampling interval in minutes and a duration in days.
type TimeWindow struct {
	Start       time.Time
	IntervalMin float64
	Days        float64
}

// Validate rejects windows the synthesizer cannot honor.
func (w TimeWindow) Validate() error {
	if w.Start.IsZero() {
		return &InputError{Param: "start", Reason: "start instant is required"}
	}
	if !isFinite(w.IntervalMin) || w.IntervalMin <= 0 {
		return &InputError{Param: "interval", Reason: "interval must be a positive number of minutes"}
	}
	if !isFinite(w.Days) || w.Days <= 0 {
		return &InputError{Param: "days", Reason: "duration must be a positive number of days"}
	}
	if w.Days*minutesPerDay/w.IntervalMin > maxWindowSamples {
		return &InputError{Param: "days", Reason: "window expands to too many samples"}
	}
	return nil
}

// SampleCount is the number of instants in the window, inclusive of both
// endpoints: round(days*1440/interval) + 1. Rounding to the nearest whole
// step means a window that is not an exact multiple of the interval ends at
// the closest sample to its nominal end.
func (w TimeWindow) SampleCount() int {
	return int(math.Round(w.Days*minutesPerDay/w.IntervalMin)) + 1
}

// Times expands the window into its ordered sample instants.
func (w TimeWindow) Times() []time.Time {
	n := w.SampleCount()
	step := time.Duration(w.IntervalMin * float64(time.Minute))
	times := make([]time.Time, n)
	for i := 0; i < n; i++ {
		times[i] = w.Start.Add(time.Duration(i) * step)
	}
	return times
}

// Sample is one predicted water-surface height at an instant.
type Sample struct {
	Time    time.Time
	HeightM float64
}

// TideSeries is the ordered height series for one segment over one window,
// in meters above the table's MLLW datum. It is immutable once returned.
type TideSeries struct {
	SegmentID int
	Samples   []Sample
}

// HeightAtState evaluates the harmonic sum for one segment against a
// precomputed astronomical state. Gridded runs compute the state once per
// instant and share it across all segments.
func HeightAtState(seg *SegmentRecord, st *AstroState) float64 {
	h := seg.MeanM
	for i := range Catalog {
		hc := &seg.Harmonics[i]
		if hc.AmplitudeM == 0 {
			continue
		}
		h += st.F[i] * hc.AmplitudeM * math.Cos(st.V0[i]+st.U[i]-Deg2Rad(hc.PhaseDeg))
	}
	return h
}

// HeightAt predicts the water-surface height at one instant.
func HeightAt(seg *SegmentRecord, t time.Time) (float64, error) {
	st, err := Arguments(t)
	if err != nil {
		return 0, err
	}
	return HeightAtState(seg, &st), nil
}

// Predict synthesizes the full tide series for a segment over a window. The
// computation is pure: identical inputs produce bit-identical series, and a
// window split into adjacent sub-windows concatenates to the same values.
func Predict(seg *SegmentRecord, w TimeWindow) (TideSeries, error) {
	if err := w.Validate(); err != nil {
		return TideSeries{}, err
	}
	times := w.Times()
	samples := make([]Sample, len(times))
	for i, t := range times {
		h, err := HeightAt(seg, t)
		if err != nil {
			return TideSeries{}, err
		}
		samples[i] = Sample{Time: t, HeightM: h}
	}
	return TideSeries{SegmentID: seg.ID, Samples: samples}, nil
}

// Extrema are the high and low tide events detected in a series.
type Extrema struct {
	Highs []Sample
	Lows  []Sample
}

// FindExtrema locates high and low tides by first-derivative sign change.
func FindExtrema(samples []Sample) Extrema {
	ex := Extrema{Highs: []Sample{}, Lows: []Sample{}}
	for i := 1; i < len(samples)-1; i++ {
		prev := samples[i-1].HeightM
		curr := samples[i].HeightM
		next := samples[i+1].HeightM
		if curr > prev && curr > next {
			ex.Highs = append(ex.Highs, refineExtremum(samples[i-1], samples[i], samples[i+1]))
		}
		if curr < prev && curr < next {
			ex.Lows = append(ex.Lows, refineExtremum(samples[i-1], samples[i], samples[i+1]))
		}
	}
	return ex
}

// refineExtremum fits a parabola through the three samples around a discrete
// extremum and returns its vertex. Falls back to the discrete peak when the
// spacing is non-uniform or the fit degenerates.
func refineExtremum(before, peak, after Sample) Sample {
	dt1 := peak.Time.Sub(before.Time).Hours()
	dt2 := after.Time.Sub(peak.Time).Hours()
	if math.Abs(dt1-dt2) > 1e-6 {
		return peak
	}

	h0, h1, h2 := before.HeightM, peak.HeightM, after.HeightM
	a := (h2 - 2*h1 + h0) / (2 * dt1 * dt1)
	b := (h2 - h0) / (2 * dt1)
	if math.Abs(a) < 1e-10 {
		return peak
	}

	dtVertex := -b / (2 * a)
	if math.Abs(dtVertex) > dt1 {
		return peak
	}
	return Sample{
		Time:    peak.Time.Add(time.Duration(dtVertex * float64(time.Hour))),
		HeightM: h1 + b*dtVertex + a*dtVertex*dtVertex,
	}
}
