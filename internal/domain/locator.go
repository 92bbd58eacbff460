package domain

import "math"

// NearestResult identifies the segment closest to a query coordinate. Far is
// set when the distance exceeds the caller's threshold; the match is still
// returned (closest-match is the contract, not containment).
type NearestResult struct {
	SegmentID  int     `json:"segment_id"`
	Name       string  `json:"name"`
	DistanceKm float64 `json:"distance_km"`
	Far        bool    `json:"far"`
}

// Nearest returns the segment whose coordinate is closest to (lon, lat) by
// great-circle distance. Ties break to the lowest segment id. The scan is
// linear over the catalog (~589 segments), which is deliberate: a spatial
// index buys nothing at this size.
func (t *Table) Nearest(lon, lat, farThresholdKm float64) (NearestResult, error) {
	if !isFinite(lon) || !isFinite(lat) {
		return NearestResult{}, &InputError{Param: "coordinate", Reason: "longitude and latitude must be finite"}
	}
	best := NearestResult{SegmentID: -1, DistanceKm: math.MaxFloat64}
	for _, id := range t.ids {
		seg := t.segments[id]
		d := HaversineKm(lat, lon, seg.Lat, seg.Lon)
		if d < best.DistanceKm {
			best = NearestResult{SegmentID: id, Name: seg.Name, DistanceKm: d}
		}
	}
	best.Far = farThresholdKm > 0 && best.DistanceKm > farThresholdKm
	return best, nil
}

// HaversineKm is the great-circle distance between two points in kilometers.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	const R = 6371.0
	dLat := Deg2Rad(lat2 - lat1)
	dLon := Deg2Rad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(Deg2Rad(lat1))*math.Cos(Deg2Rad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return R * c
}
