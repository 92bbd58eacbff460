package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundtide/soundtide/internal/domain"
	"github.com/soundtide/soundtide/internal/usecase"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	full := make(map[int]domain.RawHarmonic, domain.NumConstituents)
	for i := 0; i < domain.NumConstituents; i++ {
		full[i] = domain.RawHarmonic{AmplitudeM: 0.01, PhaseDeg: float64((i * 29) % 360)}
	}
	full[domain.CM2] = domain.RawHarmonic{AmplitudeM: 1.067, PhaseDeg: 10.5}
	full[domain.CK1] = domain.RawHarmonic{AmplitudeM: 0.834, PhaseDeg: 289.6}

	raw := []domain.RawSegment{
		{
			ID: 17, Name: "Seattle", Reference: "Seattle",
			Lon: -122.339, Lat: 47.603, MeanM: 1.98,
			Harmonics: full,
		},
		{
			ID: 497, Name: "Elliott_Bay", Reference: "Seattle",
			Lon: -122.347915, Lat: 47.591075, MeanM: 2.02,
			Harmonics: map[int]domain.RawHarmonic{
				domain.CM2: {AmplitudeM: 1.071, PhaseDeg: 11.0},
				domain.CS2: {AmplitudeM: 0.261, PhaseDeg: 39.4},
				domain.CN2: {AmplitudeM: 0.216, PhaseDeg: 342.9},
				domain.CK1: {AmplitudeM: 0.838, PhaseDeg: 290.1},
				domain.CO1: {AmplitudeM: 0.461, PhaseDeg: 265.2},
			},
		},
	}
	table, err := domain.NewTable(raw, domain.DefaultInferenceOptions())
	require.NoError(t, err)

	svc := usecase.NewService(table, 25, nil)
	return SetupRouter(svc, 25, nil)
}

func doGet(t *testing.T, router *gin.Engine, url string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)
	w := doGet(t, router, "/health")
	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.EqualValues(t, 2, body["segments"])
}

func TestPredictionsEndpoint(t *testing.T) {
	router := newTestRouter(t)
	w := doGet(t, router, "/v1/tides/predictions?segment_id=497&start=2025-07-16T12:00:00Z&interval=60&days=1")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp usecase.PredictionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 497, resp.SegmentID)
	assert.Len(t, resp.Predictions, 25)
}

func TestPredictionsEndpointErrors(t *testing.T) {
	router := newTestRouter(t)
	cases := []struct {
		name string
		url  string
		code int
	}{
		{"missing start", "/v1/tides/predictions?segment_id=497", http.StatusBadRequest},
		{"bad start", "/v1/tides/predictions?segment_id=497&start=yesterday", http.StatusBadRequest},
		{"no selector", "/v1/tides/predictions?start=2025-07-16T12:00:00Z", http.StatusBadRequest},
		{"unknown segment", "/v1/tides/predictions?segment_id=9999&start=2025-07-16T12:00:00Z", http.StatusNotFound},
		{"bad units", "/v1/tides/predictions?segment_id=497&start=2025-07-16T12:00:00Z&units=cubits", http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doGet(t, router, tc.url)
			assert.Equal(t, tc.code, w.Code)
		})
	}
}

func TestConstituentsEndpoint(t *testing.T) {
	router := newTestRouter(t)
	w := doGet(t, router, "/v1/constituents")
	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Constituents []ConstituentInfo `json:"constituents"`
		Count        int               `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, domain.NumConstituents, body.Count)
	assert.Equal(t, "Sa", body.Constituents[0].Name)
	assert.Equal(t, "M8", body.Constituents[len(body.Constituents)-1].Name)
}

func TestSegmentsEndpoint(t *testing.T) {
	router := newTestRouter(t)
	w := doGet(t, router, "/v1/segments")
	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Segments []SegmentInfo `json:"segments"`
		Count    int           `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Count)
	assert.Equal(t, 17, body.Segments[0].SegmentID)
}

func TestNearestEndpoint(t *testing.T) {
	router := newTestRouter(t)
	w := doGet(t, router, "/v1/segments/nearest?lon=-122.3480&lat=47.5911")
	assert.Equal(t, http.StatusOK, w.Code)

	var result domain.NearestResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 497, result.SegmentID)
	assert.False(t, result.Far)

	w = doGet(t, router, "/v1/segments/nearest?lon=oops&lat=47.5")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInferenceEndpoint(t *testing.T) {
	router := newTestRouter(t)
	w := doGet(t, router, "/v1/segments/497/inference")
	assert.Equal(t, http.StatusOK, w.Code)

	var report domain.InferenceReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, "Seattle", report.Reference)
	assert.Len(t, report.Measured, 5)
	assert.Len(t, report.Inferred, domain.NumConstituents-5)

	w = doGet(t, router, "/v1/segments/9999/inference")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
