package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/soundtide/soundtide/internal/domain"
	"github.com/soundtide/soundtide/internal/usecase"
)

// Handler handles HTTP requests for the synthesis engine.
type Handler struct {
	svc   *usecase.Service
	farKm float64
}

// NewHandler creates a new HTTP handler.
func NewHandler(svc *usecase.Service, farThresholdKm float64) *Handler {
	return &Handler{svc: svc, farKm: farThresholdKm}
}

// errStatus maps domain errors to HTTP status codes.
func errStatus(err error) int {
	var inputErr *domain.InputError
	if errors.As(err, &inputErr) {
		return http.StatusBadRequest
	}
	var nfErr *domain.NotFoundError
	if errors.As(err, &nfErr) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func abortWith(c *gin.Context, err error) {
	c.JSON(errStatus(err), gin.H{"error": err.Error()})
}

// GetPredictions handles GET /v1/tides/predictions.
func (h *Handler) GetPredictions(c *gin.Context) {
	req := usecase.PredictionRequest{
		Units:    c.Query("units"),
		Timezone: c.Query("timezone"),
	}

	if idStr := c.Query("segment_id"); idStr != "" {
		id, err := strconv.Atoi(idStr)
		if err != nil {
			abortWith(c, &domain.InputError{Param: "segment_id", Reason: err.Error()})
			return
		}
		req.SegmentID = &id
	}

	latStr, lonStr := c.Query("lat"), c.Query("lon")
	if latStr != "" || lonStr != "" {
		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			abortWith(c, &domain.InputError{Param: "lat", Reason: fmt.Sprintf("invalid latitude: %v", err)})
			return
		}
		lon, err := strconv.ParseFloat(lonStr, 64)
		if err != nil {
			abortWith(c, &domain.InputError{Param: "lon", Reason: fmt.Sprintf("invalid longitude: %v", err)})
			return
		}
		req.Lat = &lat
		req.Lon = &lon
	}

	startStr := c.Query("start")
	if startStr == "" {
		abortWith(c, &domain.InputError{Param: "start", Reason: "start parameter is required"})
		return
	}
	start, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		abortWith(c, &domain.InputError{Param: "start", Reason: fmt.Sprintf("expected RFC3339: %v", err)})
		return
	}
	req.Start = start.UTC()

	req.IntervalMin = 60
	if s := c.Query("interval"); s != "" {
		req.IntervalMin, err = strconv.ParseFloat(s, 64)
		if err != nil {
			abortWith(c, &domain.InputError{Param: "interval", Reason: err.Error()})
			return
		}
	}
	req.Days = 1
	if s := c.Query("days"); s != "" {
		req.Days, err = strconv.ParseFloat(s, 64)
		if err != nil {
			abortWith(c, &domain.InputError{Param: "days", Reason: err.Error()})
			return
		}
	}

	response, err := h.svc.Execute(req)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// ConstituentInfo describes one catalog entry.
type ConstituentInfo struct {
	Name          string  `json:"name"`
	SpeedDegPerHr float64 `json:"speed_deg_per_hr"`
	Species       int     `json:"species"`
}

// GetConstituents handles GET /v1/constituents.
func (h *Handler) GetConstituents(c *gin.Context) {
	response := make([]ConstituentInfo, len(domain.Catalog))
	for i, con := range domain.Catalog {
		response[i] = ConstituentInfo{
			Name:          con.Name,
			SpeedDegPerHr: con.SpeedDegPerHr,
			Species:       con.Species,
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"constituents": response,
		"count":        len(response),
	})
}

// SegmentInfo summarizes one segment for listing.
type SegmentInfo struct {
	SegmentID int     `json:"segment_id"`
	Name      string  `json:"name"`
	Reference string  `json:"reference"`
	Lon       float64 `json:"lon"`
	Lat       float64 `json:"lat"`
	MeanM     float64 `json:"mean_m"`
}

// GetSegments handles GET /v1/segments.
func (h *Handler) GetSegments(c *gin.Context) {
	segments := h.svc.Table().Segments()
	response := make([]SegmentInfo, len(segments))
	for i, seg := range segments {
		response[i] = SegmentInfo{
			SegmentID: seg.ID,
			Name:      seg.Name,
			Reference: seg.Reference,
			Lon:       seg.Lon,
			Lat:       seg.Lat,
			MeanM:     seg.MeanM,
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"segments": response,
		"count":    len(response),
	})
}

// GetNearestSegment handles GET /v1/segments/nearest.
func (h *Handler) GetNearestSegment(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		abortWith(c, &domain.InputError{Param: "lat", Reason: fmt.Sprintf("invalid latitude: %v", err)})
		return
	}
	lon, err := strconv.ParseFloat(c.Query("lon"), 64)
	if err != nil {
		abortWith(c, &domain.InputError{Param: "lon", Reason: fmt.Sprintf("invalid longitude: %v", err)})
		return
	}

	result, err := h.svc.Table().Nearest(lon, lat, h.farKm)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetInferenceReport handles GET /v1/segments/:id/inference.
func (h *Handler) GetInferenceReport(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		abortWith(c, &domain.InputError{Param: "id", Reason: err.Error()})
		return
	}
	report, err := h.svc.Table().InferenceReport(id)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"segments": h.svc.Table().Len(),
		"time":     time.Now().UTC().Format(time.RFC3339),
	})
}
