// Package main provides the tide synthesis HTTP server.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/soundtide/soundtide/internal/adapter/grid"
	"github.com/soundtide/soundtide/internal/adapter/interp"
	"github.com/soundtide/soundtide/internal/adapter/store/csv"
	"github.com/soundtide/soundtide/internal/config"
	"github.com/soundtide/soundtide/internal/domain"
	httpHandler "github.com/soundtide/soundtide/internal/http"
	"github.com/soundtide/soundtide/internal/observability"
	"github.com/soundtide/soundtide/internal/usecase"
)

const version = "0.1.0"

func main() {
	showHelp := flag.Bool("help", false, "Show usage information")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showHelp {
		printUsage()
		return
	}
	if *showVersion {
		fmt.Printf("soundtide version %s\n", version)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting soundtide server...")
	log.Printf("Port: %s", cfg.Port)
	log.Printf("Segments file: %s", cfg.SegmentsPath)
	log.Printf("Harmonics file: %s", cfg.HarmonicsPath)

	loader := csv.NewSegmentStore(cfg.SegmentsPath, cfg.HarmonicsPath)
	table, err := usecase.LoadTable(loader, domain.DefaultInferenceOptions())
	if err != nil {
		log.Fatalf("Failed to build segment table: %v", err)
	}
	log.Printf("Segment table loaded: %d segments", table.Len())

	metrics := observability.NewMetrics()
	metrics.SegmentsLoaded.Set(float64(table.Len()))

	// Grid geometry is optional; without it the server answers point
	// predictions only. Building the grid service at startup precomputes
	// the interpolation weights and fails fast on a bad geometry.
	if cfg.GridPath != "" {
		geometry, err := grid.Load(cfg.GridPath)
		if err != nil {
			log.Fatalf("Failed to load grid geometry: %v", err)
		}
		if _, err := usecase.NewGridService(table, geometry, interp.Options{
			MaxRadiusKm: cfg.InterpRadiusKm,
			Power:       cfg.InterpPower,
		}, metrics); err != nil {
			log.Fatalf("Failed to build gridded interpolation: %v", err)
		}
		log.Printf("Grid geometry loaded: %dx%d, %d water nodes",
			geometry.Rows, geometry.Cols, geometry.WaterCount())
	} else {
		log.Printf("Gridded interpolation disabled (no grid path configured)")
	}

	svc := usecase.NewService(table, cfg.FarThresholdKm, metrics)
	router := httpHandler.SetupRouter(svc, cfg.FarThresholdKm, cfg.CORSAllowedOrigins)

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Server listening on %s", addr)
	log.Printf("Health check: http://localhost:%s/health", cfg.Port)
	log.Printf("API endpoints:")
	log.Printf("  - GET /v1/tides/predictions")
	log.Printf("  - GET /v1/constituents")
	log.Printf("  - GET /v1/segments")
	log.Printf("  - GET /v1/segments/nearest")
	log.Printf("  - GET /v1/segments/:id/inference")
	log.Printf("  - GET /metrics")

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// printUsage prints usage information.
func printUsage() {
	fmt.Printf("soundtide server v%s\n\n", version)
	fmt.Println("USAGE:")
	fmt.Println("  server [flags]")
	fmt.Println()
	fmt.Println("FLAGS:")
	fmt.Println("  -help          Show this help message")
	fmt.Println("  -version       Show version information")
	fmt.Println()
	fmt.Println("ENVIRONMENT VARIABLES:")
	fmt.Println("  SOUNDTIDE_PORT                  Server port (default: 8080)")
	fmt.Println("  SOUNDTIDE_SEGMENTS_PATH         Segments CSV (default: data/segments.csv)")
	fmt.Println("  SOUNDTIDE_HARMONICS_PATH        Harmonics CSV (default: data/harmonics.csv)")
	fmt.Println("  SOUNDTIDE_GRID_PATH             Grid geometry NetCDF (optional)")
	fmt.Println("  SOUNDTIDE_FAR_THRESHOLD_KM      Nearest-segment far flag distance (default: 25)")
	fmt.Println("  SOUNDTIDE_INTERP_RADIUS_KM      Gridded interpolation radius (default: 15)")
	fmt.Println("  SOUNDTIDE_INTERP_POWER          Inverse-distance power (default: 2)")
	fmt.Println("  SOUNDTIDE_CORS_ALLOWED_ORIGINS  Comma-separated origins (default: all)")
	fmt.Println()
	fmt.Println("API ENDPOINTS:")
	fmt.Println("  GET /health                       Health check")
	fmt.Println("  GET /metrics                      Prometheus metrics")
	fmt.Println("  GET /v1/constituents              List the constituent catalog")
	fmt.Println("  GET /v1/segments                  List segments")
	fmt.Println("  GET /v1/segments/nearest          Locate the nearest segment")
	fmt.Println("  GET /v1/segments/:id/inference    Measured vs inferred constituents")
	fmt.Println("  GET /v1/tides/predictions         Tide height predictions")
	fmt.Println()
}
