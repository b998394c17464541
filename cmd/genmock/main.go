// Command genmock generates analysis request and report fixtures for
// test suites and local topic seeding. It runs the actual analysis chain
// over deterministic synthetic reflectance so the report fixtures match
// real pipeline behavior.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -farms 25 \
//	  -requests-out data/mock/analysis_requests.json \
//	  -reports-out data/mock/analysis_reports.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/RanaDarpan/agrisense-analysis/internal/adapter/sentinel"
	"github.com/RanaDarpan/agrisense-analysis/internal/domain"
	"github.com/RanaDarpan/agrisense-analysis/internal/pipeline"
	"github.com/jonboulle/clockwork"
)

var cropTypes = []struct {
	crop  string
	stage string
}{
	{"wheat", "vegetative"},
	{"rice", "flowering"},
	{"cotton", "fruiting"},
	{"corn", "vegetative"},
	{"tomato", "flowering"},
	{"sugarcane", "maturity"},
	{"potato", "seedling"},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	farms := flag.Int("farms", 25, "number of farm requests to generate")
	requestsOut := flag.String("requests-out", "", "output path for the request JSON fixture")
	reportsOut := flag.String("reports-out", "", "output path for the report JSON fixture")
	flag.Parse()

	if *requestsOut == "" || *reportsOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -requests-out, -reports-out")
	}

	// Set a fixed clock for reproducible timestamps, report IDs, and
	// alert expiries.
	restore := domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2026, time.June, 15, 9, 0, 0, 0, time.UTC),
	))
	defer restore()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	analyzer := pipeline.NewAnalyzer(
		sentinel.NewClient("", time.Second, logger, nil),
		nil,
		logger,
	)

	requests := make([]json.RawMessage, 0, *farms)
	reports := make([]domain.AnalysisReport, 0, *farms)

	for i := 0; i < *farms; i++ {
		payload := requestJSON(i)
		requests = append(requests, payload)

		report, err := analyzer.Analyze(context.Background(), domain.RawMessage{Value: payload})
		if err != nil {
			return fmt.Errorf("analyzing farm %d: %w", i, err)
		}
		reports = append(reports, report)
	}

	if err := writeJSON(*requestsOut, requests); err != nil {
		return fmt.Errorf("writing request fixture: %w", err)
	}
	log.Printf("wrote request fixture: %s", *requestsOut)

	if err := writeJSON(*reportsOut, reports); err != nil {
		return fmt.Errorf("writing report fixture: %w", err)
	}
	log.Printf("wrote report fixture: %s", *reportsOut)

	printStats(reports)
	return nil
}

// requestJSON builds a deterministic analysis request. Fields spread over
// a grid of ~1 km fields across northern India so the synthetic seeds,
// and therefore the assessments, vary between farms.
func requestJSON(i int) json.RawMessage {
	ct := cropTypes[i%len(cropTypes)]
	lat := 28.50 + float64(i%10)*0.02
	lon := 77.10 + float64(i/10)*0.02

	payload, err := json.Marshal(map[string]any{
		"farm_id":    fmt.Sprintf("farm-%03d", i),
		"user_id":    fmt.Sprintf("user-%03d", i%7),
		"crop_type":  ct.crop,
		"crop_stage": ct.stage,
		"polygon": [][2]float64{
			{lon, lat},
			{lon + 0.01, lat},
			{lon + 0.01, lat + 0.01},
			{lon, lat + 0.01},
		},
	})
	if err != nil {
		panic(err)
	}
	return payload
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

func printStats(reports []domain.AnalysisReport) {
	statusCounts := map[domain.CropStatus]int{}
	riskCounts := map[domain.RiskLevel]int{}
	var alerts, problems int

	for i := range reports {
		r := &reports[i]
		statusCounts[r.Health.Status]++
		riskCounts[r.Pest.RiskLevel]++
		alerts += len(r.Alerts)
		problems += len(r.Health.Problems)
	}

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Total: %d\n", len(reports))
	fmt.Printf("By status: healthy=%d, moderate=%d, poor=%d, critical=%d\n",
		statusCounts[domain.StatusHealthy], statusCounts[domain.StatusModerate],
		statusCounts[domain.StatusPoor], statusCounts[domain.StatusCritical])
	fmt.Printf("By pest risk: low=%d, medium=%d, high=%d\n",
		riskCounts[domain.RiskLow], riskCounts[domain.RiskMedium], riskCounts[domain.RiskHigh])
	fmt.Printf("Problems detected: %d\n", problems)
	fmt.Printf("Alerts generated: %d\n", alerts)

	if len(reports) > 0 {
		r := &reports[0]
		fmt.Printf("\nFirst report:\n")
		fmt.Printf("  ID: %s\n", r.ID)
		fmt.Printf("  NDVI: %g, NDMI: %g, BSI: %g\n", r.Health.Indices.NDVI, r.Health.Indices.NDMI, r.Health.Indices.BSI)
		fmt.Printf("  Health: %d (%s)\n", r.Health.HealthScore, r.Health.Status)
		fmt.Printf("  Pest: %s (score %d)\n", r.Pest.RiskLevel, r.Pest.RiskScore)
		fmt.Printf("  Area: %.2f ha\n", r.AreaHa)
	}
}
