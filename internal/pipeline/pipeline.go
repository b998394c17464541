package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/RanaDarpan/agrisense-analysis/internal/domain"
	"github.com/RanaDarpan/agrisense-analysis/internal/observability"
)

// BatchExtractor reads up to batchSize raw messages from the source.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawMessage, error)
}

// Analyzer turns a raw analysis request into a finished report.
type Analyzer interface {
	Analyze(ctx context.Context, raw domain.RawMessage) (domain.AnalysisReport, error)
}

// BatchPublisher writes analysis reports to the destination.
type BatchPublisher interface {
	PublishBatch(ctx context.Context, reports []domain.AnalysisReport) error
}

// Pipeline orchestrates the extract-analyze-publish loop.
type Pipeline struct {
	extractor BatchExtractor
	analyzer  Analyzer
	publisher BatchPublisher
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool
	published atomic.Uint64
	batchSize int
}

// New creates a Pipeline with the given stages and observability.
func New(e BatchExtractor, a Analyzer, p BatchPublisher, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Pipeline {
	return &Pipeline{
		extractor: e,
		analyzer:  a,
		publisher: p,
		logger:    logger,
		metrics:   metrics,
		batchSize: batchSize,
	}
}

// CheckReadiness returns nil once the pipeline has published at least one
// report, or an error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not published any reports yet")
	}
	return nil
}

// ReportsPublished returns the number of reports published since start,
// surfaced by the health endpoint.
func (p *Pipeline) ReportsPublished() uint64 {
	return p.published.Load()
}

// Run executes the batch analysis loop until the context is cancelled.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "batch_size", p.batchSize)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	// Exponential backoff: start at 200ms, double each retry, cap at 5s.
	// Keeps recovery prompt without hammering Kafka during an outage.
	backoff := 200 * time.Millisecond
	maxBackoff := 5 * time.Second

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		default:
		}

		if !p.processBatch(ctx, &backoff, maxBackoff) {
			return nil
		}
	}
}

// processBatch runs one extract-analyze-publish cycle. Returns false if
// the pipeline should stop.
func (p *Pipeline) processBatch(ctx context.Context, backoff *time.Duration, maxBackoff time.Duration) bool {
	start := time.Now()

	rawBatch, err := p.extractor.ExtractBatch(ctx, p.batchSize)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		p.logger.Error("extract batch failed", "error", err)
		return p.backoffOrStop(ctx, backoff, maxBackoff)
	}

	if len(rawBatch) == 0 {
		return ctx.Err() == nil
	}

	p.metrics.RequestsConsumed.Add(float64(len(rawBatch)))
	p.metrics.BatchSize.Observe(float64(len(rawBatch)))
	*backoff = 200 * time.Millisecond

	published, ok := p.analyzeAndPublish(ctx, rawBatch, backoff, maxBackoff)
	if !ok {
		return false
	}

	if published > 0 {
		p.metrics.BatchProcessingDuration.Observe(time.Since(start).Seconds())
		p.ready.Store(true)
	}
	return true
}

// analyzeAndPublish analyzes each request in the batch, publishes the
// successes, and commits offsets. A failed request is logged, counted,
// and committed so it is not replayed forever. Returns the number of
// published reports and false if the pipeline should stop.
func (p *Pipeline) analyzeAndPublish(ctx context.Context, rawBatch []domain.RawMessage, backoff *time.Duration, maxBackoff time.Duration) (int, bool) {
	reports := make([]domain.AnalysisReport, 0, len(rawBatch))
	analyzed := make([]domain.RawMessage, 0, len(rawBatch))

	for _, raw := range rawBatch {
		report, err := p.analyzer.Analyze(ctx, raw)
		if err != nil {
			p.logger.Warn("analysis failed, skipping request",
				"error", err,
				"topic", raw.Topic,
				"partition", raw.Partition,
				"offset", raw.Offset,
			)
			p.metrics.AnalysisErrors.Inc()
			p.commitOffset(ctx, raw)
			continue
		}
		for _, alert := range report.Alerts {
			p.metrics.AlertsGenerated.WithLabelValues(string(alert.Category)).Inc()
		}
		reports = append(reports, report)
		analyzed = append(analyzed, raw)
	}

	if len(reports) == 0 {
		return 0, true
	}

	if err := p.publisher.PublishBatch(ctx, reports); err != nil {
		p.logger.Error("publish batch failed", "error", err, "batch_size", len(reports))
		return 0, p.backoffOrStop(ctx, backoff, maxBackoff)
	}

	p.metrics.ReportsProduced.Add(float64(len(reports)))
	p.published.Add(uint64(len(reports)))

	for _, raw := range analyzed {
		p.commitOffset(ctx, raw)
	}

	return len(reports), true
}

// backoffOrStop checks for context cancellation, sleeps with the current
// backoff, and advances it. Returns false if the pipeline should stop.
func (p *Pipeline) backoffOrStop(ctx context.Context, backoff *time.Duration, maxBackoff time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	if !sleepWithContext(ctx, *backoff) {
		return false
	}
	*backoff = nextBackoff(*backoff, maxBackoff)
	return true
}

// commitOffset commits the message offset if a commit function is available.
func (p *Pipeline) commitOffset(ctx context.Context, raw domain.RawMessage) {
	if raw.Commit == nil {
		return
	}
	if err := raw.Commit(ctx); err != nil {
		p.logger.Warn("commit offset failed", "error", err,
			"topic", raw.Topic, "partition", raw.Partition, "offset", raw.Offset)
	}
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
