package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/RanaDarpan/agrisense-analysis/internal/config"
	"github.com/RanaDarpan/agrisense-analysis/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces analysis reports to the sink topic.
// It implements pipeline.BatchPublisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishBatch serializes and publishes multiple reports in a single
// WriteMessages call for efficiency.
func (w *Writer) PublishBatch(ctx context.Context, reports []domain.AnalysisReport) error {
	if len(reports) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(reports))
	for i := range reports {
		msg, err := serializeToMessage(reports[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals an AnalysisReport into a Kafka message.
// The farm ID keys the message so reports for one farm stay ordered
// within a partition; headers let consumers route without unmarshalling.
func serializeToMessage(report domain.AnalysisReport) (kafkago.Message, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize analysis report: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(report.FarmID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "crop_status", Value: []byte(report.Health.Status)},
			{Key: "alert_count", Value: []byte(strconv.Itoa(len(report.Alerts)))},
			{Key: "processed_at", Value: []byte(report.ProcessedAt.Format(time.RFC3339))},
		},
	}, nil
}
