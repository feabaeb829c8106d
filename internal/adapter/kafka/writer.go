package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/couchcryptid/solar-sizing-service/internal/config"
	"github.com/couchcryptid/solar-sizing-service/internal/report"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer publishes sizing reports to a Kafka topic.
// It implements report.Publisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured report topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// SiteMessage is the value of each published message.
type SiteMessage struct {
	ReportID    string            `json:"report_id"`
	GeneratedAt time.Time         `json:"generated_at"`
	PanelCount  int               `json:"panel_count"`
	Site        report.SiteSizing `json:"site"`
}

// Publish writes one message per site in a single WriteMessages call.
// Messages are keyed by site name so a site's history stays on one partition.
func (w *Writer) Publish(ctx context.Context, r report.Report) error {
	if len(r.Sites) == 0 {
		return nil
	}
	msgs, err := serializeSiteMessages(r)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d site messages: %w", len(msgs), err)
	}
	w.logger.Debug("site messages written", "report_id", r.ID, "topic", w.writer.Topic, "count", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeSiteMessages marshals each site of r into a Kafka message.
func serializeSiteMessages(r report.Report) ([]kafkago.Message, error) {
	generatedAt := r.GeneratedAt.UTC().Format(time.RFC3339)
	msgs := make([]kafkago.Message, len(r.Sites))
	for i, site := range r.Sites {
		data, err := json.Marshal(SiteMessage{
			ReportID:    r.ID,
			GeneratedAt: r.GeneratedAt,
			PanelCount:  r.PanelCount,
			Site:        site,
		})
		if err != nil {
			return nil, fmt.Errorf("serialize site %q: %w", site.Name, err)
		}
		msgs[i] = kafkago.Message{
			Key:   []byte(site.Name),
			Value: data,
			Headers: []kafkago.Header{
				{Key: "report_id", Value: []byte(r.ID)},
				{Key: "generated_at", Value: []byte(generatedAt)},
				{Key: "non_compliant", Value: []byte(strconv.Itoa(site.NonCompliant))},
			},
		}
	}
	return msgs, nil
}
