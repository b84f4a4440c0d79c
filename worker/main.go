package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/SushmaJettiboyina/Fake-job-detection/internal/classifier"
	"github.com/SushmaJettiboyina/Fake-job-detection/internal/config"
	"github.com/SushmaJettiboyina/Fake-job-detection/internal/dedupe"
	"github.com/SushmaJettiboyina/Fake-job-detection/internal/elasticsearch"
	"github.com/SushmaJettiboyina/Fake-job-detection/internal/logger"
	"github.com/SushmaJettiboyina/Fake-job-detection/internal/models"
	"github.com/SushmaJettiboyina/Fake-job-detection/internal/oracle"
	"github.com/SushmaJettiboyina/Fake-job-detection/internal/processing"
	"github.com/SushmaJettiboyina/Fake-job-detection/internal/tokenizer"
)

type rawPosting struct {
	Title        string `json:"title"`
	Company      string `json:"company"`
	Location     string `json:"location"`
	Description  string `json:"description"`
	Requirements string `json:"requirements"`
	HowToApply   string `json:"how_to_apply"`
	CombinedText string `json:"combined_text"`
	Source       string `json:"source"`
	Timestamp    string `json:"timestamp"`
}

type recordIndexer interface {
	IndexClassification(ctx context.Context, rec models.ClassificationRecord) error
}

type postingClassifier interface {
	Classify(ctx context.Context, fields models.JobPostingFields) (classifier.Result, error)
}

func main() {
	log := logger.New("worker")
	cfg, err := config.LoadWorker()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	tok, err := tokenizer.Load(cfg.VocabPath, cfg.SequenceLength)
	if err != nil {
		log.Error("load vocabulary", slog.Any("err", err))
		os.Exit(1)
	}

	esClient, err := elasticsearch.New(cfg.ElasticsearchAddr, cfg.ElasticsearchIndex, log)
	if err != nil {
		log.Error("init elasticsearch", slog.Any("err", err))
		os.Exit(1)
	}

	scorer := oracle.New(cfg.OracleAddr, cfg.OracleTimeout)
	cls := classifier.New(tok, scorer, cfg.Threshold)
	cache := dedupe.NewCache(cfg.DedupeCapacity, cfg.DedupeTTL)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.KafkaBrokers,
		Topic:          cfg.KafkaTopic,
		GroupID:        cfg.KafkaConsumer,
		QueueCapacity:  cfg.BatchSize,
		MinBytes:       1e3,
		MaxBytes:       10e6,
		CommitInterval: 0, // Disable auto-commit; manual commit only
	})
	defer reader.Close()

	dlqWriter := kafka.NewWriter(kafka.WriterConfig{
		Brokers:     cfg.KafkaBrokers,
		Topic:       cfg.KafkaTopic + "_dlq",
		MaxAttempts: 3,
	})
	defer dlqWriter.Close()

	log.Info("worker started",
		slog.String("topic", cfg.KafkaTopic),
		slog.String("group", cfg.KafkaConsumer),
		slog.String("dlq_topic", cfg.KafkaTopic+"_dlq"),
		slog.String("oracle", cfg.OracleAddr),
	)

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				log.Info("context canceled, stopping")
				return
			}
			log.Error("fetch message", slog.Any("err", err))
			continue
		}

		if err := processMessage(ctx, log, esClient, cls, cache, msg); err != nil {
			log.Warn("process message failed, sending to DLQ",
				slog.Any("err", err),
				slog.Int("partition", msg.Partition),
				slog.Int64("offset", msg.Offset),
			)

			// Send to DLQ with error context, retry with backoff
			dlqMsg := kafka.Message{
				Value: msg.Value,
				Headers: append(msg.Headers,
					kafka.Header{Key: "failure_id", Value: []byte(uuid.NewString())},
					kafka.Header{Key: "original_partition", Value: []byte(fmt.Sprintf("%d", msg.Partition))},
					kafka.Header{Key: "original_offset", Value: []byte(fmt.Sprintf("%d", msg.Offset))},
					kafka.Header{Key: "error", Value: []byte(err.Error())},
					kafka.Header{Key: "timestamp", Value: []byte(time.Now().UTC().Format(time.RFC3339))},
				),
			}

			// Retry DLQ write with exponential backoff
			dlqSuccess := false
			for attempt := 0; attempt < 5; attempt++ {
				if dlqErr := dlqWriter.WriteMessages(ctx, dlqMsg); dlqErr == nil {
					dlqSuccess = true
					log.Info("message sent to DLQ",
						slog.Int("partition", msg.Partition),
						slog.Int64("offset", msg.Offset),
						slog.Int("attempt", attempt+1),
					)
					break
				} else {
					backoff := time.Duration(1<<uint(attempt)) * time.Second
					log.Warn("DLQ write failed, retrying",
						slog.Any("err", dlqErr),
						slog.Int("attempt", attempt+1),
						slog.Duration("backoff", backoff),
					)
					select {
					case <-time.After(backoff):
						// Continue to next attempt
					case <-ctx.Done():
						log.Info("context canceled during DLQ retry")
						return
					}
				}
			}

			// Only commit if DLQ write succeeded; otherwise skip commit and reprocess on restart
			if dlqSuccess {
				if err := reader.CommitMessages(ctx, msg); err != nil {
					log.Error("commit failed message to dlq", slog.Any("err", err))
				}
			} else {
				log.Error("DLQ write exhausted retries, message may be lost if later messages commit",
					slog.Int("partition", msg.Partition),
					slog.Int64("offset", msg.Offset),
				)
			}
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit message", slog.Any("err", err))
		}
	}
}

func processMessage(ctx context.Context, log *slog.Logger, idx recordIndexer, cls postingClassifier, cache *dedupe.Cache, msg kafka.Message) error {
	var payload rawPosting
	if err := json.Unmarshal(msg.Value, &payload); err != nil {
		return err
	}

	fields := models.JobPostingFields{
		Title:        payload.Title,
		Company:      payload.Company,
		Location:     payload.Location,
		Description:  payload.Description,
		Requirements: payload.Requirements,
		HowToApply:   payload.HowToApply,
		CombinedText: payload.CombinedText,
	}

	// Hash before scoring so duplicates never reach the oracle.
	document := processing.Normalize(fields)
	if document == "" {
		log.Warn("posting without any usable text, skipping",
			slog.Int("partition", msg.Partition),
			slog.Int64("offset", msg.Offset),
		)
		return nil
	}

	id := processing.DocumentID(document)
	if cache.IsSeen(id) {
		log.Debug("duplicate posting", slog.String("id", id))
		return nil
	}

	result, err := cls.Classify(ctx, fields)
	if err != nil {
		return err
	}

	ts := parseTimestamp(payload.Timestamp)
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	source := strings.TrimSpace(payload.Source)
	if source == "" {
		source = "unknown"
	}

	rec := models.ClassificationRecord{
		ID:             id,
		Document:       result.Document,
		Title:          strings.TrimSpace(payload.Title),
		Label:          result.Verdict.Label,
		Score:          result.Score,
		ProbabilityPct: result.Verdict.ProbabilityPct,
		BarPct:         result.Verdict.BarPct,
		BarLabel:       result.Verdict.BarLabel,
		Explanations:   result.Explanations,
		NonzeroTokens:  result.NonzeroTokens,
		Source:         source,
		Timestamp:      ts,
	}

	if err := idx.IndexClassification(ctx, rec); err != nil {
		return err
	}

	cache.MarkSeen(id)
	log.Info("classified posting",
		slog.String("id", rec.ID),
		slog.String("label", rec.Label),
		slog.Float64("probability_pct", rec.ProbabilityPct),
		slog.Int("nonzero_tokens", rec.NonzeroTokens),
	)
	return nil
}

func parseTimestamp(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}

	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
	}

	for _, f := range formats {
		if ts, err := time.Parse(f, raw); err == nil {
			return ts
		}
	}

	return time.Time{}
}
