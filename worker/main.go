package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/openbiblio/pubmed-pipeline/internal/config"
	"github.com/openbiblio/pubmed-pipeline/internal/dedupe"
	"github.com/openbiblio/pubmed-pipeline/internal/elasticsearch"
	"github.com/openbiblio/pubmed-pipeline/internal/logger"
	"github.com/openbiblio/pubmed-pipeline/internal/models"
	"github.com/openbiblio/pubmed-pipeline/internal/pubmed"
	"github.com/openbiblio/pubmed-pipeline/internal/stream"
)

// Each Kafka message carries one article-set XML document, plain or
// gzipped, as published by the baseline fetcher.

type articleIndexer interface {
	IndexArticle(ctx context.Context, doc models.ArticleDocument) error
}

func main() {
	log := logger.New("worker")
	cfg, err := config.LoadWorker()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	esClient, err := elasticsearch.New(cfg.ElasticsearchAddr, cfg.ElasticsearchIndex, log)
	if err != nil {
		log.Error("init elasticsearch", slog.Any("err", err))
		os.Exit(1)
	}

	cache := dedupe.NewCache(cfg.DedupeCapacity, cfg.DedupeTTL)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.KafkaBrokers,
		Topic:          cfg.KafkaTopic,
		GroupID:        cfg.KafkaConsumer,
		QueueCapacity:  cfg.BatchSize,
		MinBytes:       1e3,
		MaxBytes:       50e6, // baseline chunks are large even gzipped
		CommitInterval: 0,    // Disable auto-commit; manual commit only
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

		if err := processMessage(ctx, log, esClient, cache, msg); err != nil {
			log.Warn("process message failed, sending to DLQ",
				slog.Any("err", err),
				slog.Int("partition", msg.Partition),
				slog.Int64("offset", msg.Offset),
			)

			// Send to DLQ with error context, retry with backoff
			dlqMsg := kafka.Message{
				Value: msg.Value,
				Headers: append(msg.Headers,
					kafka.Header{Key: "original_partition", Value: []byte(fmt.Sprintf("%d", msg.Partition))},
					kafka.Header{Key: "original_offset", Value: []byte(fmt.Sprintf("%d", msg.Offset))},
					kafka.Header{Key: "error", Value: []byte(err.Error())},
					kafka.Header{Key: "timestamp", Value: []byte(time.Now().UTC().Format(time.RFC3339))},
				),
			}

			// Retry DLQ write with exponential backoff
			dlqSuccess := false
			for attempt := range 5 {
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

// processMessage parses one article-set payload and indexes every record.
// A payload that does not parse is an error for the whole message; a
// record whose version was already seen is skipped without error.
func processMessage(ctx context.Context, log *slog.Logger, indexer articleIndexer, cache *dedupe.Cache, msg kafka.Message) error {
	r, err := stream.Reader(bytes.NewReader(msg.Value))
	if err != nil {
		return err
	}

	set, err := pubmed.Parse(r)
	if err != nil {
		return err
	}

	indexed, skipped := 0, 0
	for rec := range set.Records() {
		key := dedupe.Key(rec.PMID, rec.DateRevised)
		if cache.IsSeen(key) {
			skipped++
			continue
		}

		doc := models.FromRecord(rec, time.Now().UTC())
		if doc.ID == "" {
			doc.ID = uuid.NewString()
		}

		if err := indexer.IndexArticle(ctx, doc); err != nil {
			return fmt.Errorf("index article %s: %w", rec.PMID, err)
		}

		cache.MarkSeen(key)
		indexed++
	}

	log.Info("article set processed",
		slog.Int("indexed", indexed),
		slog.Int("skipped", skipped),
		slog.Int64("offset", msg.Offset),
	)
	return nil
}
