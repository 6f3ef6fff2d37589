package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/questbank/internal/config"
	"github.com/stemsi/questbank/internal/model"
)

const (
	ExportLogBatchSize    = 50
	ExportLogBatchTimeout = 2 * time.Second
	ExportLogPollTimeout  = 1 * time.Second
)

// ExportLogWriter persists export events.
type ExportLogWriter interface {
	InsertBatch(ctx context.Context, events []model.ExportEvent) error
	Insert(ctx context.Context, ev model.ExportEvent) error
}

// ExportLogWorker drains export_log_queue into the export log, in batches.
type ExportLogWorker struct {
	store ExportLogWriter
	rdb   *redis.Client
	log   zerolog.Logger
}

func NewExportLogWorker(store ExportLogWriter, rdb *redis.Client, log zerolog.Logger) *ExportLogWorker {
	return &ExportLogWorker{
		store: store,
		rdb:   rdb,
		log:   log.With().Str("component", "export_log_worker").Logger(),
	}
}

// Start runs until ctx is cancelled, then flushes what it holds. Call in a goroutine.
func (w *ExportLogWorker) Start(ctx context.Context) {
	w.log.Info().Msg("ExportLogWorker started")

	batch := make([]model.ExportEvent, 0, ExportLogBatchSize)
	lastFlush := time.Now()

	for {
		if len(batch) > 0 &&
			(len(batch) >= ExportLogBatchSize || time.Since(lastFlush) >= ExportLogBatchTimeout) {

			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Int("pending", len(batch)).Msg("Shutdown requested. Flushing remaining batch...")
			w.flushSafe(context.Background(), batch)
			return

		default:
			item, err := w.rdb.BLPop(ctx, ExportLogPollTimeout, config.Keys.ExportLogQueue()).Result()
			if err != nil {
				if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
					time.Sleep(ExportLogPollTimeout)
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			var ev model.ExportEvent
			if err := json.Unmarshal([]byte(item[1]), &ev); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}

			batch = append(batch, ev)
		}
	}
}

// flushSafe writes batch in one round trip, falling back to one insert per event. Events
// that still fail are pushed back onto the queue.
func (w *ExportLogWorker) flushSafe(ctx context.Context, batch []model.ExportEvent) {
	if len(batch) == 0 {
		return
	}

	err := w.store.InsertBatch(ctx, batch)
	if err == nil {
		w.log.Debug().Int("count", len(batch)).Msg("Export log batch written")
		return
	}
	w.log.Warn().Err(err).Msg("bulk export log insert failed, using fallback")

	for _, ev := range batch {
		if err := w.store.Insert(ctx, ev); err != nil {
			w.log.Error().Err(err).Msg("export log insert failed, requeueing")
			w.requeue(ctx, ev)
		}
	}
}

func (w *ExportLogWorker) requeue(ctx context.Context, ev model.ExportEvent) {
	if w.rdb == nil {
		return
	}
	raw, _ := json.Marshal(ev)
	if err := w.rdb.RPush(ctx, config.Keys.ExportLogQueue(), raw).Err(); err != nil {
		w.log.Error().Err(err).Msg("requeue failed, event dropped")
	}
}
