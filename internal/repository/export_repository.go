package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stemsi/questbank/internal/config"
	"github.com/stemsi/questbank/internal/model"
)

// ExportQueue pushes export events onto the Redis list drained by the export log worker.
type ExportQueue struct {
	rdb *redis.Client
}

// NewExportQueue creates a new ExportQueue.
func NewExportQueue(rdb *redis.Client) *ExportQueue {
	return &ExportQueue{rdb: rdb}
}

// Enqueue appends ev to the export queue.
func (q *ExportQueue) Enqueue(ctx context.Context, ev model.ExportEvent) error {
	raw, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return q.rdb.RPush(ctx, config.Keys.ExportLogQueue(), raw).Err()
}

// ExportLogRepository persists export events.
type ExportLogRepository struct {
	pool *pgxpool.Pool
}

// NewExportLogRepository creates a new ExportLogRepository.
func NewExportLogRepository(pool *pgxpool.Pool) *ExportLogRepository {
	return &ExportLogRepository{pool: pool}
}

// InsertBatch writes all events in one round trip.
func (r *ExportLogRepository) InsertBatch(ctx context.Context, events []model.ExportEvent) error {
	batch := &pgx.Batch{}
	for _, ev := range events {
		batch.Queue(
			`INSERT INTO export_log (session_id, document_type, display_mode, question_ids, warnings, disposition, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			ev.SessionID, string(ev.DocumentType), string(ev.DisplayMode), ev.QuestionIDs, ev.Warnings, ev.Disposition, ev.CreatedAt,
		)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()
	for range events {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("insert export log: %w", err)
		}
	}
	return nil
}

// Insert writes a single event.
func (r *ExportLogRepository) Insert(ctx context.Context, ev model.ExportEvent) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO export_log (session_id, document_type, display_mode, question_ids, warnings, disposition, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		ev.SessionID, string(ev.DocumentType), string(ev.DisplayMode), ev.QuestionIDs, ev.Warnings, ev.Disposition, ev.CreatedAt,
	)
	return err
}
