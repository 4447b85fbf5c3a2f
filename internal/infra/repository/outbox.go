package repository

import (
	"context"
	"errors"
	"time"

	"reservas-api/internal/domain/outbox"
	"reservas-api/internal/infra"
	"reservas-api/internal/infra/db"
	"reservas-api/internal/pkg/errs"

	"github.com/jackc/pgx/v5"
)

type OutboxRepository struct {
	db db.DBTX
}

func NewOutboxRepository(dbtx db.DBTX) *OutboxRepository {
	return &OutboxRepository{db: dbtx}
}

func (r *OutboxRepository) Append(ctx context.Context, events []outbox.Event) error {
	const query = `
		INSERT INTO provider_outbox_events (aggregate_id, event_type, payload, status, created_at)
		VALUES ($1, $2, $3, $4, now())`

	for _, ev := range events {
		if _, err := r.db.Exec(ctx, query,
			ev.AggregateID,
			string(ev.Type),
			ev.Payload,
			string(outbox.StatusPending),
		); err != nil {
			return wrapPgError("failed to append outbox event", err)
		}
	}
	return nil
}

// ClaimPending returns dispatchable event ids in insertion order. FAILED rows
// are included so the worker retries them on later passes.
func (r *OutboxRepository) ClaimPending(ctx context.Context, limit int) ([]int64, error) {
	const query = `
		SELECT id
		FROM provider_outbox_events
		WHERE status IN ($1, $2)
		ORDER BY id ASC
		LIMIT $3`

	rows, err := r.db.Query(ctx, query,
		string(outbox.StatusPending),
		string(outbox.StatusFailed),
		limit,
	)
	if err != nil {
		return nil, wrapPgError("failed to claim pending events", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, wrapPgError("failed to scan event id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapPgError("failed to iterate pending events", err)
	}
	return ids, nil
}

func (r *OutboxRepository) Load(ctx context.Context, id int64) (*outbox.Event, error) {
	const query = `
		SELECT id, aggregate_id, event_type, payload, status, last_error, created_at
		FROM provider_outbox_events
		WHERE id = $1`

	var (
		ev        outbox.Event
		eventType string
		status    string
	)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&ev.ID, &ev.AggregateID, &eventType, &ev.Payload, &status, &ev.LastError, &ev.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "outbox event not found", errs.New("outbox event not found"))
		}
		return nil, wrapPgError("failed to load outbox event", err)
	}
	ev.Type = outbox.EventType(eventType)
	ev.Status = outbox.Status(status)
	return &ev, nil
}

func (r *OutboxRepository) MarkProcessed(ctx context.Context, id int64, processedAt time.Time) error {
	const query = `
		UPDATE provider_outbox_events
		SET status = $2, last_error = NULL, processed_at = $3
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, string(outbox.StatusProcessed), processedAt)
	if err != nil {
		return wrapPgError("failed to mark event processed", err)
	}
	return nil
}

func (r *OutboxRepository) MarkFailed(ctx context.Context, id int64, lastError string) error {
	const query = `
		UPDATE provider_outbox_events
		SET status = $2, last_error = $3
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, string(outbox.StatusFailed), lastError)
	if err != nil {
		return wrapPgError("failed to mark event failed", err)
	}
	return nil
}
