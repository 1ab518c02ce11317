package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/nkiryanov/shop/internal/apperrors"
	"github.com/nkiryanov/shop/internal/models"
	"github.com/nkiryanov/shop/internal/repository"
)

type EventRepo struct {
	DB DBTX
}

const createEvent = `-- name: CreateEvent
INSERT INTO event_log (event_type, user_id, description, ip_address, user_agent)
VALUES ($1, $2, $3, $4, $5)
RETURNING id
`

func (r *EventRepo) Create(ctx context.Context, e models.Event) (int64, error) {
	rows, _ := r.DB.Query(ctx, createEvent, e.EventType, e.UserID, e.Description, e.IPAddress, e.UserAgent)
	id, err := pgx.CollectOneRow(rows, pgx.RowTo[int64])
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return id, nil
}

const eventColumns = `id, event_type, user_id, description, ip_address, user_agent, created_at`

const listEvents = `-- name: ListEvents
SELECT ` + eventColumns + ` FROM event_log
ORDER BY created_at DESC, id DESC
LIMIT $1 OFFSET $2
`

func (r *EventRepo) List(ctx context.Context, page repository.Page) ([]models.Event, error) {
	rows, _ := r.DB.Query(ctx, listEvents, page.Limit, page.Offset)
	events, err := pgx.CollectRows(rows, pgx.RowToStructByPos[models.Event])
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return events, nil
}

const getEvent = `-- name: GetEvent
SELECT ` + eventColumns + ` FROM event_log WHERE id = $1
`

func (r *EventRepo) GetByID(ctx context.Context, id int64) (models.Event, error) {
	rows, _ := r.DB.Query(ctx, getEvent, id)
	event, err := pgx.CollectOneRow(rows, pgx.RowToStructByPos[models.Event])
	return event, mapErr(err, apperrors.ErrEventNotFound)
}
