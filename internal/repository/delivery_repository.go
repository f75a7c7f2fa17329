package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/helpdesk-gateway/internal/domain"
)

// DBTX is satisfied by *pgxpool.Pool, pgx.Tx and pgxmock pools.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DeliveryRepository persists forward outcomes.
type DeliveryRepository interface {
	Create(ctx context.Context, record *domain.DeliveryRecord) error
	PurgeBefore(ctx context.Context, days int) (int64, error)
}

type deliveryRepository struct {
	db DBTX
}

// NewDeliveryRepository constructs repository.
func NewDeliveryRepository(db DBTX) DeliveryRepository {
	return &deliveryRepository{db: db}
}

func (r *deliveryRepository) Create(ctx context.Context, record *domain.DeliveryRecord) error {
	const query = `
        INSERT INTO delivery_log (request_id, subject, requester_email, order_id, outcome,
            upstream_status, attachment_name, attachment_uploaded, error_message)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at`
	return r.db.QueryRow(ctx, query,
		record.RequestID,
		record.Subject,
		record.RequesterEmail,
		record.OrderID,
		string(record.Outcome),
		record.UpstreamStatus,
		record.AttachmentName,
		record.AttachmentUploaded,
		record.ErrorMessage,
	).Scan(&record.ID, &record.CreatedAt)
}

// PurgeBefore deletes entries older than the given number of days.
func (r *deliveryRepository) PurgeBefore(ctx context.Context, days int) (int64, error) {
	const query = `DELETE FROM delivery_log WHERE created_at < now() - make_interval(days => $1)`
	tag, err := r.db.Exec(ctx, query, days)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
