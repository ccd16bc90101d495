package device

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mynotif/mynotif/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type deviceRepoPG struct{ pool *pgxpool.Pool }

// NewRepoPG creates a new PostgreSQL-backed device subscription repository.
func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &deviceRepoPG{pool: pool}
}

func (r *deviceRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const subscriptionCols = `id, account_id, subscription_id, created_at, updated_at`

func scanSubscription(row pgx.Row) (*Subscription, error) {
	var s Subscription
	err := row.Scan(&s.ID, &s.AccountID, &s.SubscriptionID, &s.CreatedAt, &s.UpdatedAt)
	return &s, err
}

func (r *deviceRepoPG) Upsert(ctx context.Context, sub *Subscription) error {
	sub.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO device_subscription (id, account_id, subscription_id)
		VALUES ($1,$2,$3)
		ON CONFLICT (account_id) DO UPDATE
		SET subscription_id = EXCLUDED.subscription_id, updated_at = now()
		RETURNING id`, sub.ID, sub.AccountID, sub.SubscriptionID).Scan(&sub.ID)
}

func (r *deviceRepoPG) GetByAccount(ctx context.Context, accountID uuid.UUID) (*Subscription, error) {
	return scanSubscription(r.conn(ctx).QueryRow(ctx,
		`SELECT `+subscriptionCols+` FROM device_subscription WHERE account_id = $1`, accountID))
}

func (r *deviceRepoPG) DeleteByAccount(ctx context.Context, accountID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx,
		`DELETE FROM device_subscription WHERE account_id = $1`, accountID)
	return err
}

func (r *deviceRepoPG) ListByAccounts(ctx context.Context, accountIDs []uuid.UUID) ([]*Subscription, error) {
	if len(accountIDs) == 0 {
		return nil, nil
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+subscriptionCols+` FROM device_subscription WHERE account_id = ANY($1)`, accountIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var subs []*Subscription
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}
