package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/bakikhata/bakikhata/internal/apperrors"
	"github.com/bakikhata/bakikhata/internal/models"
)

type SubscriptionRepo struct {
	DB DBTX
}

const subscriptionColumns = `id, shop_id, status, trial_start, trial_end, paid_start, paid_end`

const createSubscription = `-- name: CreateSubscription
INSERT INTO subscriptions (id, shop_id, status, trial_start, trial_end, paid_start, paid_end)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + subscriptionColumns

func (r *SubscriptionRepo) Create(ctx context.Context, s models.Subscription) (models.Subscription, error) {
	rows, _ := r.DB.Query(ctx, createSubscription, s.ID, s.ShopID, s.Status, s.TrialStart, s.TrialEnd, s.PaidStart, s.PaidEnd)
	s, err := pgx.CollectOneRow(rows, rowToSubscription)
	if err != nil {
		return s, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

const getSubscriptionByShop = `-- name: GetSubscriptionByShop
SELECT ` + subscriptionColumns + ` FROM subscriptions
WHERE shop_id = $1
`

func (r *SubscriptionRepo) GetByShop(ctx context.Context, shopID uuid.UUID) (models.Subscription, error) {
	rows, _ := r.DB.Query(ctx, getSubscriptionByShop, shopID)
	s, err := pgx.CollectOneRow(rows, rowToSubscription)

	switch {
	case err == nil:
		return s, nil
	case errors.Is(err, pgx.ErrNoRows):
		return s, apperrors.ErrSubscriptionNotFound
	default:
		return s, fmt.Errorf("db error: %w", err)
	}
}

const updateSubscription = `-- name: UpdateSubscription
UPDATE subscriptions
SET status = $2, paid_start = $3, paid_end = $4
WHERE id = $1
RETURNING ` + subscriptionColumns

func (r *SubscriptionRepo) Update(ctx context.Context, s models.Subscription) (models.Subscription, error) {
	rows, _ := r.DB.Query(ctx, updateSubscription, s.ID, s.Status, s.PaidStart, s.PaidEnd)
	s, err := pgx.CollectOneRow(rows, rowToSubscription)

	switch {
	case err == nil:
		return s, nil
	case errors.Is(err, pgx.ErrNoRows):
		return s, apperrors.ErrSubscriptionNotFound
	default:
		return s, fmt.Errorf("db error: %w", err)
	}
}

func rowToSubscription(row pgx.CollectableRow) (models.Subscription, error) {
	var s models.Subscription
	err := row.Scan(&s.ID, &s.ShopID, &s.Status, &s.TrialStart, &s.TrialEnd, &s.PaidStart, &s.PaidEnd)
	return s, err
}
