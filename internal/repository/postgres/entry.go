package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/bakikhata/bakikhata/internal/apperrors"
	"github.com/bakikhata/bakikhata/internal/models"
)

type EntryRepo struct {
	DB DBTX
}

const entryColumns = `id, kind, shop_id, customer_id, amount, entry_date, method, description, status, rejected_reason, created_at, confirmed_at`

const createEntry = `-- name: CreateEntry
INSERT INTO entries (id, kind, shop_id, customer_id, amount, entry_date, method, description, status, rejected_reason, created_at, confirmed_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING ` + entryColumns

func (r *EntryRepo) CreateEntry(ctx context.Context, e models.Entry) (models.Entry, error) {
	rows, _ := r.DB.Query(ctx, createEntry,
		e.ID, e.Kind, e.ShopID, e.CustomerID, e.Amount, e.Date,
		e.Method, e.Description, e.Status, e.RejectedReason, e.CreatedAt, e.ConfirmedAt,
	)
	e, err := pgx.CollectOneRow(rows, rowToEntry)
	if err != nil {
		return e, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

const getEntry = `-- name: GetEntry
SELECT ` + entryColumns + ` FROM entries
WHERE id = $1
`

func (r *EntryRepo) GetEntry(ctx context.Context, entryID uuid.UUID) (models.Entry, error) {
	rows, _ := r.DB.Query(ctx, getEntry, entryID)
	e, err := pgx.CollectOneRow(rows, rowToEntry)

	switch {
	case err == nil:
		return e, nil
	case errors.Is(err, pgx.ErrNoRows):
		return e, apperrors.ErrEntryNotFound
	default:
		return e, fmt.Errorf("db error: %w", err)
	}
}

// Guarded by status = 'pending' so the first resolve wins and any other
// attempt fails, no matter how many sessions race on the same entry
const resolveEntry = `-- name: ResolveEntry
UPDATE entries
SET status = $2, rejected_reason = $3, confirmed_at = $4
WHERE id = $1 AND status = 'pending'
RETURNING ` + entryColumns

func (r *EntryRepo) ResolveEntry(ctx context.Context, entryID uuid.UUID, status string, rejectedReason string, confirmedAt *time.Time) (models.Entry, error) {
	rows, _ := r.DB.Query(ctx, resolveEntry, entryID, status, rejectedReason, confirmedAt)
	e, err := pgx.CollectOneRow(rows, rowToEntry)

	switch {
	case err == nil:
		return e, nil
	case errors.Is(err, pgx.ErrNoRows):
		// Entry is either missing or resolved already; look it up to tell apart
		existing, getErr := r.GetEntry(ctx, entryID)
		if getErr != nil {
			return e, getErr
		}
		return existing, apperrors.ErrEntryAlreadyResolved
	default:
		return e, fmt.Errorf("db error: %w", err)
	}
}

const listShopEntries = `-- name: ListShopEntries
SELECT ` + entryColumns + ` FROM entries
WHERE shop_id = $1
  AND ($2 = '' OR status = $2)
  AND ($3 = '' OR kind = $3)
ORDER BY created_at DESC
`

func (r *EntryRepo) ListShopEntries(ctx context.Context, shopID uuid.UUID, status string, kind string) ([]models.Entry, error) {
	rows, _ := r.DB.Query(ctx, listShopEntries, shopID, status, kind)
	entries, err := pgx.CollectRows(rows, rowToEntry)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return entries, nil
}

const listCustomerEntries = `-- name: ListCustomerEntries
SELECT ` + entryColumns + ` FROM entries
WHERE customer_id = $1
  AND ($2 = '' OR status = $2)
  AND ($3 = '' OR kind = $3)
ORDER BY created_at DESC
`

func (r *EntryRepo) ListCustomerEntries(ctx context.Context, customerID uuid.UUID, status string, kind string) ([]models.Entry, error) {
	rows, _ := r.DB.Query(ctx, listCustomerEntries, customerID, status, kind)
	entries, err := pgx.CollectRows(rows, rowToEntry)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return entries, nil
}

const listUserEntries = `-- name: ListUserEntries
SELECT e.id, e.kind, e.shop_id, e.customer_id, e.amount, e.entry_date, e.method, e.description, e.status, e.rejected_reason, e.created_at, e.confirmed_at
FROM entries e
JOIN customers c ON c.id = e.customer_id
WHERE c.user_id = $1
  AND ($2 = '' OR e.status = $2)
  AND ($3 = '' OR e.kind = $3)
ORDER BY e.created_at DESC
`

func (r *EntryRepo) ListUserEntries(ctx context.Context, userID uuid.UUID, status string, kind string) ([]models.Entry, error) {
	rows, _ := r.DB.Query(ctx, listUserEntries, userID, status, kind)
	entries, err := pgx.CollectRows(rows, rowToEntry)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return entries, nil
}

func rowToEntry(row pgx.CollectableRow) (models.Entry, error) {
	var e models.Entry
	err := row.Scan(
		&e.ID, &e.Kind, &e.ShopID, &e.CustomerID, &e.Amount, &e.Date,
		&e.Method, &e.Description, &e.Status, &e.RejectedReason, &e.CreatedAt, &e.ConfirmedAt,
	)
	return e, err
}
