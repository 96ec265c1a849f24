package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/bakikhata/bakikhata/internal/apperrors"
	"github.com/bakikhata/bakikhata/internal/models"
	"github.com/bakikhata/bakikhata/internal/repository"
)

type CustomerRepo struct {
	DB DBTX
}

const customerColumns = `id, shop_id, user_id, phone, name, balance, created_at, updated_at`

const createCustomer = `-- name: CreateCustomer
INSERT INTO customers (id, shop_id, user_id, phone, name, balance, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + customerColumns

func (r *CustomerRepo) CreateCustomer(ctx context.Context, c models.Customer) (models.Customer, error) {
	rows, _ := r.DB.Query(ctx, createCustomer, c.ID, c.ShopID, c.UserID, c.Phone, c.Name, c.Balance, c.CreatedAt, c.UpdatedAt)
	c, err := pgx.CollectOneRow(rows, rowToCustomer)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return c, apperrors.ErrCustomerPhoneTaken
		}

		return c, fmt.Errorf("db error: %w", err)
	}

	return c, nil
}

const getShopCustomer = `-- name: GetShopCustomer
SELECT ` + customerColumns + ` FROM customers
WHERE shop_id = $1 AND id = $2
`

func (r *CustomerRepo) GetShopCustomer(ctx context.Context, shopID uuid.UUID, customerID uuid.UUID) (models.Customer, error) {
	rows, _ := r.DB.Query(ctx, getShopCustomer, shopID, customerID)
	c, err := pgx.CollectOneRow(rows, rowToCustomer)

	switch {
	case err == nil:
		return c, nil
	case errors.Is(err, pgx.ErrNoRows):
		return c, apperrors.ErrCustomerNotFound
	default:
		return c, fmt.Errorf("db error: %w", err)
	}
}

const getCustomerByID = `-- name: GetCustomerByID
SELECT ` + customerColumns + ` FROM customers
WHERE id = $1
`

func (r *CustomerRepo) GetCustomerByID(ctx context.Context, customerID uuid.UUID) (models.Customer, error) {
	rows, _ := r.DB.Query(ctx, getCustomerByID, customerID)
	c, err := pgx.CollectOneRow(rows, rowToCustomer)

	switch {
	case err == nil:
		return c, nil
	case errors.Is(err, pgx.ErrNoRows):
		return c, apperrors.ErrCustomerNotFound
	default:
		return c, fmt.Errorf("db error: %w", err)
	}
}

const listShopCustomers = `-- name: ListShopCustomers
SELECT ` + customerColumns + ` FROM customers
WHERE shop_id = $1
ORDER BY created_at DESC
`

func (r *CustomerRepo) ListShopCustomers(ctx context.Context, shopID uuid.UUID) ([]models.Customer, error) {
	rows, _ := r.DB.Query(ctx, listShopCustomers, shopID)
	customers, err := pgx.CollectRows(rows, rowToCustomer)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return customers, nil
}

const listUserCustomers = `-- name: ListUserCustomers
SELECT ` + customerColumns + ` FROM customers
WHERE user_id = $1
ORDER BY created_at DESC
`

func (r *CustomerRepo) ListUserCustomers(ctx context.Context, userID uuid.UUID) ([]models.Customer, error) {
	rows, _ := r.DB.Query(ctx, listUserCustomers, userID)
	customers, err := pgx.CollectRows(rows, rowToCustomer)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return customers, nil
}

const updateCustomer = `-- name: UpdateCustomer
UPDATE customers
SET name = COALESCE(NULLIF($3, ''), name),
    phone = COALESCE(NULLIF($4, ''), phone),
    updated_at = now()
WHERE shop_id = $1 AND id = $2
RETURNING ` + customerColumns

func (r *CustomerRepo) UpdateCustomer(ctx context.Context, shopID uuid.UUID, customerID uuid.UUID, params repository.UpdateCustomerParams) (models.Customer, error) {
	rows, _ := r.DB.Query(ctx, updateCustomer, shopID, customerID, params.Name, params.Phone)
	c, err := pgx.CollectOneRow(rows, rowToCustomer)

	switch {
	case err == nil:
		return c, nil
	case errors.Is(err, pgx.ErrNoRows):
		return c, apperrors.ErrCustomerNotFound
	default:
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return c, apperrors.ErrCustomerPhoneTaken
		}
		return c, fmt.Errorf("db error: %w", err)
	}
}

const linkUserByPhone = `-- name: LinkUserByPhone
UPDATE customers
SET user_id = $1, updated_at = now()
WHERE phone = $2 AND user_id IS NULL
`

func (r *CustomerRepo) LinkUserByPhone(ctx context.Context, userID uuid.UUID, phone string) (int64, error) {
	tag, err := r.DB.Exec(ctx, linkUserByPhone, userID, phone)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return tag.RowsAffected(), nil
}

const applyBalance = `-- name: ApplyBalance
UPDATE customers
SET balance = balance + $2, updated_at = now()
WHERE id = $1
RETURNING ` + customerColumns

func (r *CustomerRepo) ApplyBalance(ctx context.Context, customerID uuid.UUID, delta decimal.Decimal) (models.Customer, error) {
	rows, _ := r.DB.Query(ctx, applyBalance, customerID, delta)
	c, err := pgx.CollectOneRow(rows, rowToCustomer)

	switch {
	case err == nil:
		return c, nil
	case errors.Is(err, pgx.ErrNoRows):
		return c, apperrors.ErrCustomerNotFound
	default:
		return c, fmt.Errorf("db error: %w", err)
	}
}

const sumConfirmed = `-- name: SumConfirmed
SELECT COALESCE(SUM(CASE kind WHEN 'credit' THEN amount ELSE -amount END), 0)
FROM entries
WHERE customer_id = $1 AND status = 'confirmed'
`

func (r *CustomerRepo) SumConfirmed(ctx context.Context, customerID uuid.UUID) (decimal.Decimal, error) {
	rows, _ := r.DB.Query(ctx, sumConfirmed, customerID)
	sum, err := pgx.CollectOneRow(rows, pgx.RowTo[decimal.Decimal])
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("db error: %w", err)
	}
	return sum, nil
}

func rowToCustomer(row pgx.CollectableRow) (models.Customer, error) {
	var c models.Customer
	err := row.Scan(&c.ID, &c.ShopID, &c.UserID, &c.Phone, &c.Name, &c.Balance, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}
