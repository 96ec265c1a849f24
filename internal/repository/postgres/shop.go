package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/bakikhata/bakikhata/internal/apperrors"
	"github.com/bakikhata/bakikhata/internal/models"
	"github.com/bakikhata/bakikhata/internal/repository"
)

type ShopRepo struct {
	DB DBTX
}

const createShop = `-- name: CreateShop
INSERT INTO shops (id, owner_id, name, shop_type, language, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, owner_id, name, shop_type, language, created_at, updated_at
`

func (r *ShopRepo) CreateShop(ctx context.Context, shop models.Shop) (models.Shop, error) {
	rows, _ := r.DB.Query(ctx, createShop, shop.ID, shop.OwnerID, shop.Name, shop.Type, shop.Language, shop.CreatedAt, shop.UpdatedAt)
	shop, err := pgx.CollectOneRow(rows, rowToShop)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return shop, apperrors.ErrShopAlreadyExists
		}

		return shop, fmt.Errorf("db error: %w", err)
	}

	return shop, nil
}

const getShopByID = `-- name: GetShopByID
SELECT id, owner_id, name, shop_type, language, created_at, updated_at FROM shops
WHERE id = $1
`

func (r *ShopRepo) GetShopByID(ctx context.Context, shopID uuid.UUID) (models.Shop, error) {
	rows, _ := r.DB.Query(ctx, getShopByID, shopID)
	shop, err := pgx.CollectOneRow(rows, rowToShop)

	switch {
	case err == nil:
		return shop, nil
	case errors.Is(err, pgx.ErrNoRows):
		return shop, apperrors.ErrShopNotFound
	default:
		return shop, fmt.Errorf("db error: %w", err)
	}
}

const getShopByOwner = `-- name: GetShopByOwner
SELECT id, owner_id, name, shop_type, language, created_at, updated_at FROM shops
WHERE owner_id = $1
`

func (r *ShopRepo) GetShopByOwner(ctx context.Context, ownerID uuid.UUID) (models.Shop, error) {
	rows, _ := r.DB.Query(ctx, getShopByOwner, ownerID)
	shop, err := pgx.CollectOneRow(rows, rowToShop)

	switch {
	case err == nil:
		return shop, nil
	case errors.Is(err, pgx.ErrNoRows):
		return shop, apperrors.ErrShopNotFound
	default:
		return shop, fmt.Errorf("db error: %w", err)
	}
}

const updateShop = `-- name: UpdateShop
UPDATE shops
SET name = COALESCE(NULLIF($2, ''), name),
    shop_type = COALESCE(NULLIF($3, ''), shop_type),
    language = COALESCE(NULLIF($4, ''), language),
    updated_at = now()
WHERE id = $1
RETURNING id, owner_id, name, shop_type, language, created_at, updated_at
`

func (r *ShopRepo) UpdateShop(ctx context.Context, shopID uuid.UUID, params repository.UpdateShopParams) (models.Shop, error) {
	rows, _ := r.DB.Query(ctx, updateShop, shopID, params.Name, params.Type, params.Language)
	shop, err := pgx.CollectOneRow(rows, rowToShop)

	switch {
	case err == nil:
		return shop, nil
	case errors.Is(err, pgx.ErrNoRows):
		return shop, apperrors.ErrShopNotFound
	default:
		return shop, fmt.Errorf("db error: %w", err)
	}
}

func rowToShop(row pgx.CollectableRow) (models.Shop, error) {
	var s models.Shop
	err := row.Scan(&s.ID, &s.OwnerID, &s.Name, &s.Type, &s.Language, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}
