package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/bakikhata/bakikhata/internal/models"
	"github.com/bakikhata/bakikhata/internal/repository"
)

// Fixture helpers shared by repository tests.
// Every helper fails the test on error so the test body stays flat.

func mustUser(t *testing.T, storage repository.Storage, phone string) models.User {
	t.Helper()

	user, err := storage.User().CreateUser(t.Context(), models.User{
		ID:             uuid.New(),
		CreatedAt:      time.Now(),
		Phone:          phone,
		FirstName:      "Test",
		LastName:       "User",
		HashedPassword: "hashed-password",
	})
	require.NoError(t, err, "fixture user should be created")
	return user
}

func mustShop(t *testing.T, storage repository.Storage, ownerID uuid.UUID) models.Shop {
	t.Helper()

	now := time.Now()
	shop, err := storage.Shop().CreateShop(t.Context(), models.Shop{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Name:      "Rahim Store",
		Type:      models.ShopTypeGrocery,
		Language:  "bn",
		CreatedAt: now,
		UpdatedAt: now,
	})
	require.NoError(t, err, "fixture shop should be created")
	return shop
}

func mustCustomer(t *testing.T, storage repository.Storage, shopID uuid.UUID, phone string, userID *uuid.UUID) models.Customer {
	t.Helper()

	now := time.Now()
	customer, err := storage.Customer().CreateCustomer(t.Context(), models.Customer{
		ID:        uuid.New(),
		ShopID:    shopID,
		UserID:    userID,
		Phone:     phone,
		Name:      "Karim",
		Balance:   decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	})
	require.NoError(t, err, "fixture customer should be created")
	return customer
}

func mustEntry(t *testing.T, storage repository.Storage, shopID uuid.UUID, customerID uuid.UUID, kind string, amount int64) models.Entry {
	t.Helper()

	now := time.Now()
	entry := models.Entry{
		ID:         uuid.New(),
		Kind:       kind,
		ShopID:     shopID,
		CustomerID: customerID,
		Amount:     decimal.NewFromInt(amount),
		Date:       now,
		Status:     models.EntryStatusPending,
		CreatedAt:  now,
	}
	if kind == models.EntryKindPayment {
		entry.Method = models.PaymentMethodCash
	}

	entry, err := storage.Entry().CreateEntry(t.Context(), entry)
	require.NoError(t, err, "fixture entry should be created")
	return entry
}
