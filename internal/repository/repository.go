package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bakikhata/bakikhata/internal/models"
)

// User repository interface
type UserRepo interface {
	// Create user
	// If user with the phone exists already has to return apperrors.ErrUserAlreadyExists
	CreateUser(ctx context.Context, user models.User) (models.User, error)

	// Get user by id or phone
	// If user not found must return apperrors.ErrUserNotFound
	GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
	GetUserByPhone(ctx context.Context, phone string) (models.User, error)
}

// RefreshToken repository interface
type RefreshTokenRepo interface {
	// Save token in repository
	Save(ctx context.Context, token models.RefreshToken) error

	// Return the token if it exists, even expired or used
	Get(ctx context.Context, tokenString string) (models.RefreshToken, error)

	// Mark token as used
	// If the token is already used, must not overwrite the existing usedAt
	// and must return apperrors.ErrRefreshTokenIsUsed
	MarkUsed(ctx context.Context, tokenString string) (usedAt time.Time, err error)
}

type ShopRepo interface {
	// Create shop
	// One shop per owner: second create must return apperrors.ErrShopAlreadyExists
	CreateShop(ctx context.Context, shop models.Shop) (models.Shop, error)

	GetShopByID(ctx context.Context, shopID uuid.UUID) (models.Shop, error)

	// If the user owns no shop must return apperrors.ErrShopNotFound
	GetShopByOwner(ctx context.Context, ownerID uuid.UUID) (models.Shop, error)

	UpdateShop(ctx context.Context, shopID uuid.UUID, params UpdateShopParams) (models.Shop, error)
}

// Zero-valued fields are left unchanged
type UpdateShopParams struct {
	Name     string
	Type     string
	Language string
}

type CustomerRepo interface {
	// Create customer for a shop
	// Phone is unique per shop: duplicate must return apperrors.ErrCustomerPhoneTaken
	CreateCustomer(ctx context.Context, customer models.Customer) (models.Customer, error)

	// Get customer visible to the given shop
	// Must return apperrors.ErrCustomerNotFound if it does not exist under this shop
	GetShopCustomer(ctx context.Context, shopID uuid.UUID, customerID uuid.UUID) (models.Customer, error)

	GetCustomerByID(ctx context.Context, customerID uuid.UUID) (models.Customer, error)

	ListShopCustomers(ctx context.Context, shopID uuid.UUID) ([]models.Customer, error)

	// Customers across shops linked to the given user account
	ListUserCustomers(ctx context.Context, userID uuid.UUID) ([]models.Customer, error)

	UpdateCustomer(ctx context.Context, shopID uuid.UUID, customerID uuid.UUID, params UpdateCustomerParams) (models.Customer, error)

	// Link unlinked customer rows with matching phone to the user
	// Returns the number of linked rows; deterministic join on phone per shop
	LinkUserByPhone(ctx context.Context, userID uuid.UUID, phone string) (int64, error)

	// Apply signed delta to the stored balance
	// Must be called only inside the confirm transaction of the ledger service
	ApplyBalance(ctx context.Context, customerID uuid.UUID, delta decimal.Decimal) (models.Customer, error)

	// Aggregate over confirmed entries: credits minus payments
	// Has to equal the stored balance at any observation point
	SumConfirmed(ctx context.Context, customerID uuid.UUID) (decimal.Decimal, error)
}

// Zero-valued fields are left unchanged
type UpdateCustomerParams struct {
	Name  string
	Phone string
}

type EntryRepo interface {
	CreateEntry(ctx context.Context, entry models.Entry) (models.Entry, error)

	// Must return apperrors.ErrEntryNotFound if entry does not exist
	GetEntry(ctx context.Context, entryID uuid.UUID) (models.Entry, error)

	// Move a pending entry to a terminal status
	// Guarded by status = 'pending': a non-pending entry must return
	// apperrors.ErrEntryAlreadyResolved and change nothing
	ResolveEntry(ctx context.Context, entryID uuid.UUID, status string, rejectedReason string, confirmedAt *time.Time) (models.Entry, error)

	// Lists ordered most recently created first
	// Empty status means any status, empty kind means both kinds
	ListShopEntries(ctx context.Context, shopID uuid.UUID, status string, kind string) ([]models.Entry, error)
	ListCustomerEntries(ctx context.Context, customerID uuid.UUID, status string, kind string) ([]models.Entry, error)
	ListUserEntries(ctx context.Context, userID uuid.UUID, status string, kind string) ([]models.Entry, error)
}

type NotificationRepo interface {
	Create(ctx context.Context, n models.Notification) (models.Notification, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Notification, error)

	// Both must return apperrors.ErrNotificationNotFound if nothing matched the user
	MarkRead(ctx context.Context, userID uuid.UUID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}

type SubscriptionRepo interface {
	Create(ctx context.Context, sub models.Subscription) (models.Subscription, error)

	// Must return apperrors.ErrSubscriptionNotFound if the shop has none
	GetByShop(ctx context.Context, shopID uuid.UUID) (models.Subscription, error)

	// Overwrite status and paid period
	Update(ctx context.Context, sub models.Subscription) (models.Subscription, error)
}

// Storage combines every repository over one connection or transaction
type Storage interface {
	User() UserRepo
	Refresh() RefreshTokenRepo
	Shop() ShopRepo
	Customer() CustomerRepo
	Entry() EntryRepo
	Notification() NotificationRepo
	Subscription() SubscriptionRepo

	// Run fn inside a db transaction
	// The Storage passed to fn operates on that transaction
	InTx(ctx context.Context, fn func(Storage) error) error
}
