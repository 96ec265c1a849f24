package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bakikhata/bakikhata/internal/apperrors"
	"github.com/bakikhata/bakikhata/internal/metrics"
	"github.com/bakikhata/bakikhata/internal/models"
	"github.com/bakikhata/bakikhata/internal/repository"
)

const (
	ActionConfirm = "confirm"
	ActionReject  = "reject"
)

// Notifier delivers an event about an entry to the affected user.
// Delivery failures must not fail the ledger operation.
type Notifier interface {
	EntryCreated(ctx context.Context, entry models.Entry, customer models.Customer)
	EntryResolved(ctx context.Context, entry models.Entry, customer models.Customer)
}

// CreateEntryParams describe a new pending entry.
// Method applies to payments (defaults to cash), Description to credits.
type CreateEntryParams struct {
	Kind        string
	CustomerID  uuid.UUID
	Amount      decimal.Decimal
	Date        time.Time
	Method      string
	Description string
}

// PendingEntries as seen by one party
type PendingEntries struct {
	Credits  []models.Entry
	Payments []models.Entry
}

// LedgerService owns the dual-confirmation workflow: a shop records an
// entry, the customer confirms or rejects it, and only confirmed entries
// move the customer balance.
type LedgerService struct {
	storage  repository.Storage
	notifier Notifier
}

func NewService(storage repository.Storage, notifier Notifier) *LedgerService {
	return &LedgerService{
		storage:  storage,
		notifier: notifier,
	}
}

// CreateEntry records a pending entry on behalf of the shop.
// The customer balance stays untouched until the entry is confirmed.
func (s *LedgerService) CreateEntry(ctx context.Context, shop models.Shop, params CreateEntryParams) (models.Entry, error) {
	var entry models.Entry

	if !params.Amount.IsPositive() {
		return entry, apperrors.ErrInvalidAmount
	}

	customer, err := s.storage.Customer().GetShopCustomer(ctx, shop.ID, params.CustomerID)
	if err != nil {
		return entry, err
	}

	now := time.Now()
	date := params.Date
	if date.IsZero() {
		date = now
	}

	entry = models.Entry{
		ID:         uuid.New(),
		Kind:       params.Kind,
		ShopID:     shop.ID,
		CustomerID: customer.ID,
		Amount:     params.Amount,
		Date:       date,
		Status:     models.EntryStatusPending,
		CreatedAt:  now,
	}

	switch params.Kind {
	case models.EntryKindCredit:
		entry.Description = params.Description
	case models.EntryKindPayment:
		entry.Method = params.Method
		if entry.Method == "" {
			entry.Method = models.PaymentMethodCash
		}
	default:
		return entry, fmt.Errorf("unknown entry kind %q", params.Kind)
	}

	entry, err = s.storage.Entry().CreateEntry(ctx, entry)
	if err != nil {
		return entry, err
	}

	metrics.EntriesCreated.WithLabelValues(entry.Kind).Inc()
	s.notifier.EntryCreated(ctx, entry, customer)

	return entry, nil
}

// ResolveEntry moves a pending entry to a terminal state on behalf of the
// counterparty. Confirm applies the signed amount to the customer balance
// in the same transaction; reject leaves the balance alone.
// A non-pending entry fails with ErrEntryAlreadyResolved: retries must
// surface the race, never double-count.
func (s *LedgerService) ResolveEntry(ctx context.Context, caller models.User, entryID uuid.UUID, action string, rejectedReason string) (models.Entry, error) {
	var entry models.Entry

	if action != ActionConfirm && action != ActionReject {
		return entry, fmt.Errorf("unknown resolve action %q", action)
	}

	entry, err := s.storage.Entry().GetEntry(ctx, entryID)
	if err != nil {
		return entry, err
	}

	customer, err := s.storage.Customer().GetCustomerByID(ctx, entry.CustomerID)
	if err != nil {
		return entry, err
	}

	// Only the customer side of the entry may resolve it, the creating
	// shop must not confirm its own records
	if customer.UserID == nil || *customer.UserID != caller.ID {
		return entry, apperrors.ErrNotCounterparty
	}

	switch action {
	case ActionConfirm:
		err = s.storage.InTx(ctx, func(st repository.Storage) error {
			now := time.Now()
			entry, err = st.Entry().ResolveEntry(ctx, entryID, models.EntryStatusConfirmed, "", &now)
			if err != nil {
				return err
			}

			customer, err = st.Customer().ApplyBalance(ctx, entry.CustomerID, entry.Signed())
			return err
		})
	case ActionReject:
		entry, err = s.storage.Entry().ResolveEntry(ctx, entryID, models.EntryStatusRejected, rejectedReason, nil)
	}

	if err != nil {
		return entry, err
	}

	metrics.EntriesResolved.WithLabelValues(entry.Kind, action).Inc()
	s.notifier.EntryResolved(ctx, entry, customer)

	return entry, nil
}

// ListShopPending returns the shop's pending entries across all its
// customers, newest first.
func (s *LedgerService) ListShopPending(ctx context.Context, shopID uuid.UUID) (PendingEntries, error) {
	return s.listPending(ctx, func(kind string) ([]models.Entry, error) {
		return s.storage.Entry().ListShopEntries(ctx, shopID, models.EntryStatusPending, kind)
	})
}

// ListUserPending returns entries awaiting the user's decision across
// every shop they are linked to, newest first.
func (s *LedgerService) ListUserPending(ctx context.Context, userID uuid.UUID) (PendingEntries, error) {
	return s.listPending(ctx, func(kind string) ([]models.Entry, error) {
		return s.storage.Entry().ListUserEntries(ctx, userID, models.EntryStatusPending, kind)
	})
}

func (s *LedgerService) listPending(ctx context.Context, list func(kind string) ([]models.Entry, error)) (PendingEntries, error) {
	var pending PendingEntries
	var err error

	pending.Credits, err = list(models.EntryKindCredit)
	if err != nil {
		return pending, err
	}

	pending.Payments, err = list(models.EntryKindPayment)
	return pending, err
}

func (s *LedgerService) ListShopEntries(ctx context.Context, shopID uuid.UUID, kind string) ([]models.Entry, error) {
	return s.storage.Entry().ListShopEntries(ctx, shopID, "", kind)
}

func (s *LedgerService) ListCustomerEntries(ctx context.Context, customerID uuid.UUID, kind string) ([]models.Entry, error) {
	return s.storage.Entry().ListCustomerEntries(ctx, customerID, "", kind)
}

func (s *LedgerService) ListUserEntries(ctx context.Context, userID uuid.UUID, kind string) ([]models.Entry, error) {
	return s.storage.Entry().ListUserEntries(ctx, userID, "", kind)
}

// ComputeBalance derives the balance from confirmed entries only.
// It has to match the stored customer balance at any observation point.
func (s *LedgerService) ComputeBalance(ctx context.Context, customerID uuid.UUID) (decimal.Decimal, error) {
	return s.storage.Customer().SumConfirmed(ctx, customerID)
}
