package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EntryKindCredit  = "credit"
	EntryKindPayment = "payment"

	EntryStatusPending   = "pending"
	EntryStatusConfirmed = "confirmed"
	EntryStatusRejected  = "rejected"

	PaymentMethodCash  = "cash"
	PaymentMethodBkash = "bkash"
	PaymentMethodNagad = "nagad"
)

// Entry is a single ledger record: a credit ("baki") increases what the
// customer owes the shop, a payment decreases it.
// Status moves pending->confirmed or pending->rejected, both terminal.
// Only confirmed entries contribute to the customer balance.
type Entry struct {
	ID          uuid.UUID
	Kind        string
	ShopID      uuid.UUID
	CustomerID  uuid.UUID
	Amount      decimal.Decimal
	Date        time.Time

	// Method is set for payments only, Description for credits only
	Method      string
	Description string

	Status         string
	RejectedReason string
	CreatedAt      time.Time
	ConfirmedAt    *time.Time // nil until the entry is confirmed
}

// Signed returns the entry amount with the sign it applies to the balance:
// positive for credits, negative for payments.
func (e Entry) Signed() decimal.Decimal {
	if e.Kind == EntryKindPayment {
		return e.Amount.Neg()
	}
	return e.Amount
}

// Resolved reports whether the entry reached a terminal state.
func (e Entry) Resolved() bool {
	return e.Status != EntryStatusPending
}
