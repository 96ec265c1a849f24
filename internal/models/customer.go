package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Customer is a person a shop keeps a running tab for.
// Balance is derived from confirmed entries only and is mutated exclusively
// by the ledger service inside the confirm transaction.
// UserID is set when a registered user with the same phone gets linked;
// the phone is unique per shop, not globally.
type Customer struct {
	ID        uuid.UUID
	ShopID    uuid.UUID
	UserID    *uuid.UUID
	Phone     string
	Name      string
	Balance   decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}
