package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ShopTypeGrocery  = "grocery"
	ShopTypePharmacy = "pharmacy"
	ShopTypeTea      = "tea"
	ShopTypeOther    = "other"
)

type Shop struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Name      string
	Type      string
	Language  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
