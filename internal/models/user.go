package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	// Roles a session may act as
	// Asserted by the server on login/profile, never guessed by clients
	RoleOwner    = "owner"
	RoleCustomer = "customer"
)

type User struct {
	ID             uuid.UUID
	CreatedAt      time.Time
	Phone          string
	FirstName      string
	LastName       string
	HashedPassword string
}
