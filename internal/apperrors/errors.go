package apperrors

import (
	"errors"
)

var (
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found")

	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	ErrRefreshTokenIsUsed   = errors.New("refresh token is used")
	ErrRefreshTokenExpired  = errors.New("refresh token is expired")

	ErrShopNotFound      = errors.New("shop not found")
	ErrShopAlreadyExists = errors.New("shop already exists for this owner")
	ErrNotShopOwner      = errors.New("caller does not own a shop")

	ErrCustomerNotFound   = errors.New("customer not found")
	ErrCustomerPhoneTaken = errors.New("customer with this phone already exists in the shop")

	ErrEntryNotFound        = errors.New("ledger entry not found")
	ErrEntryAlreadyResolved = errors.New("ledger entry already resolved")
	ErrInvalidAmount        = errors.New("amount must be positive")
	ErrNotCounterparty      = errors.New("caller is not the entry counterparty")

	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrNotificationNotFound = errors.New("notification not found")
)
