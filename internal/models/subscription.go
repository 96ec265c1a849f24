package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	SubscriptionStatusTrial     = "trial"
	SubscriptionStatusActive    = "active"
	SubscriptionStatusExpired   = "expired"
	SubscriptionStatusCancelled = "cancelled"
)

type Subscription struct {
	ID         uuid.UUID
	ShopID     uuid.UUID
	Status     string
	TrialStart time.Time
	TrialEnd   time.Time
	PaidStart  *time.Time
	PaidEnd    *time.Time
}

// Active reports whether the shop may use the service at the given moment.
func (s Subscription) Active(now time.Time) bool {
	switch s.Status {
	case SubscriptionStatusTrial:
		return now.Before(s.TrialEnd)
	case SubscriptionStatusActive:
		return s.PaidEnd == nil || now.Before(*s.PaidEnd)
	default:
		return false
	}
}

// DaysRemaining returns whole days left in the current period, never negative.
func (s Subscription) DaysRemaining(now time.Time) int {
	var end time.Time
	switch s.Status {
	case SubscriptionStatusTrial:
		end = s.TrialEnd
	case SubscriptionStatusActive:
		if s.PaidEnd == nil {
			return 0
		}
		end = *s.PaidEnd
	default:
		return 0
	}

	if !now.Before(end) {
		return 0
	}
	return int(end.Sub(now).Hours() / 24)
}
