package subscription

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bakikhata/bakikhata/internal/models"
	"github.com/bakikhata/bakikhata/internal/repository"
)

const paidPeriod = 30 * 24 * time.Hour

type SubscriptionService struct {
	// Repository to access long term data
	storage repository.Storage
}

func NewService(storage repository.Storage) *SubscriptionService {
	return &SubscriptionService{storage: storage}
}

// Get returns the shop subscription with the status settled against now:
// a lapsed trial or paid period reads as expired even before any write.
func (s *SubscriptionService) Get(ctx context.Context, shopID uuid.UUID) (models.Subscription, error) {
	sub, err := s.storage.Subscription().GetByShop(ctx, shopID)
	if err != nil {
		return sub, err
	}

	if !sub.Active(time.Now()) && sub.Status != models.SubscriptionStatusCancelled {
		sub.Status = models.SubscriptionStatusExpired
	}

	return sub, nil
}

// Activate starts a paid period from now
func (s *SubscriptionService) Activate(ctx context.Context, shopID uuid.UUID) (models.Subscription, error) {
	sub, err := s.storage.Subscription().GetByShop(ctx, shopID)
	if err != nil {
		return sub, err
	}

	now := time.Now()
	end := now.Add(paidPeriod)
	sub.Status = models.SubscriptionStatusActive
	sub.PaidStart = &now
	sub.PaidEnd = &end

	return s.storage.Subscription().Update(ctx, sub)
}
