package shop

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bakikhata/bakikhata/internal/models"
	"github.com/bakikhata/bakikhata/internal/repository"
)

const trialPeriod = 30 * 24 * time.Hour

type ShopService struct {
	// Repository to access long term data
	storage repository.Storage
}

func NewService(storage repository.Storage) *ShopService {
	return &ShopService{storage: storage}
}

type CreateParams struct {
	Name     string
	Type     string
	Language string
}

// Create sets up the owner's shop together with its trial subscription.
// One shop per owner.
func (s *ShopService) Create(ctx context.Context, owner models.User, params CreateParams) (models.Shop, error) {
	now := time.Now()

	if params.Type == "" {
		params.Type = models.ShopTypeOther
	}
	if params.Language == "" {
		params.Language = "bn"
	}

	shop := models.Shop{
		ID:        uuid.New(),
		OwnerID:   owner.ID,
		Name:      params.Name,
		Type:      params.Type,
		Language:  params.Language,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.storage.InTx(ctx, func(st repository.Storage) error {
		var err error
		shop, err = st.Shop().CreateShop(ctx, shop)
		if err != nil {
			return err
		}

		_, err = st.Subscription().Create(ctx, models.Subscription{
			ID:         uuid.New(),
			ShopID:     shop.ID,
			Status:     models.SubscriptionStatusTrial,
			TrialStart: now,
			TrialEnd:   now.Add(trialPeriod),
		})
		return err
	})

	return shop, err
}

// GetOwned returns the caller's shop
// ErrShopNotFound doubles as the "you are not an owner" signal
func (s *ShopService) GetOwned(ctx context.Context, owner models.User) (models.Shop, error) {
	return s.storage.Shop().GetShopByOwner(ctx, owner.ID)
}

func (s *ShopService) GetByID(ctx context.Context, shopID uuid.UUID) (models.Shop, error) {
	return s.storage.Shop().GetShopByID(ctx, shopID)
}

func (s *ShopService) Update(ctx context.Context, owner models.User, params repository.UpdateShopParams) (models.Shop, error) {
	shop, err := s.storage.Shop().GetShopByOwner(ctx, owner.ID)
	if err != nil {
		return shop, err
	}

	return s.storage.Shop().UpdateShop(ctx, shop.ID, params)
}
