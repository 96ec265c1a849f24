package customer

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bakikhata/bakikhata/internal/apperrors"
	"github.com/bakikhata/bakikhata/internal/models"
	"github.com/bakikhata/bakikhata/internal/repository"
)

type CustomerService struct {
	// Repository to access long term data
	storage repository.Storage
}

func NewService(storage repository.Storage) *CustomerService {
	return &CustomerService{storage: storage}
}

type CreateParams struct {
	Phone string
	Name  string
}

// Create records a customer under the shop. If a user account already
// exists for the phone the row is linked to it right away.
func (s *CustomerService) Create(ctx context.Context, shop models.Shop, params CreateParams) (models.Customer, error) {
	now := time.Now()
	c := models.Customer{
		ID:        uuid.New(),
		ShopID:    shop.ID,
		Phone:     params.Phone,
		Name:      params.Name,
		Balance:   decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}

	user, err := s.storage.User().GetUserByPhone(ctx, params.Phone)
	switch {
	case err == nil:
		c.UserID = &user.ID
	case errors.Is(err, apperrors.ErrUserNotFound):
		// customer not registered yet, will be linked at signup
	default:
		return c, err
	}

	return s.storage.Customer().CreateCustomer(ctx, c)
}

func (s *CustomerService) Get(ctx context.Context, shop models.Shop, customerID uuid.UUID) (models.Customer, error) {
	return s.storage.Customer().GetShopCustomer(ctx, shop.ID, customerID)
}

func (s *CustomerService) List(ctx context.Context, shop models.Shop) ([]models.Customer, error) {
	return s.storage.Customer().ListShopCustomers(ctx, shop.ID)
}

// ListLinked returns the customer rows across shops linked to a user account
func (s *CustomerService) ListLinked(ctx context.Context, userID uuid.UUID) ([]models.Customer, error) {
	return s.storage.Customer().ListUserCustomers(ctx, userID)
}

func (s *CustomerService) Update(ctx context.Context, shop models.Shop, customerID uuid.UUID, params repository.UpdateCustomerParams) (models.Customer, error) {
	return s.storage.Customer().UpdateCustomer(ctx, shop.ID, customerID, params)
}
