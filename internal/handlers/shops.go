package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/bakikhata/bakikhata/internal/apperrors"
	"github.com/bakikhata/bakikhata/internal/handlers/render"
	"github.com/bakikhata/bakikhata/internal/handlers/userctx"
	"github.com/bakikhata/bakikhata/internal/logger"
	"github.com/bakikhata/bakikhata/internal/models"
	"github.com/bakikhata/bakikhata/internal/repository"
	"github.com/bakikhata/bakikhata/internal/service/shop"
)

type shopResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"shop_type"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toShopResponse(s models.Shop) shopResponse {
	return shopResponse{
		ID:        s.ID,
		Name:      s.Name,
		Type:      s.Type,
		Language:  s.Language,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// ownedShop resolves the caller's shop or writes the error response.
// Every shop-side operation guards on it: a user without a shop is not
// an owner and gets 403
func ownedShop(w http.ResponseWriter, r *http.Request, shops shopService) (models.Shop, models.User, bool) {
	user, ok := userctx.FromContext(r.Context())
	if !ok {
		render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
		return models.Shop{}, user, false
	}

	s, err := shops.GetOwned(r.Context(), user)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrShopNotFound):
			render.ServiceError(w, "Shop owner role required", http.StatusForbidden)
		default:
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
		return s, user, false
	}

	return s, user, true
}

func handleGetShop(shops shopService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		s, err := shops.GetOwned(r.Context(), user)

		switch {
		case err == nil:
			render.JSON(w, toShopResponse(s))
		case errors.Is(err, apperrors.ErrShopNotFound):
			render.ServiceError(w, "Shop not found", http.StatusNotFound)
		default:
			l.Error("Failed to get shop", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleCreateShop(shops shopService, l logger.Logger) http.Handler {
	type request struct {
		Name     string `json:"shopName" validate:"required,min=2,max=100"`
		Type     string `json:"shop_type" validate:"omitempty,oneof=grocery pharmacy tea other"`
		Language string `json:"language" validate:"omitempty,oneof=bn en"`
	}
	type response struct {
		Message string       `json:"message"`
		Shop    shopResponse `json:"shop"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		s, err := shops.Create(r.Context(), user, shop.CreateParams{
			Name:     data.Name,
			Type:     data.Type,
			Language: data.Language,
		})

		switch {
		case err == nil:
			render.JSONWithStatus(w, response{Message: "Shop created successfully", Shop: toShopResponse(s)}, http.StatusCreated)
		case errors.Is(err, apperrors.ErrShopAlreadyExists):
			render.ServiceError(w, "Shop already exists", http.StatusConflict)
		default:
			l.Error("Failed to create shop", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleUpdateShop(shops shopService, l logger.Logger) http.Handler {
	type request struct {
		Name     string `json:"shopName" validate:"omitempty,min=2,max=100"`
		Type     string `json:"shop_type" validate:"omitempty,oneof=grocery pharmacy tea other"`
		Language string `json:"language" validate:"omitempty,oneof=bn en"`
	}
	type response struct {
		Message string       `json:"message"`
		Shop    shopResponse `json:"shop"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		s, err := shops.Update(r.Context(), user, repository.UpdateShopParams{
			Name:     data.Name,
			Type:     data.Type,
			Language: data.Language,
		})

		switch {
		case err == nil:
			render.JSON(w, response{Message: "Shop updated successfully", Shop: toShopResponse(s)})
		case errors.Is(err, apperrors.ErrShopNotFound):
			render.ServiceError(w, "Shop not found", http.StatusNotFound)
		default:
			l.Error("Failed to update shop", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}
