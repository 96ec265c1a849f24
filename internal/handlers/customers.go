package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/bakikhata/bakikhata/internal/apperrors"
	"github.com/bakikhata/bakikhata/internal/handlers/render"
	"github.com/bakikhata/bakikhata/internal/logger"
	"github.com/bakikhata/bakikhata/internal/models"
	"github.com/bakikhata/bakikhata/internal/repository"
	"github.com/bakikhata/bakikhata/internal/service/customer"
)

type customerResponse struct {
	ID        uuid.UUID `json:"id"`
	Phone     string    `json:"phone"`
	Name      string    `json:"name,omitempty"`
	Balance   string    `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toCustomerResponse(c models.Customer) customerResponse {
	return customerResponse{
		ID:        c.ID,
		Phone:     c.Phone,
		Name:      c.Name,
		Balance:   c.Balance.StringFixed(2),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toCustomerResponses(customers []models.Customer) []customerResponse {
	responses := make([]customerResponse, 0, len(customers))
	for _, c := range customers {
		responses = append(responses, toCustomerResponse(c))
	}
	return responses
}

// pathID parses the {id} path segment or writes 404
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		render.ServiceError(w, "Not found", http.StatusNotFound)
		return uuid.Nil, false
	}
	return id, true
}

func handleListCustomers(customers customerService, shops shopService, l logger.Logger) http.Handler {
	type response struct {
		Customers []customerResponse `json:"customers"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, _, ok := ownedShop(w, r, shops)
		if !ok {
			return
		}

		list, err := customers.List(r.Context(), s)
		if err != nil {
			l.Error("Failed to list customers", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, response{Customers: toCustomerResponses(list)})
	})
}

func handleGetCustomer(customers customerService, shops shopService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, _, ok := ownedShop(w, r, shops)
		if !ok {
			return
		}

		customerID, ok := pathID(w, r)
		if !ok {
			return
		}

		c, err := customers.Get(r.Context(), s, customerID)

		switch {
		case err == nil:
			render.JSON(w, toCustomerResponse(c))
		case errors.Is(err, apperrors.ErrCustomerNotFound):
			render.ServiceError(w, "Customer not found", http.StatusNotFound)
		default:
			l.Error("Failed to get customer", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleCreateCustomer(customers customerService, shops shopService, l logger.Logger) http.Handler {
	type request struct {
		Phone string `json:"phone" validate:"required,min=6,max=20"`
		Name  string `json:"name" validate:"max=100"`
	}
	type response struct {
		Message  string           `json:"message"`
		Customer customerResponse `json:"customer"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, _, ok := ownedShop(w, r, shops)
		if !ok {
			return
		}

		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		c, err := customers.Create(r.Context(), s, customer.CreateParams{
			Phone: data.Phone,
			Name:  data.Name,
		})

		switch {
		case err == nil:
			render.JSONWithStatus(w, response{Message: "Customer created successfully", Customer: toCustomerResponse(c)}, http.StatusCreated)
		case errors.Is(err, apperrors.ErrCustomerPhoneTaken):
			render.ServiceError(w, "Customer with this phone already exists", http.StatusConflict)
		default:
			l.Error("Failed to create customer", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleUpdateCustomer(customers customerService, shops shopService, l logger.Logger) http.Handler {
	type request struct {
		Phone string `json:"phone" validate:"omitempty,min=6,max=20"`
		Name  string `json:"name" validate:"max=100"`
	}
	type response struct {
		Message  string           `json:"message"`
		Customer customerResponse `json:"customer"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, _, ok := ownedShop(w, r, shops)
		if !ok {
			return
		}

		customerID, ok := pathID(w, r)
		if !ok {
			return
		}

		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		c, err := customers.Update(r.Context(), s, customerID, repository.UpdateCustomerParams{
			Name:  data.Name,
			Phone: data.Phone,
		})

		switch {
		case err == nil:
			render.JSON(w, response{Message: "Customer updated successfully", Customer: toCustomerResponse(c)})
		case errors.Is(err, apperrors.ErrCustomerNotFound):
			render.ServiceError(w, "Customer not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrCustomerPhoneTaken):
			render.ServiceError(w, "Customer with this phone already exists", http.StatusConflict)
		default:
			l.Error("Failed to update customer", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}
