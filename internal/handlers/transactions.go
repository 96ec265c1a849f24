package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bakikhata/bakikhata/internal/apperrors"
	"github.com/bakikhata/bakikhata/internal/handlers/render"
	"github.com/bakikhata/bakikhata/internal/handlers/userctx"
	"github.com/bakikhata/bakikhata/internal/logger"
	"github.com/bakikhata/bakikhata/internal/models"
	"github.com/bakikhata/bakikhata/internal/service/ledger"
)

const entryDateLayout = "2006-01-02"

type entryResponse struct {
	ID             uuid.UUID  `json:"id"`
	CustomerID     uuid.UUID  `json:"customerId"`
	Amount         string     `json:"amount"`
	Date           string     `json:"date"`
	Method         string     `json:"method,omitempty"`
	Description    string     `json:"description,omitempty"`
	Status         string     `json:"status"`
	RejectedReason string     `json:"rejected_reason,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	ConfirmedAt    *time.Time `json:"confirmedAt,omitempty"`
}

func toEntryResponse(e models.Entry) entryResponse {
	return entryResponse{
		ID:             e.ID,
		CustomerID:     e.CustomerID,
		Amount:         e.Amount.StringFixed(2),
		Date:           e.Date.Format(entryDateLayout),
		Method:         e.Method,
		Description:    e.Description,
		Status:         e.Status,
		RejectedReason: e.RejectedReason,
		CreatedAt:      e.CreatedAt,
		ConfirmedAt:    e.ConfirmedAt,
	}
}

func toEntryResponses(entries []models.Entry) []entryResponse {
	responses := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, toEntryResponse(e))
	}
	return responses
}

// entryKey returns the json field the clients expect for the kind
func entryKey(kind string) string {
	if kind == models.EntryKindPayment {
		return "payment_entry"
	}
	return "credit_entry"
}

func handleCreateEntry(ledgerService ledgerService, shops shopService, kind string, l logger.Logger) http.Handler {
	type request struct {
		CustomerID uuid.UUID `json:"customerId" validate:"required"`
		Amount     string    `json:"amount" validate:"required,positive_amount"`
		Date       string    `json:"date" validate:"omitempty,datetime=2006-01-02"`

		// Description for credits, method for payments
		Description string `json:"description" validate:"max=500"`
		Method      string `json:"method" validate:"omitempty,oneof=cash bkash nagad"`
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

		// Validated by the positive_amount tag already
		amount, _ := decimal.NewFromString(data.Amount)

		var date time.Time
		if data.Date != "" {
			date, _ = time.Parse(entryDateLayout, data.Date)
		}

		entry, err := ledgerService.CreateEntry(r.Context(), s, ledger.CreateEntryParams{
			Kind:        kind,
			CustomerID:  data.CustomerID,
			Amount:      amount,
			Date:        date,
			Method:      data.Method,
			Description: data.Description,
		})

		switch {
		case err == nil:
			render.JSONWithStatus(w, map[string]any{
				"message":      "Entry created successfully",
				entryKey(kind): toEntryResponse(entry),
			}, http.StatusCreated)
		case errors.Is(err, apperrors.ErrInvalidAmount):
			render.ServiceError(w, "Amount must be positive", http.StatusUnprocessableEntity)
		case errors.Is(err, apperrors.ErrCustomerNotFound):
			render.ServiceError(w, "Customer not found", http.StatusNotFound)
		default:
			l.Error("Failed to create entry", "error", err, "kind", kind)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleResolveEntry(ledgerService ledgerService, kind string, l logger.Logger) http.Handler {
	type request struct {
		Action         string `json:"action" validate:"required,oneof=confirm reject"`
		RejectedReason string `json:"rejected_reason" validate:"max=500"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		entryID, ok := pathID(w, r)
		if !ok {
			return
		}

		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		entry, err := ledgerService.ResolveEntry(r.Context(), user, entryID, data.Action, data.RejectedReason)

		switch {
		case err == nil:
			render.JSON(w, map[string]any{
				"message":      "Entry " + entry.Status,
				entryKey(kind): toEntryResponse(entry),
			})
		case errors.Is(err, apperrors.ErrEntryNotFound):
			render.ServiceError(w, "Entry not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrNotCounterparty):
			render.ServiceError(w, "Only the entry counterparty may resolve it", http.StatusForbidden)
		case errors.Is(err, apperrors.ErrEntryAlreadyResolved):
			render.ServiceError(w, "Entry already resolved", http.StatusConflict)
		default:
			l.Error("Failed to resolve entry", "error", err, "entry_id", entryID)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

// handleListPending serves both sides of the workflow: shop owners see
// their shop's pending entries, everyone else their own pending decisions
func handleListPending(ledgerService ledgerService, shops shopService, l logger.Logger) http.Handler {
	type response struct {
		PendingCredits  []entryResponse `json:"pending_credits"`
		PendingPayments []entryResponse `json:"pending_payments"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		var pending ledger.PendingEntries
		s, err := shops.GetOwned(r.Context(), user)
		switch {
		case err == nil:
			pending, err = ledgerService.ListShopPending(r.Context(), s.ID)
		case errors.Is(err, apperrors.ErrShopNotFound):
			pending, err = ledgerService.ListUserPending(r.Context(), user.ID)
		}

		if err != nil {
			l.Error("Failed to list pending entries", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, response{
			PendingCredits:  toEntryResponses(pending.Credits),
			PendingPayments: toEntryResponses(pending.Payments),
		})
	})
}

func handleShopLedger(ledgerService ledgerService, shops shopService, l logger.Logger) http.Handler {
	type response struct {
		Credits  []entryResponse `json:"credits"`
		Payments []entryResponse `json:"payments"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, _, ok := ownedShop(w, r, shops)
		if !ok {
			return
		}

		credits, err := ledgerService.ListShopEntries(r.Context(), s.ID, models.EntryKindCredit)
		if err != nil {
			l.Error("Failed to list shop credits", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		payments, err := ledgerService.ListShopEntries(r.Context(), s.ID, models.EntryKindPayment)
		if err != nil {
			l.Error("Failed to list shop payments", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, response{
			Credits:  toEntryResponses(credits),
			Payments: toEntryResponses(payments),
		})
	})
}

// handleMyLedger shows the caller their tabs grouped per shop
func handleMyLedger(ledgerService ledgerService, customers customerService, shops shopService, l logger.Logger) http.Handler {
	type shopLedger struct {
		Shop    shopResponse    `json:"shop"`
		Ledger  []entryResponse `json:"ledger"`
		Balance string          `json:"balance"`
	}
	type response struct {
		Shops []shopLedger `json:"shops"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		linked, err := customers.ListLinked(r.Context(), user.ID)
		if err != nil {
			l.Error("Failed to list linked customers", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		res := response{Shops: make([]shopLedger, 0, len(linked))}
		for _, c := range linked {
			s, err := shops.GetByID(r.Context(), c.ShopID)
			if err != nil {
				l.Error("Failed to get shop for ledger", "error", err, "shop_id", c.ShopID)
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
				return
			}

			entries, err := ledgerService.ListCustomerEntries(r.Context(), c.ID, "")
			if err != nil {
				l.Error("Failed to list customer entries", "error", err, "customer_id", c.ID)
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
				return
			}

			res.Shops = append(res.Shops, shopLedger{
				Shop:    toShopResponse(s),
				Ledger:  toEntryResponses(entries),
				Balance: c.Balance.StringFixed(2),
			})
		}

		render.JSON(w, res)
	})
}

func handleCustomerLedger(ledgerService ledgerService, customers customerService, shops shopService, l logger.Logger) http.Handler {
	type response struct {
		Customer customerResponse `json:"customer"`
		Credits  []entryResponse  `json:"credits"`
		Payments []entryResponse  `json:"payments"`
		Balance  string           `json:"balance"`
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

		c, err := customers.Get(r.Context(), s, customerID)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrCustomerNotFound):
				render.ServiceError(w, "Customer not found", http.StatusNotFound)
			default:
				l.Error("Failed to get customer", "error", err)
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		entries, err := ledgerService.ListCustomerEntries(r.Context(), c.ID, "")
		if err != nil {
			l.Error("Failed to list customer entries", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		credits := make([]models.Entry, 0, len(entries))
		payments := make([]models.Entry, 0, len(entries))
		for _, e := range entries {
			switch e.Kind {
			case models.EntryKindCredit:
				credits = append(credits, e)
			case models.EntryKindPayment:
				payments = append(payments, e)
			}
		}

		render.JSON(w, response{
			Customer: toCustomerResponse(c),
			Credits:  toEntryResponses(credits),
			Payments: toEntryResponses(payments),
			Balance:  c.Balance.StringFixed(2),
		})
	})
}
