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
)

type subscriptionResponse struct {
	ID            uuid.UUID  `json:"id"`
	Status        string     `json:"status"`
	TrialStart    time.Time  `json:"trial_start_date"`
	TrialEnd      time.Time  `json:"trial_end_date"`
	PaidStart     *time.Time `json:"subscription_start_date,omitempty"`
	PaidEnd       *time.Time `json:"subscription_end_date,omitempty"`
	IsActive      bool       `json:"is_active"`
	DaysRemaining int        `json:"days_remaining"`
}

func toSubscriptionResponse(s models.Subscription) subscriptionResponse {
	now := time.Now()
	return subscriptionResponse{
		ID:            s.ID,
		Status:        s.Status,
		TrialStart:    s.TrialStart,
		TrialEnd:      s.TrialEnd,
		PaidStart:     s.PaidStart,
		PaidEnd:       s.PaidEnd,
		IsActive:      s.Active(now),
		DaysRemaining: s.DaysRemaining(now),
	}
}

func handleGetSubscription(subscriptions subscriptionService, shops shopService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, _, ok := ownedShop(w, r, shops)
		if !ok {
			return
		}

		sub, err := subscriptions.Get(r.Context(), s.ID)

		switch {
		case err == nil:
			render.JSON(w, toSubscriptionResponse(sub))
		case errors.Is(err, apperrors.ErrSubscriptionNotFound):
			render.ServiceError(w, "Subscription not found", http.StatusNotFound)
		default:
			l.Error("Failed to get subscription", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleActivateSubscription(subscriptions subscriptionService, shops shopService, l logger.Logger) http.Handler {
	type response struct {
		Message      string               `json:"message"`
		Subscription subscriptionResponse `json:"subscription"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, _, ok := ownedShop(w, r, shops)
		if !ok {
			return
		}

		sub, err := subscriptions.Activate(r.Context(), s.ID)

		switch {
		case err == nil:
			render.JSON(w, response{Message: "Subscription activated", Subscription: toSubscriptionResponse(sub)})
		case errors.Is(err, apperrors.ErrSubscriptionNotFound):
			render.ServiceError(w, "Subscription not found", http.StatusNotFound)
		default:
			l.Error("Failed to activate subscription", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}
