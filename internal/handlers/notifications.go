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
)

type notificationResponse struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"notification_type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

func toNotificationResponse(n models.Notification) notificationResponse {
	return notificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

func handleListNotifications(notifications notificationService, l logger.Logger) http.Handler {
	type response struct {
		Notifications []notificationResponse `json:"notifications"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		list, err := notifications.List(r.Context(), user.ID)
		if err != nil {
			l.Error("Failed to list notifications", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		res := response{Notifications: make([]notificationResponse, 0, len(list))}
		for _, n := range list {
			res.Notifications = append(res.Notifications, toNotificationResponse(n))
		}

		render.JSON(w, res)
	})
}

func handleMarkNotificationRead(notifications notificationService, l logger.Logger) http.Handler {
	type response struct {
		Message string `json:"message"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		notificationID, ok := pathID(w, r)
		if !ok {
			return
		}

		err := notifications.MarkRead(r.Context(), user.ID, notificationID)

		switch {
		case err == nil:
			render.JSON(w, response{Message: "Notification marked as read"})
		case errors.Is(err, apperrors.ErrNotificationNotFound):
			render.ServiceError(w, "Notification not found", http.StatusNotFound)
		default:
			l.Error("Failed to mark notification read", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleMarkAllNotificationsRead(notifications notificationService, l logger.Logger) http.Handler {
	type response struct {
		Message string `json:"message"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		if err := notifications.MarkAllRead(r.Context(), user.ID); err != nil {
			l.Error("Failed to mark notifications read", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, response{Message: "All notifications marked as read"})
	})
}
