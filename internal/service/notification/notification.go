package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bakikhata/bakikhata/internal/logger"
	"github.com/bakikhata/bakikhata/internal/models"
	"github.com/bakikhata/bakikhata/internal/repository"
)

// NotificationService stores per-user notifications and doubles as the
// ledger notifier: entry events become rows the apps poll over REST.
type NotificationService struct {
	storage repository.Storage
	logger  logger.Logger
}

func NewService(storage repository.Storage, l logger.Logger) *NotificationService {
	if l == nil {
		l = logger.NewNoOpLogger()
	}

	return &NotificationService{
		storage: storage,
		logger:  l,
	}
}

func (s *NotificationService) List(ctx context.Context, userID uuid.UUID) ([]models.Notification, error) {
	return s.storage.Notification().ListByUser(ctx, userID)
}

func (s *NotificationService) MarkRead(ctx context.Context, userID uuid.UUID, notificationID uuid.UUID) error {
	return s.storage.Notification().MarkRead(ctx, userID, notificationID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return s.storage.Notification().MarkAllRead(ctx, userID)
}

// EntryCreated tells the counterparty a pending entry awaits their action.
// Unlinked customers have no account to notify, that is fine.
// Failures are logged and swallowed: a lost notification must not fail the
// financial operation that produced it.
func (s *NotificationService) EntryCreated(ctx context.Context, entry models.Entry, customer models.Customer) {
	if customer.UserID == nil {
		return
	}

	title := fmt.Sprintf("New %s of %s awaits your confirmation", entry.Kind, entry.Amount.StringFixed(2))
	s.create(ctx, *customer.UserID, models.NotificationEntryPending, title, entry.Description)
}

// EntryResolved tells the shop owner how the customer decided
func (s *NotificationService) EntryResolved(ctx context.Context, entry models.Entry, customer models.Customer) {
	shop, err := s.storage.Shop().GetShopByID(ctx, entry.ShopID)
	if err != nil {
		s.logger.Error("failed to resolve shop for notification", "error", err, "entry_id", entry.ID)
		return
	}

	notificationType := models.NotificationEntryConfirmed
	message := ""
	if entry.Status == models.EntryStatusRejected {
		notificationType = models.NotificationEntryRejected
		message = entry.RejectedReason
	}

	title := fmt.Sprintf("%s of %s was %s", entry.Kind, entry.Amount.StringFixed(2), entry.Status)
	s.create(ctx, shop.OwnerID, notificationType, title, message)
}

func (s *NotificationService) create(ctx context.Context, userID uuid.UUID, notificationType string, title string, message string) {
	_, err := s.storage.Notification().Create(ctx, models.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      notificationType,
		Title:     title,
		Message:   message,
		CreatedAt: time.Now(),
	})
	if err != nil {
		s.logger.Error("failed to store notification", "error", err, "user_id", userID)
	}
}
