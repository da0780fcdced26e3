package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "isave/internal/errors"
	"isave/internal/events"
	"isave/internal/logger"
	"isave/internal/models"
	"isave/internal/pagination"
)

// notificationService stores in-app notifications and fans them out.
type notificationService struct {
	db        *gorm.DB
	publisher events.Publisher
}

// NewNotificationService creates a new NotificationServicer. publisher may be
// nil, in which case notifications are only stored.
func NewNotificationService(db *gorm.DB, publisher events.Publisher) NotificationServicer {
	return &notificationService{db: db, publisher: publisher}
}

// NotifyTargetReached tells the owner that a plan has reached its target.
// Errors are logged but never propagate; the deposit that triggered it has
// already committed.
func (s *notificationService) NotifyTargetReached(ctx context.Context, plan *models.SavePlan) {
	planID := plan.ID
	notification := &models.Notification{
		UserID:     plan.UserID,
		Type:       models.NotificationTypeSavePlanTargetReached,
		Title:      "Savings goal reached!",
		Message:    fmt.Sprintf("Congratulations! You've reached your savings goal of %s for %q.", formatAmount(plan.TargetAmount), plan.Title),
		SavePlanID: &planID,
	}

	if err := s.db.WithContext(ctx).Create(notification).Error; err != nil {
		logger.Get().Errorw("failed to create notification",
			"error", err,
			"user_id", plan.UserID,
			"save_plan_id", plan.ID,
		)
		return
	}

	if s.publisher == nil {
		return
	}

	event := events.Event{
		Type:   string(notification.Type),
		UserID: notification.UserID,
		Payload: map[string]any{
			"notification_id": notification.ID,
			"save_plan_id":    plan.ID,
			"title":           notification.Title,
			"message":         notification.Message,
		},
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.Get().Warnw("failed to publish notification event",
			"error", err,
			"notification_id", notification.ID,
		)
	}
}

// GetUserNotifications retrieves a paginated list of the user's notifications, newest first.
func (s *notificationService) GetUserNotifications(ctx context.Context, userID string, page pagination.PageRequest, unreadOnly bool) (*pagination.PageResponse[models.Notification], error) {
	page.Defaults()

	base := s.db.WithContext(ctx).Model(&models.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		base = base.Where("is_read = ?", false)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var notifications []models.Notification
	if err := base.Order("created_at DESC, id DESC").Scopes(pagination.Paginate(page)).Find(&notifications).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(notifications, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// MarkAsRead flags one of the user's notifications as read.
func (s *notificationService) MarkAsRead(ctx context.Context, userID, notificationID string) (*models.Notification, error) {
	db := s.db.WithContext(ctx)

	var notification models.Notification
	if err := db.Where("id = ? AND user_id = ?", notificationID, userID).First(&notification).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotificationNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if !notification.IsRead {
		if err := db.Model(&notification).Update("is_read", true).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		notification.IsRead = true
	}

	return &notification, nil
}
