package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Auwalkay/uni-portal/model"
)

// NotificationService handles user notifications. Delivery is
// fire-and-forget with at-least-once semantics: failures are logged,
// never propagated into the operation that triggered them.
type NotificationService struct {
	db *gorm.DB
}

// NewNotificationService creates a new notification service
func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// Notify inserts a notification and swallows failures.
func (s *NotificationService) Notify(ctx context.Context, userID uint, nType model.NotificationType, category model.NotificationCategory, title, message string) {
	notification := &model.UserNotification{
		UserID:   userID,
		Type:     nType,
		Category: category,
		Title:    title,
		Message:  message,
	}
	if err := s.db.WithContext(ctx).Create(notification).Error; err != nil {
		log.Printf("Warning: failed to create notification for user %d: %v", userID, err)
	}
}

// NotifyWithMetadata attaches structured context (invoice id, payment
// reference, session name) to the notification row.
func (s *NotificationService) NotifyWithMetadata(ctx context.Context, userID uint, nType model.NotificationType, category model.NotificationCategory, title, message string, metadata map[string]interface{}) {
	notification := &model.UserNotification{
		UserID:   userID,
		Type:     nType,
		Category: category,
		Title:    title,
		Message:  message,
	}
	if metadata != nil {
		raw, err := json.Marshal(metadata)
		if err != nil {
			log.Printf("Warning: failed to marshal notification metadata: %v", err)
		} else {
			notification.Metadata = datatypes.JSON(raw)
		}
	}
	if err := s.db.WithContext(ctx).Create(notification).Error; err != nil {
		log.Printf("Warning: failed to create notification for user %d: %v", userID, err)
	}
}

// List returns a user's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID uint, unreadOnly bool, limit, offset int) ([]model.UserNotification, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	query := s.db.WithContext(ctx).Model(&model.UserNotification{}).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	var notifications []model.UserNotification
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&notifications).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, total, nil
}

// MarkRead marks one notification read for the owning user.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uint) error {
	result := s.db.WithContext(ctx).Model(&model.UserNotification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("read", true)
	if result.Error != nil {
		return fmt.Errorf("failed to mark notification read: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkAllRead marks every unread notification read for the user.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) error {
	return s.db.WithContext(ctx).Model(&model.UserNotification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true).Error
}
