package store

import (
	"context"
	"fmt"

	"github.com/hireloop-dev/hireloop/internal/models"
	"github.com/hireloop-dev/hireloop/internal/types"
	"gorm.io/gorm"
)

// NotificationStore keeps the audit trail of dispatched notifications.
type NotificationStore struct {
	gdb *gorm.DB
}

func NewNotificationStore(gdb *gorm.DB) *NotificationStore {
	return &NotificationStore{gdb: gdb}
}

func (s *NotificationStore) Create(ctx context.Context, notification *models.Notification) error {
	if err := s.gdb.WithContext(ctx).Create(notification).Error; err != nil {
		return fmt.Errorf("%w: create notification: %v", types.ErrUnavailable, err)
	}

	return nil
}

func (s *NotificationStore) FindByUser(ctx context.Context, userID uint, limit int) ([]models.Notification, error) {
	var notifications []models.Notification

	err := s.gdb.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&notifications).Error

	if err != nil {
		return nil, fmt.Errorf("%w: list notifications: %v", types.ErrUnavailable, err)
	}

	return notifications, nil
}
