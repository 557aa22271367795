package repository

import (
	"context"

	"SupportDesk/internal/modules/notification/domain/entity"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	GetByID(ctx context.Context, id string) (*entity.Notification, error)
	// ListByUser 未删除的通知，新的在前
	ListByUser(ctx context.Context, userID string, limit int) ([]entity.Notification, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	// MarkRead 只翻转未读记录，已读返回 0
	MarkRead(ctx context.Context, id string, userID string) (int64, error)
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	SoftDelete(ctx context.Context, id string, userID string) (int64, error)
}
