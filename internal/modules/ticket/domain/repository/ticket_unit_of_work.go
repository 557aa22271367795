package repository

import (
	"context"

	notificationRepository "SupportDesk/internal/modules/notification/domain/repository"
)

// TicketUnitOfWork 测试状态、工单状态与通知在同一事务内提交
type TicketUnitOfWork interface {
	Transaction(ctx context.Context, fn func(tickets TicketRepository, testing TestingRepository, notifications notificationRepository.NotificationRepository) error) error
}
