package persistence

import (
	"context"

	notificationRepository "SupportDesk/internal/modules/notification/domain/repository"
	notificationPersistence "SupportDesk/internal/modules/notification/infrastructure/persistence"
	"SupportDesk/internal/modules/ticket/domain/repository"

	"gorm.io/gorm"
)

type ticketUnitOfWorkImpl struct {
	db *gorm.DB
}

func NewTicketUnitOfWork(db *gorm.DB) repository.TicketUnitOfWork {
	return &ticketUnitOfWorkImpl{db: db}
}

func (u *ticketUnitOfWorkImpl) Transaction(ctx context.Context, fn func(tickets repository.TicketRepository, testing repository.TestingRepository, notifications notificationRepository.NotificationRepository) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(
			NewTicketRepository(tx),
			NewTestingRepository(tx),
			notificationPersistence.NewNotificationRepository(tx),
		)
	})
}
