package repository

import (
	"context"

	"SupportDesk/internal/modules/ticket/domain/entity"
)

type TestingFilter struct {
	TicketID string
	UserID   string
	Status   string
}

type TestingRepository interface {
	Create(ctx context.Context, s *entity.TestingSession) error
	GetByID(ctx context.Context, id string) (*entity.TestingSession, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.TestingSession, error)
	List(ctx context.Context, f TestingFilter) ([]entity.TestingSession, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	SoftDelete(ctx context.Context, id string) error
}
