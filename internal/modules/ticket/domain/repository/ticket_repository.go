package repository

import (
	"context"
	"time"

	"SupportDesk/internal/modules/ticket/domain/entity"
)

type TicketFilter struct {
	Status      string
	RequesterID string
	AssigneeID  string
	Limit       int
	Offset      int
}

type TicketRepository interface {
	Create(ctx context.Context, t *entity.Ticket) error
	GetByID(ctx context.Context, id string) (*entity.Ticket, error)
	// GetByIDForUpdate 事务内加行锁读取
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Ticket, error)
	List(ctx context.Context, f TicketFilter) ([]entity.Ticket, int64, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	UpdateStatus(ctx context.Context, id string, status string, changedAt time.Time) error
	SoftDelete(ctx context.Context, id string) error
}
