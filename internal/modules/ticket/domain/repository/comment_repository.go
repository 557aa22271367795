package repository

import (
	"context"

	"SupportDesk/internal/modules/ticket/domain/entity"
)

type CommentRepository interface {
	Create(ctx context.Context, c *entity.Comment) error
	// GetByID 预加载 Ticket、Parent、Author
	GetByID(ctx context.Context, id string) (*entity.Comment, error)
	ListByTicket(ctx context.Context, ticketID string) ([]entity.Comment, error)
	UpdateContent(ctx context.Context, id string, content string) error
	SoftDelete(ctx context.Context, id string) error
}

type AttachmentRepository interface {
	Create(ctx context.Context, a *entity.Attachment) error
	// GetByID 预加载 Ticket
	GetByID(ctx context.Context, id string) (*entity.Attachment, error)
	ListByTicket(ctx context.Context, ticketID string) ([]entity.Attachment, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	SoftDelete(ctx context.Context, id string) error
}
