package repository

import (
	"context"

	"SupportDesk/internal/modules/user/domain/entity"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// ListActive 未删除且 is_active 的用户，按创建时间升序
	ListActive(ctx context.Context) ([]entity.User, error)
	// ListActiveByRole 角色大小写不敏感
	ListActiveByRole(ctx context.Context, role string) ([]entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	UpdateWebhookURL(ctx context.Context, id string, url *string) error
	// Deactivate 置 is_active=false 并软删除
	Deactivate(ctx context.Context, id string) error
}
