package repository

import (
	"context"

	"SupportDesk/internal/modules/kb/domain/entity"
)

type ArticleRepository interface {
	Create(ctx context.Context, a *entity.Article) error
	GetByID(ctx context.Context, id string) (*entity.Article, error)
	List(ctx context.Context, publicOnly bool, limit, offset int) ([]entity.Article, int64, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	IncrementViews(ctx context.Context, id string) error
	SoftDelete(ctx context.Context, id string) error
}
