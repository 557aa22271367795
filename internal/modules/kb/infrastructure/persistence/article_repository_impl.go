package persistence

import (
	"context"

	"SupportDesk/internal/modules/kb/domain/entity"
	"SupportDesk/internal/modules/kb/domain/repository"

	"gorm.io/gorm"
)

type articleRepositoryImpl struct {
	db *gorm.DB
}

func NewArticleRepository(db *gorm.DB) repository.ArticleRepository {
	return &articleRepositoryImpl{db: db}
}

func (r *articleRepositoryImpl) Create(ctx context.Context, a *entity.Article) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *articleRepositoryImpl) GetByID(ctx context.Context, id string) (*entity.Article, error) {
	var a entity.Article
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *articleRepositoryImpl) List(ctx context.Context, publicOnly bool, limit, offset int) ([]entity.Article, int64, error) {
	q := r.db.WithContext(ctx).Model(&entity.Article{})
	if publicOnly {
		q = q.Where("is_public = ?", true)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if limit <= 0 {
		limit = 20
	}
	var list []entity.Article
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *articleRepositoryImpl) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&entity.Article{}).Where("id = ?", id).Updates(fields).Error
}

func (r *articleRepositoryImpl) IncrementViews(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&entity.Article{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
}

func (r *articleRepositoryImpl) SoftDelete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Article{}).Error
}
