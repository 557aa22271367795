package persistence

import (
	"context"

	"SupportDesk/internal/modules/ticket/domain/entity"
	"SupportDesk/internal/modules/ticket/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type commentRepositoryImpl struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) repository.CommentRepository {
	return &commentRepositoryImpl{db: db}
}

func (r *commentRepositoryImpl) Create(ctx context.Context, c *entity.Comment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(c).Error
}

func (r *commentRepositoryImpl) GetByID(ctx context.Context, id string) (*entity.Comment, error) {
	var c entity.Comment
	err := r.db.WithContext(ctx).
		Preload("Ticket").
		Preload("Parent").
		Preload("Author").
		Where("id = ?", id).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *commentRepositoryImpl) ListByTicket(ctx context.Context, ticketID string) ([]entity.Comment, error) {
	var list []entity.Comment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("ticket_id = ?", ticketID).
		Order("created_at ASC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *commentRepositoryImpl) UpdateContent(ctx context.Context, id string, content string) error {
	return r.db.WithContext(ctx).Model(&entity.Comment{}).Where("id = ?", id).Update("content", content).Error
}

func (r *commentRepositoryImpl) SoftDelete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Comment{}).Error
}

type attachmentRepositoryImpl struct {
	db *gorm.DB
}

func NewAttachmentRepository(db *gorm.DB) repository.AttachmentRepository {
	return &attachmentRepositoryImpl{db: db}
}

func (r *attachmentRepositoryImpl) Create(ctx context.Context, a *entity.Attachment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(a).Error
}

func (r *attachmentRepositoryImpl) GetByID(ctx context.Context, id string) (*entity.Attachment, error) {
	var a entity.Attachment
	if err := r.db.WithContext(ctx).Preload("Ticket").Where("id = ?", id).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *attachmentRepositoryImpl) ListByTicket(ctx context.Context, ticketID string) ([]entity.Attachment, error) {
	var list []entity.Attachment
	err := r.db.WithContext(ctx).Where("ticket_id = ?", ticketID).Order("created_at ASC").Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *attachmentRepositoryImpl) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&entity.Attachment{}).Where("id = ?", id).Updates(fields).Error
}

func (r *attachmentRepositoryImpl) SoftDelete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Attachment{}).Error
}
