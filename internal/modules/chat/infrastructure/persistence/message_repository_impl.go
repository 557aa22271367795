package persistence

import (
	"context"
	"time"

	chatEntity "SupportDesk/internal/modules/chat/domain/entity"
	chatRepository "SupportDesk/internal/modules/chat/domain/repository"

	"gorm.io/gorm"
)

type messageRepositoryImpl struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) chatRepository.MessageRepository {
	return &messageRepositoryImpl{db: db}
}

func (r *messageRepositoryImpl) Create(ctx context.Context, m *chatEntity.Message) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *messageRepositoryImpl) GetByID(ctx context.Context, id string) (*chatEntity.Message, error) {
	var m chatEntity.Message
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *messageRepositoryImpl) ListByConversation(ctx context.Context, conversationID string, limit int, before *time.Time) ([]chatEntity.Message, error) {
	if limit <= 0 {
		limit = 50
	}
	q := r.db.WithContext(ctx).Where("conversation_id = ?", conversationID)
	if before != nil {
		q = q.Where("created_at < ?", *before)
	}
	var msgs []chatEntity.Message
	if err := q.Order("created_at DESC").Limit(limit).Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}

func (r *messageRepositoryImpl) UnreadIDs(ctx context.Context, conversationID string, userID string, upTo *time.Time) ([]string, error) {
	read := r.db.Model(&chatEntity.MessageReadStatus{}).Select("message_id").Where("user_id = ?", userID)
	q := r.db.WithContext(ctx).
		Model(&chatEntity.Message{}).
		Where("conversation_id = ?", conversationID).
		Where("id NOT IN (?)", read)
	if upTo != nil {
		q = q.Where("created_at <= ?", *upTo)
	}
	var ids []string
	if err := q.Order("created_at ASC").Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
