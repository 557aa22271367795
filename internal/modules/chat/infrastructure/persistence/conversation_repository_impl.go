package persistence

import (
	"context"

	chatEntity "SupportDesk/internal/modules/chat/domain/entity"
	chatRepository "SupportDesk/internal/modules/chat/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type conversationRepositoryImpl struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) chatRepository.ConversationRepository {
	return &conversationRepositoryImpl{db: db}
}

func (r *conversationRepositoryImpl) Create(ctx context.Context, conv *chatEntity.Conversation, participants []chatEntity.ConversationParticipant) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(conv).Error; err != nil {
			return err
		}
		if len(participants) == 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&participants).Error
	})
}

func (r *conversationRepositoryImpl) GetByID(ctx context.Context, id string) (*chatEntity.Conversation, error) {
	var conv chatEntity.Conversation
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&conv).Error; err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *conversationRepositoryImpl) ListForUser(ctx context.Context, userID string) ([]chatEntity.Conversation, error) {
	var list []chatEntity.Conversation
	err := r.db.WithContext(ctx).
		Where("id IN (?)", r.db.Model(&chatEntity.ConversationParticipant{}).Select("conversation_id").Where("user_id = ?", userID)).
		Order("updated_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *conversationRepositoryImpl) ParticipantIDs(ctx context.Context, conversationID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&chatEntity.ConversationParticipant{}).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *conversationRepositoryImpl) IsParticipant(ctx context.Context, conversationID string, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&chatEntity.ConversationParticipant{}).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		Where("conversation_id IN (?)", r.db.Model(&chatEntity.Conversation{}).Select("id")).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *conversationRepositoryImpl) SoftDelete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&chatEntity.Conversation{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
