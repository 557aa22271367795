package repository

import (
	"context"

	"SupportDesk/internal/modules/chat/domain/entity"
)

type ConversationRepository interface {
	// Create 会话与参与者在同一事务中写入
	Create(ctx context.Context, conv *entity.Conversation, participants []entity.ConversationParticipant) error
	GetByID(ctx context.Context, id string) (*entity.Conversation, error)
	ListForUser(ctx context.Context, userID string) ([]entity.Conversation, error)
	ParticipantIDs(ctx context.Context, conversationID string) ([]string, error)
	// IsParticipant 已软删除的会话视为无人参与
	IsParticipant(ctx context.Context, conversationID string, userID string) (bool, error)
	// SoftDelete 只打删除标记，消息与已读记录保留
	SoftDelete(ctx context.Context, id string) error
}
