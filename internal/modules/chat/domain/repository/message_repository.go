package repository

import (
	"context"
	"time"

	"SupportDesk/internal/modules/chat/domain/entity"
)

type MessageRepository interface {
	Create(ctx context.Context, m *entity.Message) error
	GetByID(ctx context.Context, id string) (*entity.Message, error)
	// ListByConversation 按时间倒序，before 非空时只取更早的消息
	ListByConversation(ctx context.Context, conversationID string, limit int, before *time.Time) ([]entity.Message, error)
	// UnreadIDs 会话内该用户尚无已读记录的消息，upTo 非空时只取 created_at <= upTo
	UnreadIDs(ctx context.Context, conversationID string, userID string, upTo *time.Time) ([]string, error)
}

// InsertStrategy 已读记录的幂等写入方式
type InsertStrategy int

const (
	// StrategyOnConflict 依赖数据库的 insert-or-ignore
	StrategyOnConflict InsertStrategy = iota
	// StrategyCatchDuplicate 逐条插入，唯一键冲突视为已读
	StrategyCatchDuplicate
)

type ReadReceiptRepository interface {
	// InsertIgnore 返回新写入的行数，已存在的记录不报错
	InsertIgnore(ctx context.Context, receipts []entity.MessageReadStatus) (int64, error)
	// ReadSet 返回 messageIDs 中该用户已读的集合
	ReadSet(ctx context.Context, userID string, messageIDs []string) (map[string]struct{}, error)
}
