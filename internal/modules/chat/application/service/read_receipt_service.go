package service

import (
	"context"
	"errors"
	"time"

	"SupportDesk/internal/modules/chat/domain/entity"
	chatRepository "SupportDesk/internal/modules/chat/domain/repository"
	"SupportDesk/pkg/util"
	"SupportDesk/pkg/xerr"
	"SupportDesk/pkg/zlog"

	"gorm.io/gorm"
)

// ReadReceiptService 幂等标记消息已读，返回值为本次新标记的条数
type ReadReceiptService interface {
	MarkRead(ctx context.Context, messageID string, userID string) (int64, error)
	MarkAllRead(ctx context.Context, conversationID string, userID string) (int64, error)
	MarkUpTo(ctx context.Context, conversationID string, messageID string, userID string) (int64, error)
}

type readReceiptServiceImpl struct {
	convRepo    chatRepository.ConversationRepository
	messageRepo chatRepository.MessageRepository
	receipts    chatRepository.ReadReceiptRepository
}

func NewReadReceiptService(convRepo chatRepository.ConversationRepository, messageRepo chatRepository.MessageRepository, receipts chatRepository.ReadReceiptRepository) ReadReceiptService {
	return &readReceiptServiceImpl{
		convRepo:    convRepo,
		messageRepo: messageRepo,
		receipts:    receipts,
	}
}

func (s *readReceiptServiceImpl) MarkRead(ctx context.Context, messageID string, userID string) (int64, error) {
	msg, err := s.loadMessage(ctx, messageID)
	if err != nil {
		return 0, err
	}
	if err := requireParticipant(ctx, s.convRepo, msg.ConversationID, userID); err != nil {
		return 0, err
	}
	return s.insert(ctx, userID, []string{msg.ID})
}

func (s *readReceiptServiceImpl) MarkAllRead(ctx context.Context, conversationID string, userID string) (int64, error) {
	if err := requireParticipant(ctx, s.convRepo, conversationID, userID); err != nil {
		return 0, err
	}
	ids, err := s.messageRepo.UnreadIDs(ctx, conversationID, userID, nil)
	if err != nil {
		zlog.Error(err.Error())
		return 0, xerr.ErrServerError
	}
	return s.insert(ctx, userID, ids)
}

func (s *readReceiptServiceImpl) MarkUpTo(ctx context.Context, conversationID string, messageID string, userID string) (int64, error) {
	if err := requireParticipant(ctx, s.convRepo, conversationID, userID); err != nil {
		return 0, err
	}
	msg, err := s.loadMessage(ctx, messageID)
	if err != nil {
		return 0, err
	}
	if msg.ConversationID != conversationID {
		return 0, xerr.New(xerr.BadRequest, "消息不属于该会话")
	}
	upTo := msg.CreatedAt
	ids, err := s.messageRepo.UnreadIDs(ctx, conversationID, userID, &upTo)
	if err != nil {
		zlog.Error(err.Error())
		return 0, xerr.ErrServerError
	}
	return s.insert(ctx, userID, ids)
}

func (s *readReceiptServiceImpl) loadMessage(ctx context.Context, messageID string) (*entity.Message, error) {
	msg, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, xerr.New(xerr.NotFound, "消息不存在")
		}
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}
	return msg, nil
}

// insert 按 message id 去重后批量幂等写入
func (s *readReceiptServiceImpl) insert(ctx context.Context, userID string, messageIDs []string) (int64, error) {
	ids := dedupIDs(messageIDs)
	if len(ids) == 0 {
		return 0, nil
	}
	now := time.Now()
	rows := make([]entity.MessageReadStatus, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, entity.MessageReadStatus{
			ID:        util.GenerateUUID(),
			MessageID: id,
			UserID:    userID,
			ReadAt:    now,
		})
	}
	n, err := s.receipts.InsertIgnore(ctx, rows)
	if err != nil {
		zlog.Error(err.Error())
		return 0, xerr.ErrServerError
	}
	return n, nil
}
