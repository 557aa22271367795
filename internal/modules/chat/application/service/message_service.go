package service

import (
	"context"
	"errors"
	"time"

	chatRequest "SupportDesk/internal/modules/chat/application/dto/request"
	chatRespond "SupportDesk/internal/modules/chat/application/dto/respond"
	"SupportDesk/internal/modules/chat/domain/entity"
	chatRepository "SupportDesk/internal/modules/chat/domain/repository"
	"SupportDesk/pkg/hook"
	"SupportDesk/pkg/util"
	"SupportDesk/pkg/xerr"
	"SupportDesk/pkg/zlog"

	"gorm.io/gorm"
)

type MessageService interface {
	Send(ctx context.Context, senderID string, conversationID string, req chatRequest.SendMessageRequest) (*chatRespond.MessageItem, error)
	List(ctx context.Context, userID string, conversationID string, req chatRequest.GetMessageListRequest) ([]chatRespond.MessageItem, error)
}

type messageServiceImpl struct {
	convRepo    chatRepository.ConversationRepository
	messageRepo chatRepository.MessageRepository
	receipts    chatRepository.ReadReceiptRepository
	bus         hook.Emitter
}

func NewMessageService(convRepo chatRepository.ConversationRepository, messageRepo chatRepository.MessageRepository, receipts chatRepository.ReadReceiptRepository, bus hook.Emitter) MessageService {
	return &messageServiceImpl{
		convRepo:    convRepo,
		messageRepo: messageRepo,
		receipts:    receipts,
		bus:         bus,
	}
}

func (s *messageServiceImpl) Send(ctx context.Context, senderID string, conversationID string, req chatRequest.SendMessageRequest) (*chatRespond.MessageItem, error) {
	if err := requireParticipant(ctx, s.convRepo, conversationID, senderID); err != nil {
		return nil, err
	}

	msgType := req.MessageType
	if msgType == "" {
		msgType = "text"
	}
	if req.ParentMessageID != nil && *req.ParentMessageID != "" {
		parent, err := s.messageRepo.GetByID(ctx, *req.ParentMessageID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, xerr.New(xerr.BadRequest, "父消息不存在")
			}
			zlog.Error(err.Error())
			return nil, xerr.ErrServerError
		}
		if parent.ConversationID != conversationID {
			return nil, xerr.New(xerr.BadRequest, "父消息不属于该会话")
		}
	}

	msg := &entity.Message{
		ID:              util.GenerateUUID(),
		ConversationID:  conversationID,
		SenderID:        senderID,
		Content:         req.Content,
		MessageType:     msgType,
		ParentMessageID: req.ParentMessageID,
	}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}
	s.bus.Emit(ctx, hook.MessageCreated, msg)

	item := toMessageItem(msg, false)
	return &item, nil
}

func (s *messageServiceImpl) List(ctx context.Context, userID string, conversationID string, req chatRequest.GetMessageListRequest) ([]chatRespond.MessageItem, error) {
	if err := requireParticipant(ctx, s.convRepo, conversationID, userID); err != nil {
		return nil, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	var before *time.Time
	if req.Before != "" {
		t, err := time.Parse(time.RFC3339, req.Before)
		if err != nil {
			return nil, xerr.New(xerr.BadRequest, "before 必须为 RFC3339 时间")
		}
		before = &t
	}

	msgs, err := s.messageRepo.ListByConversation(ctx, conversationID, limit, before)
	if err != nil {
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}
	ids := make([]string, 0, len(msgs))
	for _, m := range msgs {
		ids = append(ids, m.ID)
	}
	read, err := s.receipts.ReadSet(ctx, userID, ids)
	if err != nil {
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}

	out := make([]chatRespond.MessageItem, 0, len(msgs))
	for i := range msgs {
		_, isRead := read[msgs[i].ID]
		out = append(out, toMessageItem(&msgs[i], isRead))
	}
	return out, nil
}

func requireParticipant(ctx context.Context, repo chatRepository.ConversationRepository, conversationID string, userID string) error {
	ok, err := repo.IsParticipant(ctx, conversationID, userID)
	if err != nil {
		zlog.Error(err.Error())
		return xerr.ErrServerError
	}
	if !ok {
		return xerr.New(xerr.Forbidden, "不是该会话的参与者")
	}
	return nil
}

func toMessageItem(m *entity.Message, isRead bool) chatRespond.MessageItem {
	return chatRespond.MessageItem{
		ID:              m.ID,
		ConversationID:  m.ConversationID,
		SenderID:        m.SenderID,
		Content:         m.Content,
		MessageType:     m.MessageType,
		ParentMessageID: m.ParentMessageID,
		IsRead:          isRead,
		CreatedAt:       util.FormatUTC(m.CreatedAt),
	}
}
