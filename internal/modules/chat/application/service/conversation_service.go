package service

import (
	"context"
	"errors"

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

type ConversationService interface {
	Create(ctx context.Context, creatorID string, req chatRequest.CreateConversationRequest) (*chatRespond.ConversationItem, error)
	ListMine(ctx context.Context, userID string) ([]chatRespond.ConversationItem, error)
	Get(ctx context.Context, conversationID string, userID string) (*chatRespond.ConversationItem, error)
	Delete(ctx context.Context, conversationID string, userID string) error
}

type conversationServiceImpl struct {
	repo chatRepository.ConversationRepository
	bus  hook.Emitter
}

func NewConversationService(repo chatRepository.ConversationRepository, bus hook.Emitter) ConversationService {
	return &conversationServiceImpl{repo: repo, bus: bus}
}

func (s *conversationServiceImpl) Create(ctx context.Context, creatorID string, req chatRequest.CreateConversationRequest) (*chatRespond.ConversationItem, error) {
	convType := req.Type
	if convType == "" {
		convType = entity.ConversationDirect
	}

	ids := dedupIDs(append([]string{creatorID}, req.ParticipantIDs...))
	if len(ids) < 2 {
		return nil, xerr.New(xerr.BadRequest, "会话至少需要两名参与者")
	}

	conv := &entity.Conversation{
		ID:             util.GenerateUUID(),
		Type:           convType,
		Title:          req.Title,
		TicketID:       req.TicketID,
		CreatedByID:    creatorID,
		ParticipantIDs: ids,
	}
	participants := make([]entity.ConversationParticipant, 0, len(ids))
	for _, id := range ids {
		role := "member"
		if id == creatorID {
			role = "owner"
		}
		participants = append(participants, entity.ConversationParticipant{
			ID:             util.GenerateUUID(),
			ConversationID: conv.ID,
			UserID:         id,
			Role:           role,
		})
	}

	if err := s.repo.Create(ctx, conv, participants); err != nil {
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}
	s.bus.Emit(ctx, hook.ConversationCreated, conv)

	item := toConversationItem(conv)
	return &item, nil
}

func (s *conversationServiceImpl) ListMine(ctx context.Context, userID string) ([]chatRespond.ConversationItem, error) {
	list, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}
	out := make([]chatRespond.ConversationItem, 0, len(list))
	for i := range list {
		out = append(out, toConversationItem(&list[i]))
	}
	return out, nil
}

func (s *conversationServiceImpl) Get(ctx context.Context, conversationID string, userID string) (*chatRespond.ConversationItem, error) {
	conv, err := s.repo.GetByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, xerr.New(xerr.NotFound, "会话不存在")
		}
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}
	ids, err := s.repo.ParticipantIDs(ctx, conversationID)
	if err != nil {
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}
	if !contains(ids, userID) {
		return nil, xerr.New(xerr.Forbidden, "不是该会话的参与者")
	}
	conv.ParticipantIDs = ids
	item := toConversationItem(conv)
	return &item, nil
}

// Delete 任一参与者都可以删除会话
func (s *conversationServiceImpl) Delete(ctx context.Context, conversationID string, userID string) error {
	if _, err := s.repo.GetByID(ctx, conversationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return xerr.New(xerr.NotFound, "会话不存在")
		}
		zlog.Error(err.Error())
		return xerr.ErrServerError
	}
	if err := requireParticipant(ctx, s.repo, conversationID, userID); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, conversationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return xerr.New(xerr.NotFound, "会话不存在")
		}
		zlog.Error(err.Error())
		return xerr.ErrServerError
	}
	return nil
}

func toConversationItem(c *entity.Conversation) chatRespond.ConversationItem {
	return chatRespond.ConversationItem{
		ID:             c.ID,
		Type:           c.Type,
		Title:          c.Title,
		TicketID:       c.TicketID,
		CreatedByID:    c.CreatedByID,
		ParticipantIDs: c.ParticipantIDs,
		CreatedAt:      util.FormatUTC(c.CreatedAt),
	}
}

func dedupIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
