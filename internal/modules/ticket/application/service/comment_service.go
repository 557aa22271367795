package service

import (
	"context"
	"errors"
	"strings"

	"SupportDesk/internal/modules/ticket/application/dto/request"
	"SupportDesk/internal/modules/ticket/application/dto/respond"
	"SupportDesk/internal/modules/ticket/domain/entity"
	"SupportDesk/internal/modules/ticket/domain/repository"
	"SupportDesk/pkg/hook"
	"SupportDesk/pkg/util"
	"SupportDesk/pkg/xerr"
	"SupportDesk/pkg/zlog"

	"gorm.io/gorm"
)

type CommentService interface {
	Create(ctx context.Context, actor Actor, ticketID string, req request.CreateCommentRequest) (*respond.CommentItem, error)
	List(ctx context.Context, ticketID string) ([]respond.CommentItem, error)
	Update(ctx context.Context, actor Actor, id string, req request.UpdateCommentRequest) (*respond.CommentItem, error)
	Delete(ctx context.Context, actor Actor, id string) error
}

type commentServiceImpl struct {
	tickets  repository.TicketRepository
	comments repository.CommentRepository
	bus      hook.Emitter
}

func NewCommentService(tickets repository.TicketRepository, comments repository.CommentRepository, bus hook.Emitter) CommentService {
	return &commentServiceImpl{tickets: tickets, comments: comments, bus: bus}
}

func (s *commentServiceImpl) Create(ctx context.Context, actor Actor, ticketID string, req request.CreateCommentRequest) (*respond.CommentItem, error) {
	if _, err := loadTicket(ctx, s.tickets, ticketID); err != nil {
		return nil, err
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, xerr.New(xerr.BadRequest, "content is required")
	}

	c := &entity.Comment{
		ID:       util.GenerateUUID(),
		Content:  content,
		TicketID: ticketID,
		AuthorID: actor.ID,
	}
	if req.ParentCommentID != nil && *req.ParentCommentID != "" {
		parent, err := s.load(ctx, *req.ParentCommentID)
		if err != nil {
			return nil, err
		}
		if parent.TicketID != ticketID {
			return nil, xerr.New(xerr.BadRequest, "parent comment belongs to another ticket")
		}
		c.ParentCommentID = req.ParentCommentID
	}
	if err := s.comments.Create(ctx, c); err != nil {
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}

	// 重新加载关联的工单、父评论与作者
	loaded, err := s.comments.GetByID(ctx, c.ID)
	if err != nil {
		zlog.Error(err.Error())
		return toCommentItem(c), nil
	}
	s.bus.Emit(ctx, hook.CommentCreated, loaded)
	return toCommentItem(loaded), nil
}

func (s *commentServiceImpl) List(ctx context.Context, ticketID string) ([]respond.CommentItem, error) {
	list, err := s.comments.ListByTicket(ctx, ticketID)
	if err != nil {
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}
	out := make([]respond.CommentItem, 0, len(list))
	for i := range list {
		out = append(out, *toCommentItem(&list[i]))
	}
	return out, nil
}

func (s *commentServiceImpl) Update(ctx context.Context, actor Actor, id string, req request.UpdateCommentRequest) (*respond.CommentItem, error) {
	c, err := s.loadOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := s.comments.UpdateContent(ctx, id, strings.TrimSpace(req.Content)); err != nil {
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}
	if c, err = s.comments.GetByID(ctx, id); err != nil {
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}

	s.bus.Emit(ctx, hook.CommentUpdated, c)
	return toCommentItem(c), nil
}

func (s *commentServiceImpl) Delete(ctx context.Context, actor Actor, id string) error {
	c, err := s.loadOwned(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.comments.SoftDelete(ctx, id); err != nil {
		zlog.Error(err.Error())
		return xerr.ErrServerError
	}

	s.bus.Emit(ctx, hook.CommentDeleted, c)
	return nil
}

// loadOwned 作者本人或管理员
func (s *commentServiceImpl) loadOwned(ctx context.Context, actor Actor, id string) (*entity.Comment, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.AuthorID != actor.ID && !actor.IsAdmin() {
		return nil, xerr.New(xerr.Forbidden, "only the author can modify this comment")
	}
	return c, nil
}

func (s *commentServiceImpl) load(ctx context.Context, id string) (*entity.Comment, error) {
	c, err := s.comments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, xerr.New(xerr.NotFound, "comment not found")
		}
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}
	return c, nil
}

func toCommentItem(c *entity.Comment) *respond.CommentItem {
	item := &respond.CommentItem{
		ID:              c.ID,
		TicketID:        c.TicketID,
		AuthorID:        c.AuthorID,
		Content:         c.Content,
		ParentCommentID: c.ParentCommentID,
		CreatedAt:       util.FormatUTC(c.CreatedAt),
		UpdatedAt:       util.FormatUTC(c.UpdatedAt),
	}
	if c.Author != nil {
		item.AuthorName = c.Author.Label()
	}
	return item
}
