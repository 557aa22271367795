package service

import (
	"context"
	"errors"
	"strings"
	"time"

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

type TicketService interface {
	Create(ctx context.Context, actor Actor, req request.CreateTicketRequest) (*respond.TicketItem, error)
	Get(ctx context.Context, actor Actor, id string) (*respond.TicketItem, error)
	List(ctx context.Context, actor Actor, req request.ListTicketRequest) (*respond.TicketList, error)
	Update(ctx context.Context, actor Actor, id string, req request.UpdateTicketRequest) (*respond.TicketItem, error)
	Delete(ctx context.Context, actor Actor, id string) error
}

type ticketServiceImpl struct {
	repo repository.TicketRepository
	bus  hook.Emitter
}

func NewTicketService(repo repository.TicketRepository, bus hook.Emitter) TicketService {
	return &ticketServiceImpl{repo: repo, bus: bus}
}

func (s *ticketServiceImpl) Create(ctx context.Context, actor Actor, req request.CreateTicketRequest) (*respond.TicketItem, error) {
	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		return nil, xerr.New(xerr.BadRequest, "subject is required")
	}
	priority := strings.ToUpper(req.Priority)
	if priority == "" {
		priority = entity.PriorityMedium
	}
	t := &entity.Ticket{
		ID:          util.GenerateUUID(),
		Subject:     subject,
		Description: req.Description,
		Status:      entity.StatusOpen,
		Priority:    priority,
		RequesterID: actor.ID,
	}
	if actor.IsStaff() && req.AssigneeID != nil && *req.AssigneeID != "" {
		t.AssigneeID = req.AssigneeID
	}
	if err := s.repo.Create(ctx, t); err != nil {
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}

	// 通知失败不影响已提交的工单
	s.bus.Emit(ctx, hook.TicketCreated, t)
	return toTicketItem(t), nil
}

func (s *ticketServiceImpl) Get(ctx context.Context, actor Actor, id string) (*respond.TicketItem, error) {
	t, err := s.loadVisible(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return toTicketItem(t), nil
}

func (s *ticketServiceImpl) List(ctx context.Context, actor Actor, req request.ListTicketRequest) (*respond.TicketList, error) {
	f := repository.TicketFilter{
		Status:     req.Status,
		AssigneeID: req.AssigneeID,
		Limit:      req.Limit,
		Offset:     req.Offset,
	}
	if !actor.IsStaff() {
		f.RequesterID = actor.ID
	}
	list, total, err := s.repo.List(ctx, f)
	if err != nil {
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}
	out := &respond.TicketList{Items: make([]respond.TicketItem, 0, len(list)), Total: total}
	for i := range list {
		out.Items = append(out.Items, *toTicketItem(&list[i]))
	}
	return out, nil
}

func (s *ticketServiceImpl) Update(ctx context.Context, actor Actor, id string, req request.UpdateTicketRequest) (*respond.TicketItem, error) {
	t, err := s.loadVisible(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Subject != nil {
		fields["subject"] = strings.TrimSpace(*req.Subject)
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Priority != nil {
		fields["priority"] = strings.ToUpper(*req.Priority)
	}
	if req.Status != nil || req.AssigneeID != nil {
		if !actor.IsStaff() {
			return nil, xerr.New(xerr.Forbidden, "only staff can change status or assignee")
		}
		if req.Status != nil && *req.Status != t.Status {
			fields["status"] = *req.Status
			fields["status_changed_at"] = time.Now()
		}
		if req.AssigneeID != nil {
			if *req.AssigneeID == "" {
				fields["assignee_id"] = nil
			} else {
				fields["assignee_id"] = *req.AssigneeID
			}
		}
	}
	if len(fields) == 0 {
		return toTicketItem(t), nil
	}

	if err := s.repo.Update(ctx, id, fields); err != nil {
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}
	t, err = s.repo.GetByID(ctx, id)
	if err != nil {
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}

	s.bus.Emit(ctx, hook.TicketUpdated, t)
	return toTicketItem(t), nil
}

func (s *ticketServiceImpl) Delete(ctx context.Context, actor Actor, id string) error {
	t, err := s.loadVisible(ctx, actor, id)
	if err != nil {
		return err
	}
	if !actor.IsStaff() && t.RequesterID != actor.ID {
		return xerr.ErrForbidden
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		zlog.Error(err.Error())
		return xerr.ErrServerError
	}

	s.bus.Emit(ctx, hook.TicketDeleted, t)
	return nil
}

// loadVisible 客户只能访问自己提交的工单
func (s *ticketServiceImpl) loadVisible(ctx context.Context, actor Actor, id string) (*entity.Ticket, error) {
	t, err := loadTicket(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsStaff() && t.RequesterID != actor.ID {
		return nil, xerr.ErrForbidden
	}
	return t, nil
}

func loadTicket(ctx context.Context, repo repository.TicketRepository, id string) (*entity.Ticket, error) {
	t, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, xerr.New(xerr.NotFound, "ticket not found")
		}
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}
	return t, nil
}

func toTicketItem(t *entity.Ticket) *respond.TicketItem {
	return &respond.TicketItem{
		ID:              t.ID,
		Number:          t.Number(),
		Subject:         t.Subject,
		Description:     t.Description,
		Status:          t.Status,
		Priority:        t.Priority,
		RequesterID:     t.RequesterID,
		AssigneeID:      t.AssigneeID,
		StatusChangedAt: util.FormatUTCPtr(t.StatusChangedAt),
		CreatedAt:       util.FormatUTC(t.CreatedAt),
		UpdatedAt:       util.FormatUTC(t.UpdatedAt),
	}
}
