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

type AttachmentService interface {
	Create(ctx context.Context, actor Actor, ticketID string, req request.CreateAttachmentRequest) (*respond.AttachmentItem, error)
	List(ctx context.Context, ticketID string) ([]respond.AttachmentItem, error)
	Update(ctx context.Context, actor Actor, id string, req request.UpdateAttachmentRequest) (*respond.AttachmentItem, error)
	Delete(ctx context.Context, actor Actor, id string) error
}

type attachmentServiceImpl struct {
	tickets     repository.TicketRepository
	attachments repository.AttachmentRepository
	bus         hook.Emitter
}

func NewAttachmentService(tickets repository.TicketRepository, attachments repository.AttachmentRepository, bus hook.Emitter) AttachmentService {
	return &attachmentServiceImpl{tickets: tickets, attachments: attachments, bus: bus}
}

func (s *attachmentServiceImpl) Create(ctx context.Context, actor Actor, ticketID string, req request.CreateAttachmentRequest) (*respond.AttachmentItem, error) {
	if _, err := loadTicket(ctx, s.tickets, ticketID); err != nil {
		return nil, err
	}
	typ := strings.ToUpper(req.Type)
	if typ == "" {
		typ = "OTHER"
	}
	a := &entity.Attachment{
		ID:         util.GenerateUUID(),
		Filename:   req.Filename,
		URL:        req.URL,
		Type:       typ,
		Size:       req.Size,
		TicketID:   ticketID,
		UploadedBy: actor.ID,
	}
	if err := s.attachments.Create(ctx, a); err != nil {
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}

	loaded, err := s.attachments.GetByID(ctx, a.ID)
	if err != nil {
		zlog.Error(err.Error())
		return toAttachmentItem(a), nil
	}
	s.bus.Emit(ctx, hook.AttachmentCreated, loaded)
	return toAttachmentItem(loaded), nil
}

func (s *attachmentServiceImpl) List(ctx context.Context, ticketID string) ([]respond.AttachmentItem, error) {
	list, err := s.attachments.ListByTicket(ctx, ticketID)
	if err != nil {
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}
	out := make([]respond.AttachmentItem, 0, len(list))
	for i := range list {
		out = append(out, *toAttachmentItem(&list[i]))
	}
	return out, nil
}

func (s *attachmentServiceImpl) Update(ctx context.Context, actor Actor, id string, req request.UpdateAttachmentRequest) (*respond.AttachmentItem, error) {
	a, err := s.loadOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	fields := map[string]interface{}{}
	if req.Filename != nil {
		fields["filename"] = *req.Filename
	}
	if req.Type != nil {
		fields["type"] = strings.ToUpper(*req.Type)
	}
	if len(fields) == 0 {
		return toAttachmentItem(a), nil
	}
	if err := s.attachments.Update(ctx, id, fields); err != nil {
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}
	if a, err = s.attachments.GetByID(ctx, id); err != nil {
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}

	s.bus.Emit(ctx, hook.AttachmentUpdated, a)
	return toAttachmentItem(a), nil
}

func (s *attachmentServiceImpl) Delete(ctx context.Context, actor Actor, id string) error {
	a, err := s.loadOwned(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.attachments.SoftDelete(ctx, id); err != nil {
		zlog.Error(err.Error())
		return xerr.ErrServerError
	}

	s.bus.Emit(ctx, hook.AttachmentDeleted, a)
	return nil
}

// loadOwned 上传者本人或工作人员
func (s *attachmentServiceImpl) loadOwned(ctx context.Context, actor Actor, id string) (*entity.Attachment, error) {
	a, err := s.attachments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, xerr.New(xerr.NotFound, "attachment not found")
		}
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}
	if a.UploadedBy != actor.ID && !actor.IsStaff() {
		return nil, xerr.ErrForbidden
	}
	return a, nil
}

func toAttachmentItem(a *entity.Attachment) *respond.AttachmentItem {
	return &respond.AttachmentItem{
		ID:         a.ID,
		TicketID:   a.TicketID,
		Filename:   a.Filename,
		URL:        a.URL,
		Type:       a.Type,
		Size:       a.Size,
		UploadedBy: a.UploadedBy,
		CreatedAt:  util.FormatUTC(a.CreatedAt),
	}
}
