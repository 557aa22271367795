package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	notificationEntity "SupportDesk/internal/modules/notification/domain/entity"
	notificationRepository "SupportDesk/internal/modules/notification/domain/repository"
	"SupportDesk/internal/modules/notification/infrastructure/webhook"
	"SupportDesk/internal/modules/ticket/application/dto/request"
	"SupportDesk/internal/modules/ticket/application/dto/respond"
	"SupportDesk/internal/modules/ticket/domain/entity"
	"SupportDesk/internal/modules/ticket/domain/repository"
	"SupportDesk/pkg/metrics"
	"SupportDesk/pkg/util"
	"SupportDesk/pkg/xerr"
	"SupportDesk/pkg/zlog"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NotificationDeliverer 事务提交后投递已保存的通知
type NotificationDeliverer interface {
	Deliver(ctx context.Context, n *notificationEntity.Notification, snapshot map[string]interface{}) webhook.Result
}

type TestingService interface {
	Create(ctx context.Context, actor Actor, req request.CreateTestingRequest) (*respond.TestingItem, error)
	Get(ctx context.Context, id string) (*respond.TestingItem, error)
	List(ctx context.Context, req request.ListTestingRequest) ([]respond.TestingItem, error)
	// Update 只有测试人本人可以修改；带 status 时按 TransitionStatus 处理
	Update(ctx context.Context, actor Actor, id string, req request.UpdateTestingRequest) (*respond.TestingItem, error)
	TransitionStatus(ctx context.Context, actor Actor, id string, status string) (*respond.TestingItem, error)
	Delete(ctx context.Context, actor Actor, id string) error
}

type testingServiceImpl struct {
	tickets   repository.TicketRepository
	testing   repository.TestingRepository
	uow       repository.TicketUnitOfWork
	deliverer NotificationDeliverer
}

func NewTestingService(tickets repository.TicketRepository, testing repository.TestingRepository, uow repository.TicketUnitOfWork, deliverer NotificationDeliverer) TestingService {
	return &testingServiceImpl{
		tickets:   tickets,
		testing:   testing,
		uow:       uow,
		deliverer: deliverer,
	}
}

func (s *testingServiceImpl) Create(ctx context.Context, actor Actor, req request.CreateTestingRequest) (*respond.TestingItem, error) {
	ticket, err := s.tickets.GetByID(ctx, req.TicketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, xerr.New(xerr.BadRequest, "ticket not found")
		}
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}
	if !ticket.IsResolved() {
		return nil, xerr.New(xerr.BadRequest, "testing can only be created for resolved tickets")
	}

	status := entity.NormalizeTestingStatus(req.Status)
	if status == "" {
		status = entity.TestingPending
	}
	if !validTestingStatus(status) {
		return nil, xerr.New(xerr.BadRequest, "invalid testing status")
	}
	testType := req.TestType
	if testType == "" {
		testType = "manual"
	}
	session := &entity.TestingSession{
		ID:       util.GenerateUUID(),
		TicketID: ticket.ID,
		UserID:   actor.ID,
		Status:   status,
		TestType: testType,
		Results:  req.Results,
	}
	if err := s.testing.Create(ctx, session); err != nil {
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}
	return toTestingItem(session), nil
}

func (s *testingServiceImpl) Get(ctx context.Context, id string) (*respond.TestingItem, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toTestingItem(session), nil
}

func (s *testingServiceImpl) List(ctx context.Context, req request.ListTestingRequest) ([]respond.TestingItem, error) {
	list, err := s.testing.List(ctx, repository.TestingFilter{
		TicketID: req.TicketID,
		UserID:   req.UserID,
		Status:   entity.NormalizeTestingStatus(req.Status),
	})
	if err != nil {
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}
	out := make([]respond.TestingItem, 0, len(list))
	for i := range list {
		out = append(out, *toTestingItem(&list[i]))
	}
	return out, nil
}

func (s *testingServiceImpl) TransitionStatus(ctx context.Context, actor Actor, id string, status string) (*respond.TestingItem, error) {
	return s.Update(ctx, actor, id, request.UpdateTestingRequest{Status: &status})
}

func (s *testingServiceImpl) Update(ctx context.Context, actor Actor, id string, req request.UpdateTestingRequest) (*respond.TestingItem, error) {
	if _, err := s.loadOwned(ctx, actor, id); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.TestType != nil {
		fields["test_type"] = *req.TestType
	}
	if req.Results != nil {
		fields["results"] = *req.Results
	}
	var status string
	if req.Status != nil {
		status = entity.NormalizeTestingStatus(*req.Status)
		if !validTestingStatus(status) {
			return nil, xerr.New(xerr.BadRequest, "invalid testing status")
		}
	}

	// 测试状态、工单状态与通知同一事务提交
	var note *notificationEntity.Notification
	err := s.uow.Transaction(ctx, func(tickets repository.TicketRepository, testing repository.TestingRepository, notifications notificationRepository.NotificationRepository) error {
		locked, err := testing.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if len(fields) > 0 {
			if err := testing.Update(ctx, id, fields); err != nil {
				return err
			}
		}
		if status == "" || status == locked.Status {
			return nil
		}
		if err := testing.Update(ctx, id, map[string]interface{}{"status": status}); err != nil {
			return err
		}
		note, err = applyTransition(ctx, tickets, notifications, locked, status)
		return err
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, xerr.New(xerr.NotFound, "testing not found")
		}
		zlog.Error("update testing failed", zap.String("testing_id", id), zap.Error(err))
		return nil, xerr.ErrServerError
	}

	if note != nil {
		metrics.NotificationsCreated.WithLabelValues(note.Type).Inc()
		if s.deliverer != nil {
			s.deliverer.Deliver(ctx, note, nil)
		}
	}
	return s.Get(ctx, id)
}

// applyTransition 进入 passed/failed 时修改工单状态并通知负责人
func applyTransition(ctx context.Context, tickets repository.TicketRepository, notifications notificationRepository.NotificationRepository, session *entity.TestingSession, status string) (*notificationEntity.Notification, error) {
	ticketStatus, changed := entity.Transition(session.Status, status)
	if !changed {
		return nil, nil
	}
	ticket, err := tickets.GetByIDForUpdate(ctx, session.TicketID)
	if err != nil {
		return nil, err
	}
	if err := tickets.UpdateStatus(ctx, ticket.ID, ticketStatus, time.Now()); err != nil {
		return nil, err
	}

	assignee := ticket.Assignee()
	if assignee == "" {
		return nil, nil
	}
	note := (&notificationEntity.Notification{
		ID:      util.GenerateUUID(),
		UserID:  assignee,
		Type:    notificationEntity.TypeTestingResult,
		Message: fmt.Sprintf("Testing for ticket %s has been marked as %s.", ticket.Number(), status),
	}).Related(notificationEntity.RelatedTicket, ticket.ID)
	if err := notifications.Create(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *testingServiceImpl) Delete(ctx context.Context, actor Actor, id string) error {
	if _, err := s.loadOwned(ctx, actor, id); err != nil {
		return err
	}
	if err := s.testing.SoftDelete(ctx, id); err != nil {
		zlog.Error(err.Error())
		return xerr.ErrServerError
	}
	return nil
}

func (s *testingServiceImpl) loadOwned(ctx context.Context, actor Actor, id string) (*entity.TestingSession, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.UserID != actor.ID {
		return nil, xerr.New(xerr.Forbidden, "only the tester can modify this testing")
	}
	return session, nil
}

func (s *testingServiceImpl) load(ctx context.Context, id string) (*entity.TestingSession, error) {
	session, err := s.testing.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, xerr.New(xerr.NotFound, "testing not found")
		}
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}
	return session, nil
}

func validTestingStatus(s string) bool {
	for _, v := range entity.TestingStatuses() {
		if v == s {
			return true
		}
	}
	return false
}

func toTestingItem(t *entity.TestingSession) *respond.TestingItem {
	return &respond.TestingItem{
		ID:        t.ID,
		TicketID:  t.TicketID,
		UserID:    t.UserID,
		Status:    t.Status,
		TestType:  t.TestType,
		Results:   t.Results,
		CreatedAt: util.FormatUTC(t.CreatedAt),
		UpdatedAt: util.FormatUTC(t.UpdatedAt),
	}
}
