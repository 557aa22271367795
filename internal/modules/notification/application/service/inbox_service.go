package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"SupportDesk/internal/modules/notification/application/dto/request"
	"SupportDesk/internal/modules/notification/application/dto/respond"
	"SupportDesk/internal/modules/notification/domain/entity"
	"SupportDesk/internal/modules/notification/domain/repository"
	"SupportDesk/internal/modules/notification/infrastructure/cache"
	"SupportDesk/internal/modules/notification/infrastructure/webhook"
	"SupportDesk/pkg/util"
	"SupportDesk/pkg/xerr"
	"SupportDesk/pkg/zlog"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultListLimit = 50
	testMessage      = "This is a test webhook notification"
)

type InboxService interface {
	List(ctx context.Context, userID string, req request.ListNotificationRequest) (*respond.NotificationList, error)
	MarkRead(ctx context.Context, id string, userID string) (*respond.MarkReadRespond, error)
	MarkAllRead(ctx context.Context, userID string) (*respond.MarkReadRespond, error)
	Delete(ctx context.Context, id string, userID string) error
	// ReceiveWebhook 内置回调接收端，只校验并记录
	ReceiveWebhook(ctx context.Context, body []byte) (*respond.WebhookReceived, error)
	// TestWebhook 向当前用户的回调地址发一条不落库的测试通知
	TestWebhook(ctx context.Context, userID string) (*respond.WebhookTestRespond, error)
}

type inboxServiceImpl struct {
	repo       repository.NotificationRepository
	cache      cache.ListCache
	targets    webhook.TargetResolver
	dispatcher Deliverer
}

func NewInboxService(repo repository.NotificationRepository, listCache cache.ListCache, targets webhook.TargetResolver, dispatcher Deliverer) InboxService {
	if listCache == nil {
		listCache = cache.Nop()
	}
	return &inboxServiceImpl{
		repo:       repo,
		cache:      listCache,
		targets:    targets,
		dispatcher: dispatcher,
	}
}

func (s *inboxServiceImpl) List(ctx context.Context, userID string, req request.ListNotificationRequest) (*respond.NotificationList, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	// 只缓存默认页
	cacheable := limit == defaultListLimit
	if cacheable {
		if raw, ok := s.cache.Get(ctx, userID); ok {
			var out respond.NotificationList
			if err := json.Unmarshal(raw, &out); err == nil {
				return &out, nil
			}
		}
	}

	list, err := s.repo.ListByUser(ctx, userID, limit)
	if err != nil {
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}
	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}

	out := &respond.NotificationList{
		Notifications: make([]respond.NotificationItem, 0, len(list)),
		UnreadCount:   unread,
	}
	for i := range list {
		out.Notifications = append(out.Notifications, toItem(&list[i]))
	}
	if cacheable {
		if raw, err := json.Marshal(out); err == nil {
			s.cache.Set(ctx, userID, raw)
		}
	}
	return out, nil
}

func (s *inboxServiceImpl) MarkRead(ctx context.Context, id string, userID string) (*respond.MarkReadRespond, error) {
	if err := s.checkOwner(ctx, id, userID); err != nil {
		return nil, err
	}
	n, err := s.repo.MarkRead(ctx, id, userID)
	if err != nil {
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}
	if n > 0 {
		s.cache.Invalidate(ctx, userID)
	}
	return &respond.MarkReadRespond{Updated: n}, nil
}

func (s *inboxServiceImpl) MarkAllRead(ctx context.Context, userID string) (*respond.MarkReadRespond, error) {
	n, err := s.repo.MarkAllRead(ctx, userID)
	if err != nil {
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}
	s.cache.Invalidate(ctx, userID)
	return &respond.MarkReadRespond{Updated: n}, nil
}

func (s *inboxServiceImpl) Delete(ctx context.Context, id string, userID string) error {
	if err := s.checkOwner(ctx, id, userID); err != nil {
		return err
	}
	if _, err := s.repo.SoftDelete(ctx, id, userID); err != nil {
		zlog.Error(err.Error())
		return xerr.ErrServerError
	}
	s.cache.Invalidate(ctx, userID)
	return nil
}

func (s *inboxServiceImpl) checkOwner(ctx context.Context, id string, userID string) error {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return xerr.New(xerr.NotFound, "通知不存在")
		}
		zlog.Error(err.Error())
		return xerr.ErrServerError
	}
	if n.UserID != userID {
		return xerr.New(xerr.Forbidden, "只能操作自己的通知")
	}
	return nil
}

func (s *inboxServiceImpl) ReceiveWebhook(ctx context.Context, body []byte) (*respond.WebhookReceived, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, xerr.New(xerr.BadRequest, "invalid webhook payload")
	}
	rawEvent, okEvent := envelope["event"]
	rawNotification, okNotification := envelope["notification"]
	if !okEvent || !okNotification {
		return nil, xerr.New(xerr.BadRequest, "missing event or notification")
	}

	var event string
	_ = json.Unmarshal(rawEvent, &event)
	var note webhook.NotificationBody
	if err := json.Unmarshal(rawNotification, &note); err != nil {
		return nil, xerr.New(xerr.BadRequest, "invalid notification")
	}
	zlog.Info("webhook received",
		zap.String("event", event),
		zap.String("notification_id", note.ID),
		zap.String("type", note.Type))
	return &respond.WebhookReceived{Status: "received"}, nil
}

func (s *inboxServiceImpl) TestWebhook(ctx context.Context, userID string) (*respond.WebhookTestRespond, error) {
	target, err := s.targets.ResolveTarget(ctx, userID)
	if err != nil {
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}
	if target == "" {
		return nil, xerr.New(xerr.BadRequest, "no webhook URL configured")
	}

	n := &entity.Notification{
		ID:        "test-" + userID,
		UserID:    userID,
		Type:      entity.TypeWebhookTest,
		Message:   testMessage,
		CreatedAt: time.Now().UTC(),
	}
	res := s.dispatcher.Deliver(ctx, n, nil)
	out := &respond.WebhookTestRespond{
		Target:     res.Target,
		TargetKind: string(res.Kind),
		Outcome:    string(res.Outcome),
		Reason:     string(res.Reason),
		StatusCode: res.StatusCode,
		Delivered:  res.Delivered(),
	}
	if res.Err != nil {
		out.Error = res.Err.Error()
	}
	return out, nil
}

// WebhookReceiver 把 ReceiveWebhook 适配为站内路由，相对地址的 webhook 直接调用这里
func WebhookReceiver(svc InboxService) webhook.InternalFunc {
	return func(ctx context.Context, body []byte) (int, error) {
		if _, err := svc.ReceiveWebhook(ctx, body); err != nil {
			if ce, ok := xerr.As(err); ok {
				return ce.Code, nil
			}
			return http.StatusInternalServerError, err
		}
		return http.StatusOK, nil
	}
}

func toItem(n *entity.Notification) respond.NotificationItem {
	return respond.NotificationItem{
		ID:                n.ID,
		Type:              n.Type,
		Message:           n.Message,
		RelatedID:         n.RelatedID,
		RelatedType:       n.RelatedType,
		ConversationID:    n.ConversationID,
		ConversationTitle: n.ConversationTitle,
		IsRead:            n.IsRead,
		CreatedAt:         util.FormatUTC(n.CreatedAt),
	}
}
