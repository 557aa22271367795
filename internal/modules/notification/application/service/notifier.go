package service

import (
	"context"
	"time"

	"SupportDesk/internal/modules/notification/domain/entity"
	"SupportDesk/internal/modules/notification/domain/repository"
	"SupportDesk/internal/modules/notification/infrastructure/cache"
	"SupportDesk/internal/modules/notification/infrastructure/mq"
	"SupportDesk/internal/modules/notification/infrastructure/webhook"
	"SupportDesk/pkg/metrics"
	"SupportDesk/pkg/util"
	"SupportDesk/pkg/zlog"

	"go.uber.org/zap"
)

// Deliverer 由 webhook.Dispatcher 实现
type Deliverer interface {
	Deliver(ctx context.Context, n *entity.Notification, snapshot map[string]interface{}) webhook.Result
}

// Notifier 保存通知并触发下游投递。下游失败只记录日志
type Notifier struct {
	repo       repository.NotificationRepository
	cache      cache.ListCache
	stream     *mq.NotificationStream
	dispatcher Deliverer
}

func NewNotifier(repo repository.NotificationRepository, listCache cache.ListCache, stream *mq.NotificationStream, dispatcher Deliverer) *Notifier {
	if listCache == nil {
		listCache = cache.Nop()
	}
	return &Notifier{
		repo:       repo,
		cache:      listCache,
		stream:     stream,
		dispatcher: dispatcher,
	}
}

// Notify 保存后投递，只有保存失败会返回 error
func (s *Notifier) Notify(ctx context.Context, n *entity.Notification, snapshot map[string]interface{}) error {
	if n.ID == "" {
		n.ID = util.GenerateUUID()
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}
	metrics.NotificationsCreated.WithLabelValues(n.Type).Inc()
	s.Deliver(ctx, n, snapshot)
	return nil
}

// Deliver 针对已提交的通知：清列表缓存、写事件流、推送与 webhook
func (s *Notifier) Deliver(ctx context.Context, n *entity.Notification, snapshot map[string]interface{}) webhook.Result {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	s.cache.Invalidate(ctx, n.UserID)

	if s.stream.Enabled() {
		if _, err := s.stream.Publish(ctx, n); err != nil {
			zlog.Warn("notification stream publish failed",
				zap.String("notification_id", n.ID),
				zap.String("recipient_id", n.UserID),
				zap.Error(err))
		}
	}

	if s.dispatcher == nil {
		return webhook.Result{RecipientID: n.UserID, Kind: webhook.KindNone, Outcome: webhook.OutcomeSkippedNoTarget}
	}
	return s.dispatcher.Deliver(ctx, n, snapshot)
}
