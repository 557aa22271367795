package service

import (
	"context"
	"errors"
	"testing"

	"SupportDesk/internal/modules/notification/domain/entity"
	"SupportDesk/internal/modules/notification/infrastructure/mq"
	"SupportDesk/internal/modules/notification/infrastructure/webhook"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotificationRepo struct {
	rows      map[string]*entity.Notification
	createErr error
	calls     *[]string
}

func newFakeNotificationRepo(calls *[]string) *fakeNotificationRepo {
	return &fakeNotificationRepo{rows: map[string]*entity.Notification{}, calls: calls}
}

func (f *fakeNotificationRepo) Create(_ context.Context, n *entity.Notification) error {
	if f.calls != nil {
		*f.calls = append(*f.calls, "save")
	}
	if f.createErr != nil {
		return f.createErr
	}
	f.rows[n.ID] = n
	return nil
}

func (f *fakeNotificationRepo) GetByID(_ context.Context, id string) (*entity.Notification, error) {
	n, ok := f.rows[id]
	if !ok || n.DeletedAt.Valid {
		return nil, errNotFound
	}
	return n, nil
}

func (f *fakeNotificationRepo) ListByUser(_ context.Context, userID string, limit int) ([]entity.Notification, error) {
	var out []entity.Notification
	for _, n := range f.rows {
		if n.UserID == userID && !n.DeletedAt.Valid && len(out) < limit {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) CountUnread(_ context.Context, userID string) (int64, error) {
	var c int64
	for _, n := range f.rows {
		if n.UserID == userID && !n.IsRead && !n.DeletedAt.Valid {
			c++
		}
	}
	return c, nil
}

func (f *fakeNotificationRepo) MarkRead(_ context.Context, id string, userID string) (int64, error) {
	n, ok := f.rows[id]
	if !ok || n.UserID != userID || n.IsRead {
		return 0, nil
	}
	n.IsRead = true
	return 1, nil
}

func (f *fakeNotificationRepo) MarkAllRead(_ context.Context, userID string) (int64, error) {
	var c int64
	for _, n := range f.rows {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			c++
		}
	}
	return c, nil
}

func (f *fakeNotificationRepo) SoftDelete(_ context.Context, id string, userID string) (int64, error) {
	n, ok := f.rows[id]
	if !ok || n.UserID != userID {
		return 0, nil
	}
	n.DeletedAt.Valid = true
	return 1, nil
}

type recordingCache struct {
	data  map[string][]byte
	calls *[]string
}

func (c *recordingCache) Get(_ context.Context, userID string) ([]byte, bool) {
	v, ok := c.data[userID]
	return v, ok
}

func (c *recordingCache) Set(_ context.Context, userID string, data []byte) {
	if c.data == nil {
		c.data = map[string][]byte{}
	}
	c.data[userID] = data
}

func (c *recordingCache) Invalidate(_ context.Context, userID string) {
	if c.calls != nil {
		*c.calls = append(*c.calls, "invalidate")
	}
	delete(c.data, userID)
}

type recordingPublisher struct {
	calls *[]string
	msgs  []mq.Message
	err   error
}

func (p *recordingPublisher) Publish(_ context.Context, msg mq.Message) (mq.PublishResult, error) {
	*p.calls = append(*p.calls, "stream")
	p.msgs = append(p.msgs, msg)
	return mq.PublishResult{}, p.err
}

func (p *recordingPublisher) Close() error { return nil }

type recordingDeliverer struct {
	calls *[]string
	res   webhook.Result
	got   []*entity.Notification
}

func (d *recordingDeliverer) Deliver(_ context.Context, n *entity.Notification, _ map[string]interface{}) webhook.Result {
	if d.calls != nil {
		*d.calls = append(*d.calls, "deliver")
	}
	d.got = append(d.got, n)
	res := d.res
	res.RecipientID = n.UserID
	return res
}

func TestNotifier_NotifyOrder(t *testing.T) {
	var calls []string
	pub := &recordingPublisher{calls: &calls}
	deliverer := &recordingDeliverer{calls: &calls, res: webhook.Result{Outcome: webhook.OutcomeDelivered}}
	n := NewNotifier(newFakeNotificationRepo(&calls), &recordingCache{calls: &calls}, mq.NewNotificationStream(pub, "topic"), deliverer)

	note := &entity.Notification{UserID: "u1", Type: entity.TypeNewTicket, Message: "m"}
	require.NoError(t, n.Notify(context.Background(), note, nil))

	assert.NotEmpty(t, note.ID)
	assert.Equal(t, []string{"save", "invalidate", "stream", "deliver"}, calls)
	require.Len(t, pub.msgs, 1)
	assert.Equal(t, []byte("u1"), pub.msgs[0].Key)
}

func TestNotifier_SaveFailureStopsDelivery(t *testing.T) {
	var calls []string
	repo := newFakeNotificationRepo(&calls)
	repo.createErr = errors.New("db down")
	deliverer := &recordingDeliverer{calls: &calls}
	n := NewNotifier(repo, nil, nil, deliverer)

	err := n.Notify(context.Background(), &entity.Notification{UserID: "u1", Type: entity.TypeNewTicket}, nil)
	require.Error(t, err)
	assert.Equal(t, []string{"save"}, calls)
}

func TestNotifier_StreamFailureStillDelivers(t *testing.T) {
	var calls []string
	pub := &recordingPublisher{calls: &calls, err: errors.New("broker down")}
	deliverer := &recordingDeliverer{calls: &calls}
	n := NewNotifier(newFakeNotificationRepo(&calls), nil, mq.NewNotificationStream(pub, "topic"), deliverer)

	require.NoError(t, n.Notify(context.Background(), &entity.Notification{UserID: "u1", Type: entity.TypeNewTicket}, nil))
	assert.Equal(t, []string{"save", "stream", "deliver"}, calls)
}
