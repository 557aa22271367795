package service

import (
	"context"
	"errors"
	"sync"
	"time"

	notificationEntity "SupportDesk/internal/modules/notification/domain/entity"
	notificationRepository "SupportDesk/internal/modules/notification/domain/repository"
	"SupportDesk/internal/modules/notification/infrastructure/webhook"
	"SupportDesk/internal/modules/ticket/domain/entity"
	"SupportDesk/internal/modules/ticket/domain/repository"

	"gorm.io/gorm"
)

// store 内存版数据库，Transaction 出错时整体回滚
type store struct {
	mu        sync.Mutex
	seq       uint64
	tickets   map[string]*entity.Ticket
	sessions  map[string]*entity.TestingSession
	comments  map[string]*entity.Comment
	notes     []*notificationEntity.Notification
	failNotes bool
}

func newStore() *store {
	return &store{
		tickets:  map[string]*entity.Ticket{},
		sessions: map[string]*entity.TestingSession{},
		comments: map[string]*entity.Comment{},
	}
}

func (s *store) snapshot() *store {
	c := newStore()
	c.seq = s.seq
	for k, v := range s.tickets {
		cp := *v
		c.tickets[k] = &cp
	}
	for k, v := range s.sessions {
		cp := *v
		c.sessions[k] = &cp
	}
	for k, v := range s.comments {
		cp := *v
		c.comments[k] = &cp
	}
	c.notes = append(c.notes, s.notes...)
	return c
}

func (s *store) restore(from *store) {
	s.seq = from.seq
	s.tickets = from.tickets
	s.sessions = from.sessions
	s.comments = from.comments
	s.notes = from.notes
}

type fakeTicketRepo struct{ st *store }

func (r *fakeTicketRepo) Create(_ context.Context, t *entity.Ticket) error {
	r.st.seq++
	t.Seq = r.st.seq
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	cp := *t
	r.st.tickets[t.ID] = &cp
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id string) (*entity.Ticket, error) {
	t, ok := r.st.tickets[id]
	if !ok || t.DeletedAt.Valid {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTicketRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Ticket, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeTicketRepo) List(_ context.Context, f repository.TicketFilter) ([]entity.Ticket, int64, error) {
	var out []entity.Ticket
	for _, t := range r.st.tickets {
		if f.RequesterID != "" && t.RequesterID != f.RequesterID {
			continue
		}
		out = append(out, *t)
	}
	return out, int64(len(out)), nil
}

func (r *fakeTicketRepo) Update(_ context.Context, id string, fields map[string]interface{}) error {
	t, ok := r.st.tickets[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for k, v := range fields {
		switch k {
		case "subject":
			t.Subject = v.(string)
		case "description":
			t.Description = v.(string)
		case "priority":
			t.Priority = v.(string)
		case "status":
			t.Status = v.(string)
		case "status_changed_at":
			at := v.(time.Time)
			t.StatusChangedAt = &at
		case "assignee_id":
			if v == nil {
				t.AssigneeID = nil
			} else {
				s := v.(string)
				t.AssigneeID = &s
			}
		}
	}
	return nil
}

func (r *fakeTicketRepo) UpdateStatus(_ context.Context, id string, status string, changedAt time.Time) error {
	t, ok := r.st.tickets[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	t.Status = status
	t.StatusChangedAt = &changedAt
	return nil
}

func (r *fakeTicketRepo) SoftDelete(_ context.Context, id string) error {
	if t, ok := r.st.tickets[id]; ok {
		t.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}
	return nil
}

type fakeTestingRepo struct{ st *store }

func (r *fakeTestingRepo) Create(_ context.Context, s *entity.TestingSession) error {
	s.CreatedAt = time.Now()
	cp := *s
	r.st.sessions[s.ID] = &cp
	return nil
}

func (r *fakeTestingRepo) GetByID(_ context.Context, id string) (*entity.TestingSession, error) {
	s, ok := r.st.sessions[id]
	if !ok || s.DeletedAt.Valid {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeTestingRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.TestingSession, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeTestingRepo) List(_ context.Context, f repository.TestingFilter) ([]entity.TestingSession, error) {
	var out []entity.TestingSession
	for _, s := range r.st.sessions {
		if s.DeletedAt.Valid ||
			(f.TicketID != "" && s.TicketID != f.TicketID) ||
			(f.UserID != "" && s.UserID != f.UserID) ||
			(f.Status != "" && s.Status != f.Status) {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (r *fakeTestingRepo) Update(_ context.Context, id string, fields map[string]interface{}) error {
	s, ok := r.st.sessions[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for k, v := range fields {
		switch k {
		case "status":
			s.Status = v.(string)
		case "test_type":
			s.TestType = v.(string)
		case "results":
			s.Results = v.(string)
		}
	}
	return nil
}

func (r *fakeTestingRepo) SoftDelete(_ context.Context, id string) error {
	if s, ok := r.st.sessions[id]; ok {
		s.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}
	return nil
}

type fakeNoteRepo struct{ st *store }

var _ notificationRepository.NotificationRepository = (*fakeNoteRepo)(nil)

func (r *fakeNoteRepo) Create(_ context.Context, n *notificationEntity.Notification) error {
	if r.st.failNotes {
		return errors.New("notification insert failed")
	}
	r.st.notes = append(r.st.notes, n)
	return nil
}

func (r *fakeNoteRepo) GetByID(context.Context, string) (*notificationEntity.Notification, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeNoteRepo) ListByUser(context.Context, string, int) ([]notificationEntity.Notification, error) {
	return nil, nil
}

func (r *fakeNoteRepo) CountUnread(context.Context, string) (int64, error) { return 0, nil }

func (r *fakeNoteRepo) MarkRead(context.Context, string, string) (int64, error) { return 0, nil }

func (r *fakeNoteRepo) MarkAllRead(context.Context, string) (int64, error) { return 0, nil }

func (r *fakeNoteRepo) SoftDelete(context.Context, string, string) (int64, error) { return 0, nil }

type fakeUoW struct{ st *store }

func (u *fakeUoW) Transaction(_ context.Context, fn func(repository.TicketRepository, repository.TestingRepository, notificationRepository.NotificationRepository) error) error {
	u.st.mu.Lock()
	defer u.st.mu.Unlock()
	backup := u.st.snapshot()
	if err := fn(&fakeTicketRepo{u.st}, &fakeTestingRepo{u.st}, &fakeNoteRepo{u.st}); err != nil {
		u.st.restore(backup)
		return err
	}
	return nil
}

type recordingDeliverer struct {
	got []*notificationEntity.Notification
}

func (d *recordingDeliverer) Deliver(_ context.Context, n *notificationEntity.Notification, _ map[string]interface{}) webhook.Result {
	d.got = append(d.got, n)
	return webhook.Result{RecipientID: n.UserID, Kind: webhook.KindNone, Outcome: webhook.OutcomeSkippedNoTarget}
}

type fakeCommentRepo struct{ st *store }

func (r *fakeCommentRepo) Create(_ context.Context, c *entity.Comment) error {
	c.CreatedAt = time.Now()
	cp := *c
	r.st.comments[c.ID] = &cp
	return nil
}

func (r *fakeCommentRepo) GetByID(_ context.Context, id string) (*entity.Comment, error) {
	c, ok := r.st.comments[id]
	if !ok || c.DeletedAt.Valid {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	if t, ok := r.st.tickets[c.TicketID]; ok {
		tc := *t
		cp.Ticket = &tc
	}
	if c.ParentCommentID != nil {
		if p, ok := r.st.comments[*c.ParentCommentID]; ok {
			pc := *p
			cp.Parent = &pc
		}
	}
	return &cp, nil
}

func (r *fakeCommentRepo) ListByTicket(_ context.Context, ticketID string) ([]entity.Comment, error) {
	var out []entity.Comment
	for _, c := range r.st.comments {
		if c.TicketID == ticketID && !c.DeletedAt.Valid {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCommentRepo) UpdateContent(_ context.Context, id string, content string) error {
	if c, ok := r.st.comments[id]; ok {
		c.Content = content
	}
	return nil
}

func (r *fakeCommentRepo) SoftDelete(_ context.Context, id string) error {
	if c, ok := r.st.comments[id]; ok {
		c.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}
	return nil
}
