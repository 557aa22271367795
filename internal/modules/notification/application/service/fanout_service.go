package service

import (
	"context"
	"errors"
	"fmt"

	chatEntity "SupportDesk/internal/modules/chat/domain/entity"
	kbEntity "SupportDesk/internal/modules/kb/domain/entity"
	"SupportDesk/internal/modules/notification/domain/entity"
	ticketEntity "SupportDesk/internal/modules/ticket/domain/entity"
	userEntity "SupportDesk/internal/modules/user/domain/entity"
	"SupportDesk/pkg/hook"
	"SupportDesk/pkg/ws"
	"SupportDesk/pkg/zlog"

	"go.uber.org/zap"
)

const (
	installKey = "notification.defaults"

	FrameMessageNew      = "message.new"
	FrameConversationNew = "conversation.new"
)

// UserDirectory 查询活跃用户
type UserDirectory interface {
	ListActive(ctx context.Context) ([]userEntity.User, error)
	ListActiveByRole(ctx context.Context, role string) ([]userEntity.User, error)
}

// NotificationSink 保存并投递一条通知
type NotificationSink interface {
	Notify(ctx context.Context, n *entity.Notification, snapshot map[string]interface{}) error
}

type ParticipantLister interface {
	ParticipantIDs(ctx context.Context, conversationID string) ([]string, error)
}

// Pusher 向某个用户的全部在线连接推送
type Pusher interface {
	SendJSON(userID string, v interface{}) error
}

// FanoutService 生命周期事件的默认处理器。
// 每个接收者单独保存，某个接收者失败不影响其他接收者
type FanoutService struct {
	users        UserDirectory
	sink         NotificationSink
	participants ParticipantLister
	pusher       Pusher
}

func NewFanoutService(users UserDirectory, sink NotificationSink, participants ParticipantLister, pusher Pusher) *FanoutService {
	return &FanoutService{
		users:        users,
		sink:         sink,
		participants: participants,
		pusher:       pusher,
	}
}

// RegisterDefaults 向 bus 注册全部默认处理器，同一个 bus 只注册一次
func (s *FanoutService) RegisterDefaults(bus *hook.Bus) bool {
	return bus.Install(installKey, func(b *hook.Bus) {
		b.Register(hook.CommentCreated, "notify.comment_created", hook.Typed(s.OnCommentCreated))
		b.Register(hook.CommentUpdated, "notify.comment_updated", hook.Typed(s.OnCommentUpdated))
		b.Register(hook.CommentDeleted, "notify.comment_deleted", hook.Typed(s.OnCommentDeleted))

		b.Register(hook.TicketCreated, "notify.ticket_created", hook.Typed(s.OnTicketCreated))
		b.Register(hook.TicketUpdated, "notify.ticket_updated", hook.Typed(s.OnTicketUpdated))
		b.Register(hook.TicketDeleted, "notify.ticket_deleted", hook.Typed(s.OnTicketDeleted))

		b.Register(hook.UserCreated, "notify.user_created", hook.Typed(s.OnUserCreated))
		b.Register(hook.UserUpdated, "notify.user_updated", hook.Typed(s.OnUserUpdated))
		b.Register(hook.UserDeleted, "notify.user_deleted", hook.Typed(s.OnUserDeleted))

		b.Register(hook.KBArticleCreated, "notify.kb_article_created", hook.Typed(s.OnKBArticleCreated))
		b.Register(hook.KBArticleUpdated, "notify.kb_article_updated", hook.Typed(s.OnKBArticleUpdated))
		b.Register(hook.KBArticleDeleted, "notify.kb_article_deleted", hook.Typed(s.OnKBArticleDeleted))

		b.Register(hook.AttachmentCreated, "notify.attachment_created", hook.Typed(s.OnAttachmentCreated))
		b.Register(hook.AttachmentUpdated, "notify.attachment_updated", hook.Typed(s.OnAttachmentUpdated))
		b.Register(hook.AttachmentDeleted, "notify.attachment_deleted", hook.Typed(s.OnAttachmentDeleted))

		b.Register(hook.ConversationCreated, "push.conversation_created", hook.Typed(s.OnConversationCreated))
		b.Register(hook.MessageCreated, "push.message_created", hook.Typed(s.OnMessageCreated))
	})
}

func (s *FanoutService) send(ctx context.Context, recipient string, typ string, msg string, relatedType string, relatedID string, snapshot map[string]interface{}) error {
	n := (&entity.Notification{UserID: recipient, Type: typ, Message: msg}).Related(relatedType, relatedID)
	if err := s.sink.Notify(ctx, n, snapshot); err != nil {
		zlog.Error("create notification failed",
			zap.String("recipient_id", recipient),
			zap.String("type", typ),
			zap.Error(err))
		return fmt.Errorf("notify %s: %w", recipient, err)
	}
	return nil
}

func (s *FanoutService) sendAll(ctx context.Context, users []userEntity.User, typ string, msg string, relatedType string, relatedID string, snapshot map[string]interface{}) error {
	var errs []error
	for i := range users {
		errs = append(errs, s.send(ctx, users[i].ID, typ, msg, relatedType, relatedID, snapshot))
	}
	return errors.Join(errs...)
}

func (s *FanoutService) OnCommentCreated(ctx context.Context, c *ticketEntity.Comment) error {
	t := c.Ticket
	if t == nil {
		return nil
	}
	snap := c.Snapshot()
	author := c.AuthorLabel()

	var errs []error
	if t.RequesterID != "" && t.RequesterID != c.AuthorID {
		errs = append(errs, s.send(ctx, t.RequesterID, entity.TypeCommentOnTicket,
			fmt.Sprintf(`New comment on your ticket "%s" by %s`, t.Subject, author),
			entity.RelatedComment, c.ID, snap))
	}
	if a := t.Assignee(); a != "" && a != c.AuthorID {
		errs = append(errs, s.send(ctx, a, entity.TypeCommentOnTicket,
			fmt.Sprintf(`New comment on assigned ticket "%s" by %s`, t.Subject, author),
			entity.RelatedComment, c.ID, snap))
	}
	if p := c.Parent; p != nil && p.AuthorID != "" && p.AuthorID != c.AuthorID {
		errs = append(errs, s.send(ctx, p.AuthorID, entity.TypeReplyToComment,
			fmt.Sprintf(`%s replied to your comment on ticket "%s"`, author, t.Subject),
			entity.RelatedComment, c.ID, snap))
	}
	return errors.Join(errs...)
}

// OnCommentUpdated 不排除作者本人
func (s *FanoutService) OnCommentUpdated(ctx context.Context, c *ticketEntity.Comment) error {
	if c.Ticket == nil {
		return nil
	}
	return s.commentChanged(ctx, c, entity.TypeCommentUpdated, "updated", c.Snapshot())
}

func (s *FanoutService) OnCommentDeleted(ctx context.Context, c *ticketEntity.Comment) error {
	if c.Ticket == nil {
		return nil
	}
	return s.commentChanged(ctx, c, entity.TypeCommentDeleted, "deleted", nil)
}

func (s *FanoutService) commentChanged(ctx context.Context, c *ticketEntity.Comment, typ string, verb string, snap map[string]interface{}) error {
	t := c.Ticket
	var errs []error
	if t.RequesterID != "" {
		errs = append(errs, s.send(ctx, t.RequesterID, typ,
			fmt.Sprintf(`A comment on your ticket "%s" was %s`, t.Subject, verb),
			entity.RelatedComment, c.ID, snap))
	}
	if a := t.Assignee(); a != "" {
		errs = append(errs, s.send(ctx, a, typ,
			fmt.Sprintf(`A comment on assigned ticket "%s" was %s`, t.Subject, verb),
			entity.RelatedComment, c.ID, snap))
	}
	return errors.Join(errs...)
}

func (s *FanoutService) OnTicketCreated(ctx context.Context, t *ticketEntity.Ticket) error {
	var errs []error
	admins, err := s.users.ListActiveByRole(ctx, userEntity.RoleAdmin)
	if err != nil {
		errs = append(errs, fmt.Errorf("list admins: %w", err))
	} else {
		errs = append(errs, s.sendAll(ctx, admins, entity.TypeNewTicket,
			fmt.Sprintf(`New ticket created: "%s"`, t.Subject),
			entity.RelatedTicket, t.ID, nil))
	}

	// 负责人通知单独兜底，失败不计入返回值
	if a := t.Assignee(); a != "" {
		if err := s.send(ctx, a, entity.TypeTicketAssigned,
			fmt.Sprintf(`You have been assigned ticket "%s"`, t.Subject),
			entity.RelatedTicket, t.ID, t.Snapshot()); err != nil {
			zlog.Warn("assignee notification skipped", zap.String("ticket_id", t.ID), zap.Error(err))
		}
	}
	return errors.Join(errs...)
}

func (s *FanoutService) OnTicketUpdated(ctx context.Context, t *ticketEntity.Ticket) error {
	return s.ticketChanged(ctx, t, entity.TypeTicketUpdated, "updated", t.Snapshot())
}

func (s *FanoutService) OnTicketDeleted(ctx context.Context, t *ticketEntity.Ticket) error {
	return s.ticketChanged(ctx, t, entity.TypeTicketDeleted, "deleted", nil)
}

func (s *FanoutService) ticketChanged(ctx context.Context, t *ticketEntity.Ticket, typ string, verb string, snap map[string]interface{}) error {
	var errs []error
	if t.RequesterID != "" {
		errs = append(errs, s.send(ctx, t.RequesterID, typ,
			fmt.Sprintf(`Your ticket "%s" was %s`, t.Subject, verb),
			entity.RelatedTicket, t.ID, snap))
	}
	if a := t.Assignee(); a != "" {
		errs = append(errs, s.send(ctx, a, typ,
			fmt.Sprintf(`Assigned ticket "%s" was %s`, t.Subject, verb),
			entity.RelatedTicket, t.ID, snap))
	}
	return errors.Join(errs...)
}

func (s *FanoutService) OnUserCreated(ctx context.Context, u *userEntity.User) error {
	admins, err := s.users.ListActiveByRole(ctx, userEntity.RoleAdmin)
	if err != nil {
		return fmt.Errorf("list admins: %w", err)
	}
	return s.sendAll(ctx, admins, entity.TypeUserCreated,
		fmt.Sprintf(`New user "%s" was created`, u.Label()),
		entity.RelatedUser, u.ID, u.Snapshot())
}

// OnUserUpdated 用户资料变更太频繁，不通知
func (s *FanoutService) OnUserUpdated(context.Context, *userEntity.User) error {
	return nil
}

func (s *FanoutService) OnUserDeleted(ctx context.Context, u *userEntity.User) error {
	admins, err := s.users.ListActiveByRole(ctx, userEntity.RoleAdmin)
	if err != nil {
		return fmt.Errorf("list admins: %w", err)
	}
	return s.sendAll(ctx, admins, entity.TypeUserDeactivated,
		fmt.Sprintf(`User "%s" was deactivated`, u.Label()),
		entity.RelatedUser, u.ID, u.Snapshot())
}

// OnKBArticleCreated 通知全部活跃用户
func (s *FanoutService) OnKBArticleCreated(ctx context.Context, a *kbEntity.Article) error {
	users, err := s.users.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("list active users: %w", err)
	}
	return s.sendAll(ctx, users, entity.TypeKBArticleCreated,
		fmt.Sprintf(`New knowledge base article: "%s"`, a.Title),
		entity.RelatedKBArticle, a.ID, a.Snapshot())
}

func (s *FanoutService) OnKBArticleUpdated(context.Context, *kbEntity.Article) error {
	return nil
}

func (s *FanoutService) OnKBArticleDeleted(context.Context, *kbEntity.Article) error {
	return nil
}

func (s *FanoutService) OnAttachmentCreated(ctx context.Context, a *ticketEntity.Attachment) error {
	t := a.Ticket
	if t == nil {
		return nil
	}
	snap := a.Snapshot()
	var errs []error
	if t.RequesterID != "" {
		errs = append(errs, s.send(ctx, t.RequesterID, entity.TypeAttachmentAdded,
			fmt.Sprintf(`New attachment "%s" added to ticket "%s"`, a.Filename, t.Subject),
			entity.RelatedAttachment, a.ID, snap))
	}
	if as := t.Assignee(); as != "" {
		errs = append(errs, s.send(ctx, as, entity.TypeAttachmentAdded,
			fmt.Sprintf(`New attachment "%s" added to assigned ticket "%s"`, a.Filename, t.Subject),
			entity.RelatedAttachment, a.ID, snap))
	}
	return errors.Join(errs...)
}

func (s *FanoutService) OnAttachmentUpdated(ctx context.Context, a *ticketEntity.Attachment) error {
	return s.attachmentChanged(ctx, a, entity.TypeAttachmentUpdate, "updated")
}

func (s *FanoutService) OnAttachmentDeleted(ctx context.Context, a *ticketEntity.Attachment) error {
	return s.attachmentChanged(ctx, a, entity.TypeAttachmentDelete, "deleted")
}

func (s *FanoutService) attachmentChanged(ctx context.Context, a *ticketEntity.Attachment, typ string, verb string) error {
	t := a.Ticket
	if t == nil {
		return nil
	}
	var errs []error
	if t.RequesterID != "" {
		errs = append(errs, s.send(ctx, t.RequesterID, typ,
			fmt.Sprintf(`Attachment "%s" on ticket "%s" was %s`, a.Filename, t.Subject, verb),
			entity.RelatedAttachment, a.ID, nil))
	}
	if as := t.Assignee(); as != "" {
		errs = append(errs, s.send(ctx, as, typ,
			fmt.Sprintf(`Attachment "%s" on assigned ticket "%s" was %s`, a.Filename, t.Subject, verb),
			entity.RelatedAttachment, a.ID, nil))
	}
	return errors.Join(errs...)
}

// OnConversationCreated 只推送实时帧，不落通知
func (s *FanoutService) OnConversationCreated(ctx context.Context, c *chatEntity.Conversation) error {
	ids := c.ParticipantIDs
	if len(ids) == 0 {
		var err error
		if ids, err = s.participants.ParticipantIDs(ctx, c.ID); err != nil {
			return fmt.Errorf("list participants: %w", err)
		}
	}
	return s.push(ids, c.CreatedByID, ws.Frame{Event: FrameConversationNew, Data: c.Snapshot()})
}

func (s *FanoutService) OnMessageCreated(ctx context.Context, m *chatEntity.Message) error {
	ids, err := s.participants.ParticipantIDs(ctx, m.ConversationID)
	if err != nil {
		return fmt.Errorf("list participants: %w", err)
	}
	return s.push(ids, m.SenderID, ws.Frame{Event: FrameMessageNew, Data: m.Snapshot()})
}

func (s *FanoutService) push(ids []string, except string, frame ws.Frame) error {
	if s.pusher == nil {
		return nil
	}
	var errs []error
	for _, id := range ids {
		if id == except {
			continue
		}
		if err := s.pusher.SendJSON(id, frame); err != nil {
			errs = append(errs, fmt.Errorf("push %s to %s: %w", frame.Event, id, err))
		}
	}
	return errors.Join(errs...)
}
