package service

import (
	"context"
	"errors"
	"testing"

	"SupportDesk/internal/modules/ticket/application/dto/request"
	"SupportDesk/internal/modules/ticket/domain/entity"
	"SupportDesk/pkg/hook"
	"SupportDesk/pkg/util"
	"SupportDesk/pkg/xerr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	customer = Actor{ID: "customer", Role: "CUSTOMER"}
	agent    = Actor{ID: "agent", Role: "AGENT"}
)

func TestTicketCreate_SurvivesFailingHandlers(t *testing.T) {
	st := newStore()
	bus := hook.NewBus()
	var seen []string
	bus.Register(hook.TicketCreated, "explodes", func(context.Context, any) error {
		return errors.New("notification insert failed")
	})
	bus.Register(hook.TicketCreated, "panics", func(context.Context, any) error {
		panic("boom")
	})
	bus.Register(hook.TicketCreated, "records", hook.Typed(func(_ context.Context, t *entity.Ticket) error {
		seen = append(seen, t.ID)
		return nil
	}))
	svc := NewTicketService(&fakeTicketRepo{st}, bus)

	item, err := svc.Create(context.Background(), customer, request.CreateTicketRequest{Subject: "VPN down"})
	require.NoError(t, err)

	require.Contains(t, st.tickets, item.ID)
	assert.Equal(t, entity.StatusOpen, st.tickets[item.ID].Status)
	assert.Equal(t, entity.PriorityMedium, item.Priority)
	assert.Equal(t, []string{item.ID}, seen)
}

func TestTicketCreate_CustomerCannotAssign(t *testing.T) {
	st := newStore()
	svc := NewTicketService(&fakeTicketRepo{st}, hook.NewBus())

	item, err := svc.Create(context.Background(), customer, request.CreateTicketRequest{Subject: "x", AssigneeID: util.StringPtr("agent")})
	require.NoError(t, err)
	assert.Nil(t, item.AssigneeID)

	item, err = svc.Create(context.Background(), agent, request.CreateTicketRequest{Subject: "y", AssigneeID: util.StringPtr("agent")})
	require.NoError(t, err)
	assert.Equal(t, "agent", util.Deref(item.AssigneeID))
}

func TestTicketVisibilityAndUpdate(t *testing.T) {
	st := newStore()
	bus := hook.NewBus()
	var updated []*entity.Ticket
	bus.Register(hook.TicketUpdated, "records", hook.Typed(func(_ context.Context, t *entity.Ticket) error {
		updated = append(updated, t)
		return nil
	}))
	svc := NewTicketService(&fakeTicketRepo{st}, bus)
	ctx := context.Background()

	item, err := svc.Create(ctx, customer, request.CreateTicketRequest{Subject: "Broken"})
	require.NoError(t, err)

	_, err = svc.Get(ctx, Actor{ID: "stranger", Role: "CUSTOMER"}, item.ID)
	assert.True(t, xerr.IsCode(err, xerr.Forbidden))

	_, err = svc.Update(ctx, customer, item.ID, request.UpdateTicketRequest{Status: util.StringPtr("Closed")})
	assert.True(t, xerr.IsCode(err, xerr.Forbidden))

	got, err := svc.Update(ctx, agent, item.ID, request.UpdateTicketRequest{
		Status:     util.StringPtr(entity.StatusResolved),
		AssigneeID: util.StringPtr("agent"),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusResolved, got.Status)
	assert.NotNil(t, got.StatusChangedAt)
	require.Len(t, updated, 1)
	assert.Equal(t, "agent", updated[0].Assignee())

	list, err := svc.List(ctx, Actor{ID: "stranger", Role: "CUSTOMER"}, request.ListTicketRequest{})
	require.NoError(t, err)
	assert.Zero(t, list.Total)
}

func TestTicketDelete_EmitsLoadedTicket(t *testing.T) {
	st := newStore()
	bus := hook.NewBus()
	var deleted []string
	bus.Register(hook.TicketDeleted, "records", hook.Typed(func(_ context.Context, t *entity.Ticket) error {
		deleted = append(deleted, t.Subject)
		return nil
	}))
	svc := NewTicketService(&fakeTicketRepo{st}, bus)
	ctx := context.Background()

	item, err := svc.Create(ctx, customer, request.CreateTicketRequest{Subject: "Old"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, customer, item.ID))
	assert.Equal(t, []string{"Old"}, deleted)

	_, err = svc.Get(ctx, customer, item.ID)
	assert.True(t, xerr.IsCode(err, xerr.NotFound))
}

func TestCommentCreate_EmitsWithRelations(t *testing.T) {
	st := newStore()
	bus := hook.NewBus()
	var emitted []*entity.Comment
	bus.Register(hook.CommentCreated, "records", hook.Typed(func(_ context.Context, c *entity.Comment) error {
		emitted = append(emitted, c)
		return nil
	}))
	tickets := &fakeTicketRepo{st}
	svc := NewCommentService(tickets, &fakeCommentRepo{st: st}, bus)
	ctx := context.Background()
	require.NoError(t, tickets.Create(ctx, &entity.Ticket{ID: "t1", Subject: "S", RequesterID: "customer"}))
	require.NoError(t, tickets.Create(ctx, &entity.Ticket{ID: "t2", Subject: "Other", RequesterID: "customer"}))

	first, err := svc.Create(ctx, agent, "t1", request.CreateCommentRequest{Content: "looking"})
	require.NoError(t, err)
	reply, err := svc.Create(ctx, customer, "t1", request.CreateCommentRequest{Content: "thanks", ParentCommentID: &first.ID})
	require.NoError(t, err)
	assert.Equal(t, first.ID, util.Deref(reply.ParentCommentID))

	require.Len(t, emitted, 2)
	require.NotNil(t, emitted[1].Ticket)
	require.NotNil(t, emitted[1].Parent)
	assert.Equal(t, "agent", emitted[1].Parent.AuthorID)

	_, err = svc.Create(ctx, customer, "t2", request.CreateCommentRequest{Content: "x", ParentCommentID: &first.ID})
	assert.True(t, xerr.IsCode(err, xerr.BadRequest))

	_, err = svc.Update(ctx, customer, first.ID, request.UpdateCommentRequest{Content: "hijack"})
	assert.True(t, xerr.IsCode(err, xerr.Forbidden))
}
