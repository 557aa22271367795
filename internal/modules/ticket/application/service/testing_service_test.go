package service

import (
	"context"
	"testing"

	notificationEntity "SupportDesk/internal/modules/notification/domain/entity"
	"SupportDesk/internal/modules/ticket/application/dto/request"
	"SupportDesk/internal/modules/ticket/domain/entity"
	"SupportDesk/pkg/util"
	"SupportDesk/pkg/xerr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tester = Actor{ID: "tester", Role: "AGENT"}

func newTestingFixture(t *testing.T, ticketStatus string, assignee *string) (*store, *recordingDeliverer, TestingService, string) {
	t.Helper()
	st := newStore()
	tickets := &fakeTicketRepo{st}
	require.NoError(t, tickets.Create(context.Background(), &entity.Ticket{
		ID:          "t1",
		Subject:     "Login broken",
		Status:      ticketStatus,
		RequesterID: "customer",
		AssigneeID:  assignee,
	}))
	st.seq = 246
	st.tickets["t1"].Seq = 246

	d := &recordingDeliverer{}
	svc := NewTestingService(tickets, &fakeTestingRepo{st}, &fakeUoW{st}, d)
	return st, d, svc, "t1"
}

func TestTestingCreate_RequiresResolvedTicket(t *testing.T) {
	st, _, svc, ticketID := newTestingFixture(t, entity.StatusOpen, nil)

	_, err := svc.Create(context.Background(), tester, request.CreateTestingRequest{TicketID: ticketID})
	assert.True(t, xerr.IsCode(err, xerr.BadRequest))
	assert.Empty(t, st.sessions)

	_, err = svc.Create(context.Background(), tester, request.CreateTestingRequest{TicketID: "missing"})
	assert.True(t, xerr.IsCode(err, xerr.BadRequest))
}

func TestTestingCreate_Defaults(t *testing.T) {
	_, _, svc, ticketID := newTestingFixture(t, "Resolved", nil)

	item, err := svc.Create(context.Background(), tester, request.CreateTestingRequest{TicketID: ticketID})
	require.NoError(t, err)
	assert.Equal(t, entity.TestingPending, item.Status)
	assert.Equal(t, "manual", item.TestType)
	assert.Equal(t, "tester", item.UserID)
}

func TestTestingTransition_PassClosesTicketOnce(t *testing.T) {
	st, d, svc, ticketID := newTestingFixture(t, entity.StatusResolved, util.StringPtr("agent"))
	ctx := context.Background()

	item, err := svc.Create(ctx, tester, request.CreateTestingRequest{TicketID: ticketID, Status: "in_progress"})
	require.NoError(t, err)

	_, err = svc.TransitionStatus(ctx, tester, item.ID, "passed")
	require.NoError(t, err)

	ticket := st.tickets[ticketID]
	assert.Equal(t, "Closed", ticket.Status)
	require.NotNil(t, ticket.StatusChangedAt)
	require.Len(t, st.notes, 1)
	note := st.notes[0]
	assert.Equal(t, "agent", note.UserID)
	assert.Equal(t, notificationEntity.TypeTestingResult, note.Type)
	assert.Equal(t, "Testing for ticket #1245 has been marked as passed.", note.Message)
	assert.Equal(t, ticketID, util.Deref(note.RelatedID))
	assert.Len(t, d.got, 1)

	changedAt := *ticket.StatusChangedAt
	_, err = svc.TransitionStatus(ctx, tester, item.ID, "PASSED")
	require.NoError(t, err)
	assert.Len(t, st.notes, 1)
	assert.Len(t, d.got, 1)
	assert.Equal(t, changedAt, *st.tickets[ticketID].StatusChangedAt)
}

func TestTestingTransition_FailThenPass(t *testing.T) {
	st, _, svc, ticketID := newTestingFixture(t, entity.StatusResolved, util.StringPtr("agent"))
	ctx := context.Background()

	item, err := svc.Create(ctx, tester, request.CreateTestingRequest{TicketID: ticketID})
	require.NoError(t, err)

	_, err = svc.TransitionStatus(ctx, tester, item.ID, "failed")
	require.NoError(t, err)
	assert.Equal(t, "In Progress", st.tickets[ticketID].Status)

	_, err = svc.TransitionStatus(ctx, tester, item.ID, "passed")
	require.NoError(t, err)
	assert.Equal(t, "Closed", st.tickets[ticketID].Status)
	assert.Len(t, st.notes, 2)
}

func TestTestingTransition_NonTerminalLeavesTicket(t *testing.T) {
	st, _, svc, ticketID := newTestingFixture(t, entity.StatusResolved, util.StringPtr("agent"))
	ctx := context.Background()

	item, err := svc.Create(ctx, tester, request.CreateTestingRequest{TicketID: ticketID})
	require.NoError(t, err)

	got, err := svc.TransitionStatus(ctx, tester, item.ID, "in_progress")
	require.NoError(t, err)
	assert.Equal(t, entity.TestingInProgress, got.Status)
	assert.Equal(t, entity.StatusResolved, st.tickets[ticketID].Status)
	assert.Empty(t, st.notes)
}

func TestTestingTransition_NoAssigneeNoNotification(t *testing.T) {
	st, d, svc, ticketID := newTestingFixture(t, entity.StatusResolved, nil)
	ctx := context.Background()

	item, err := svc.Create(ctx, tester, request.CreateTestingRequest{TicketID: ticketID})
	require.NoError(t, err)
	_, err = svc.TransitionStatus(ctx, tester, item.ID, "passed")
	require.NoError(t, err)

	assert.Equal(t, "Closed", st.tickets[ticketID].Status)
	assert.Empty(t, st.notes)
	assert.Empty(t, d.got)
}

func TestTestingTransition_AtomicOnNotificationFailure(t *testing.T) {
	st, d, svc, ticketID := newTestingFixture(t, entity.StatusResolved, util.StringPtr("agent"))
	ctx := context.Background()

	item, err := svc.Create(ctx, tester, request.CreateTestingRequest{TicketID: ticketID})
	require.NoError(t, err)

	st.failNotes = true
	_, err = svc.TransitionStatus(ctx, tester, item.ID, "passed")
	assert.True(t, xerr.IsCode(err, xerr.InternalServerError))

	assert.Equal(t, entity.StatusResolved, st.tickets[ticketID].Status)
	assert.Nil(t, st.tickets[ticketID].StatusChangedAt)
	assert.Equal(t, entity.TestingPending, st.sessions[item.ID].Status)
	assert.Empty(t, d.got)
}

func TestTestingUpdate_TesterOnly(t *testing.T) {
	st, _, svc, ticketID := newTestingFixture(t, entity.StatusResolved, nil)
	ctx := context.Background()

	item, err := svc.Create(ctx, tester, request.CreateTestingRequest{TicketID: ticketID})
	require.NoError(t, err)

	other := Actor{ID: "someone", Role: "ADMIN"}
	_, err = svc.TransitionStatus(ctx, other, item.ID, "passed")
	assert.True(t, xerr.IsCode(err, xerr.Forbidden))
	assert.True(t, xerr.IsCode(svc.Delete(ctx, other, item.ID), xerr.Forbidden))

	results := "all green"
	got, err := svc.Update(ctx, tester, item.ID, request.UpdateTestingRequest{Results: &results})
	require.NoError(t, err)
	assert.Equal(t, "all green", got.Results)

	_, err = svc.TransitionStatus(ctx, tester, item.ID, "bogus")
	assert.True(t, xerr.IsCode(err, xerr.BadRequest))

	require.NoError(t, svc.Delete(ctx, tester, item.ID))
	assert.True(t, st.sessions[item.ID].DeletedAt.Valid)
	_, err = svc.Get(ctx, item.ID)
	assert.True(t, xerr.IsCode(err, xerr.NotFound))
}

func TestTestingList_Filters(t *testing.T) {
	_, _, svc, ticketID := newTestingFixture(t, entity.StatusResolved, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, tester, request.CreateTestingRequest{TicketID: ticketID})
	require.NoError(t, err)
	_, err = svc.Create(ctx, Actor{ID: "qa"}, request.CreateTestingRequest{TicketID: ticketID, Status: "failed"})
	require.NoError(t, err)

	list, err := svc.List(ctx, request.ListTestingRequest{TicketID: ticketID})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = svc.List(ctx, request.ListTestingRequest{Status: "FAILED"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "qa", list[0].UserID)
}
