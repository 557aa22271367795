package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransition(t *testing.T) {
	cases := []struct {
		from, to   string
		wantStatus string
		wantChange bool
	}{
		{TestingPending, TestingPassed, StatusClosed, true},
		{TestingInProgress, TestingFailed, StatusInProgress, true},
		{TestingFailed, TestingPassed, StatusClosed, true},
		{TestingPassed, TestingFailed, StatusInProgress, true},
		{TestingPassed, TestingPassed, "", false},
		{TestingFailed, TestingFailed, "", false},
		{TestingPending, TestingInProgress, "", false},
	}
	for _, c := range cases {
		got, changed := Transition(c.from, c.to)
		assert.Equal(t, c.wantChange, changed, "%s -> %s", c.from, c.to)
		assert.Equal(t, c.wantStatus, got, "%s -> %s", c.from, c.to)
	}
}

func TestTicketHelpers(t *testing.T) {
	tk := &Ticket{Seq: 246, Status: "Resolved"}
	assert.Equal(t, "#1245", tk.Number())
	assert.True(t, tk.IsResolved())
	assert.Equal(t, "", tk.Assignee())

	tk.Status = "OPEN"
	assert.False(t, tk.IsResolved())
}
