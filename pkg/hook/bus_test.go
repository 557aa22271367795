package hook

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmit_IsolatesFailingHandler(t *testing.T) {
	bus := NewBus()
	var calls []string

	bus.Register(TicketCreated, "boom", func(ctx context.Context, subject any) error {
		calls = append(calls, "boom")
		return errors.New("always fails")
	})
	bus.Register(TicketCreated, "ok", func(ctx context.Context, subject any) error {
		calls = append(calls, "ok")
		return nil
	})

	assert.NotPanics(t, func() { bus.Emit(context.Background(), TicketCreated, "ticket") })
	assert.Equal(t, []string{"boom", "ok"}, calls)
}

func TestEmit_RecoversPanic(t *testing.T) {
	bus := NewBus()
	ran := false
	bus.Register(CommentCreated, "panics", func(ctx context.Context, subject any) error {
		panic("nil relationship")
	})
	bus.Register(CommentCreated, "after", func(ctx context.Context, subject any) error {
		ran = true
		return nil
	})

	assert.NotPanics(t, func() { bus.Emit(context.Background(), CommentCreated, nil) })
	assert.True(t, ran)
}

func TestEmit_RegistrationOrderAndPayload(t *testing.T) {
	bus := NewBus()
	var got []any
	for i := 0; i < 3; i++ {
		i := i
		bus.Register(UserCreated, "", func(ctx context.Context, subject any) error {
			got = append(got, i, subject)
			return nil
		})
	}

	bus.Emit(context.Background(), UserCreated, "u1")
	assert.Equal(t, []any{0, "u1", 1, "u1", 2, "u1"}, got)
	assert.Len(t, bus.Handlers(UserCreated), 3)
}

func TestEmit_UnknownEventIsNoop(t *testing.T) {
	bus := NewBus()
	assert.NotPanics(t, func() { bus.Emit(context.Background(), "nothing.here", 1) })

	var nilBus *Bus
	assert.NotPanics(t, func() { nilBus.Emit(context.Background(), TicketCreated, 1) })
}

func TestInstall_RunsOnce(t *testing.T) {
	bus := NewBus()
	count := 0
	install := func(b *Bus) {
		b.Register(TicketUpdated, "counter", func(ctx context.Context, subject any) error {
			count++
			return nil
		})
	}

	require.True(t, bus.Install("defaults", install))
	require.False(t, bus.Install("defaults", install))

	bus.Emit(context.Background(), TicketUpdated, nil)
	assert.Equal(t, 1, count)
}

func TestTyped(t *testing.T) {
	type ticket struct{ Subject string }
	var seen string
	h := Typed(func(ctx context.Context, tk *ticket) error {
		seen = tk.Subject
		return nil
	})

	require.NoError(t, h(context.Background(), &ticket{Subject: "printer"}))
	assert.Equal(t, "printer", seen)
	assert.Error(t, h(context.Background(), "not a ticket"))
}

type ctxKey struct{}

func TestEmit_HandlersOutliveCancelledRequest(t *testing.T) {
	bus := NewBus()
	var handlerErr error
	var value any
	bus.Register(TicketCreated, "save", func(ctx context.Context, subject any) error {
		handlerErr = ctx.Err()
		value = ctx.Value(ctxKey{})
		return nil
	})

	ctx, cancel := context.WithCancel(context.WithValue(context.Background(), ctxKey{}, "desk.example.com"))
	cancel()
	bus.Emit(ctx, TicketCreated, "ticket")

	assert.NoError(t, handlerErr)
	assert.Equal(t, "desk.example.com", value)
}
