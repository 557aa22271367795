package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"SupportDesk/internal/middleware/requesthost"
	"SupportDesk/internal/modules/notification/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTargets map[string]string

func (s staticTargets) ResolveTarget(_ context.Context, userID string) (string, error) {
	if userID == "broken" {
		return "", errors.New("db down")
	}
	return s[userID], nil
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []string
}

func (b *recordingBroadcaster) Broadcast(event string, _ interface{}) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
	return 1, nil
}

func (b *recordingBroadcaster) Publish(channel string, _ interface{}) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, channel)
	return 1, nil
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func noNetwork(t *testing.T) http.RoundTripper {
	return roundTripFunc(func(r *http.Request) (*http.Response, error) {
		t.Errorf("unexpected network call to %s", r.URL)
		return nil, errors.New("network disabled")
	})
}

func newNotification(userID string) *entity.Notification {
	n := &entity.Notification{
		ID:        "n-1",
		UserID:    userID,
		Type:      entity.TypeTicketUpdated,
		Message:   `Your ticket "Printer" was updated`,
		CreatedAt: time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC),
	}
	return n.Related(entity.RelatedTicket, "t-1")
}

func TestDeliver_InternalRelativeIsInProcess(t *testing.T) {
	routes := NewInternalRoutes()
	var got Payload
	routes.Handle("/api/notifications/webhooks/notifications", func(_ context.Context, body []byte) (int, error) {
		require.NoError(t, json.Unmarshal(body, &got))
		return http.StatusOK, nil
	})

	b := &recordingBroadcaster{}
	d := NewDispatcher(staticTargets{"u1": "/api/notifications/webhooks/notifications"}, b, routes, Options{})
	d.client.Transport = noNetwork(t)

	res := d.Deliver(context.Background(), newNotification("u1"), map[string]interface{}{"id": "t-1"})

	assert.Equal(t, KindInternalRelative, res.Kind)
	assert.Equal(t, OutcomeDelivered, res.Outcome)
	assert.Equal(t, EventNotificationCreated, got.Event)
	assert.Equal(t, "n-1", got.Notification.ID)
	require.NotNil(t, got.Notification.CreatedAt)
	assert.Equal(t, "2024-05-01T09:30:00Z", *got.Notification.CreatedAt)
	assert.Equal(t, "t-1", got.Data["id"])
	assert.Equal(t, []string{"notification", "ticket.update"}, b.events)
}

func TestDeliver_InternalRelativeNoRoute(t *testing.T) {
	d := NewDispatcher(staticTargets{"u1": "/nowhere"}, nil, nil, Options{})
	d.client.Transport = noNetwork(t)

	res := d.Deliver(context.Background(), newNotification("u1"), nil)
	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.Equal(t, ReasonNoRoute, res.Reason)
}

func TestDeliver_ExternalUsesNetworkWithJSON(t *testing.T) {
	var seen *http.Request
	var body []byte
	d := NewDispatcher(staticTargets{"u1": "https://example.com/hook"}, nil, nil, Options{Timeout: time.Second})
	d.client.Transport = roundTripFunc(func(r *http.Request) (*http.Response, error) {
		seen = r
		body, _ = io.ReadAll(r.Body)
		_, hasDeadline := r.Context().Deadline()
		assert.True(t, hasDeadline)
		return &http.Response{StatusCode: http.StatusAccepted, Body: io.NopCloser(strings.NewReader("")), Header: http.Header{}}, nil
	})

	res := d.Deliver(context.Background(), newNotification("u1"), nil)

	assert.Equal(t, KindExternal, res.Kind)
	assert.Equal(t, OutcomeDelivered, res.Outcome)
	require.NotNil(t, seen)
	assert.Equal(t, http.MethodPost, seen.Method)
	assert.Equal(t, "application/json", seen.Header.Get("Content-Type"))
	assert.NotContains(t, string(body), `"data"`)
}

func TestDeliver_ExternalTimeout(t *testing.T) {
	d := NewDispatcher(staticTargets{"u1": "https://example.com/hook"}, nil, nil, Options{Timeout: 50 * time.Millisecond})
	d.client.Transport = roundTripFunc(func(r *http.Request) (*http.Response, error) {
		<-r.Context().Done()
		return nil, r.Context().Err()
	})

	start := time.Now()
	res := d.Deliver(context.Background(), newNotification("u1"), nil)

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.Equal(t, ReasonTimeout, res.Reason)
}

func TestDeliver_SameHostNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	d := NewDispatcher(staticTargets{"u1": srv.URL + "/hook"}, nil, nil, Options{})
	res := d.Deliver(context.Background(), newNotification("u1"), nil)

	assert.Equal(t, KindInternalSameHost, res.Kind)
	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.Equal(t, ReasonHTTPStatus, res.Reason)
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
}

func TestDeliver_NoTargetIsNoop(t *testing.T) {
	b := &recordingBroadcaster{}
	d := NewDispatcher(staticTargets{}, b, nil, Options{})
	d.client.Transport = noNetwork(t)

	res := d.Deliver(context.Background(), newNotification("u1"), nil)
	assert.Equal(t, OutcomeSkippedNoTarget, res.Outcome)
	assert.Equal(t, KindNone, res.Kind)
	assert.Empty(t, b.events)
}

func TestDeliver_LookupFailure(t *testing.T) {
	b := &recordingBroadcaster{}
	d := NewDispatcher(staticTargets{}, b, nil, Options{})
	res := d.Deliver(context.Background(), newNotification("broken"), nil)
	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.Equal(t, ReasonLookup, res.Reason)
	assert.Empty(t, b.events)
}

func TestClassify(t *testing.T) {
	d := NewDispatcher(nil, nil, nil, Options{})
	ctx := context.Background()

	assert.Equal(t, KindInternalRelative, d.Classify(ctx, "/api/notifications/webhooks/notifications"))
	assert.Equal(t, KindInternalSameHost, d.Classify(ctx, "http://localhost:9000/hook"))
	assert.Equal(t, KindInternalSameHost, d.Classify(ctx, "http://127.0.0.1/hook"))
	assert.Equal(t, KindInternalSameHost, d.Classify(ctx, "http://127.0.0.2/hook"))
	assert.Equal(t, KindInternalSameHost, d.Classify(ctx, "http://[::1]:8000/hook"))
	assert.Equal(t, KindInternalSameHost, d.Classify(ctx, "http://0.0.0.0/hook"))
	assert.Equal(t, KindExternal, d.Classify(ctx, "http://10.0.0.7/hook"))
	assert.Equal(t, KindExternal, d.Classify(ctx, "https://example.com/hook"))
	assert.Equal(t, KindExternal, d.Classify(ctx, "//example.com/hook"))
	assert.Equal(t, KindNone, d.Classify(ctx, "  "))

	reqCtx := requesthost.WithHost(ctx, "desk.example.com:8443")
	assert.Equal(t, KindInternalSameHost, d.Classify(reqCtx, "https://desk.example.com/hook"))

	configured := NewDispatcher(nil, nil, nil, Options{ServerName: "desk.example.com"})
	assert.Equal(t, KindInternalSameHost, configured.Classify(ctx, "https://desk.example.com/hook"))
	assert.Equal(t, KindExternal, d.Classify(ctx, "https://desk.example.com/hook"))
}

func TestChannelFor(t *testing.T) {
	kb := entity.RelatedKBArticle
	other := "test"
	assert.Equal(t, "kb.update", ChannelFor(&kb))
	assert.Equal(t, "", ChannelFor(&other))
	assert.Equal(t, "", ChannelFor(nil))
}
