package publishers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	id  string
	err error

	mu     sync.Mutex
	events []Event
}

func (p *recordingPublisher) ID() string   { return p.id }
func (p *recordingPublisher) Type() string { return "test" }
func (p *recordingPublisher) Publish(_ context.Context, evt Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}

func (p *recordingPublisher) received() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Event(nil), p.events...)
}

func TestDispatcherFansOut(t *testing.T) {
	ok := &recordingPublisher{id: "ok"}
	failing := &recordingPublisher{id: "bad", err: errors.New("down")}
	d := NewDispatcher([]Publisher{ok, failing}, nil, time.Second)
	assert.Equal(t, 2, d.Len())

	d.Dispatch(VoteEvent("", "a1", "", 3))
	d.Close()

	require.Len(t, ok.received(), 1)
	require.Len(t, failing.received(), 1)
	evt := ok.received()[0]
	assert.Equal(t, "a1", evt.ArticleID)
	assert.False(t, evt.OccurredAt.IsZero())

	d.Dispatch(Event{Type: EventVoteApplied})
	assert.Len(t, ok.received(), 1, "events after Close are dropped")
}

func TestDispatcherKeepsOrder(t *testing.T) {
	first := &recordingPublisher{id: "first"}
	second := &recordingPublisher{id: "second"}
	d := NewDispatcher([]Publisher{first, second}, nil, time.Second)

	for i := range 50 {
		d.Dispatch(VoteEvent("", "a1", "", i))
	}
	d.Close()
	d.Close()

	for _, pub := range []*recordingPublisher{first, second} {
		got := pub.received()
		require.Len(t, got, 50, pub.id)
		for i, evt := range got {
			require.NotNil(t, evt.Votes)
			assert.Equal(t, i, *evt.Votes, pub.id)
		}
	}
}

func TestDispatcherWithoutPublishers(t *testing.T) {
	d := NewDispatcher(nil, nil, 0)
	d.Dispatch(Event{Type: EventArticlesRefreshed})
	d.Close()
}

func TestBuildAllFiltersEvents(t *testing.T) {
	rec := &recordingPublisher{id: "rec"}
	reg := NewRegistry(map[string]Builder{
		"test": func(context.Context, PublisherConfig, Logger) (Publisher, error) { return rec, nil },
	})
	disabled := false
	cfgs := []PublisherConfig{
		{ID: "rec", Type: "test", Events: []string{EventVoteApplied}},
		{ID: "off", Type: "test", Enabled: &disabled},
	}

	pubs, err := BuildAll(context.Background(), reg, cfgs, nil)
	require.NoError(t, err)
	require.Len(t, pubs, 1)

	require.NoError(t, pubs[0].Publish(context.Background(), Event{Type: EventArticlesRefreshed}))
	require.NoError(t, pubs[0].Publish(context.Background(), Event{Type: EventVoteApplied}))
	require.Len(t, rec.received(), 1)
	assert.Equal(t, EventVoteApplied, rec.received()[0].Type)

	_, err = BuildAll(context.Background(), reg, []PublisherConfig{{ID: "x", Type: "nope"}}, nil)
	require.Error(t, err)
}

func TestHTTPPublisher(t *testing.T) {
	var got Event
	var token string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		token = r.Header.Get("X-Token")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	pub, err := DefaultRegistry().PublisherFor(context.Background(), PublisherConfig{
		ID:   "hook",
		Type: TypeHTTP,
		HTTP: &HTTPConfig{URL: srv.URL, Method: "PUT", Headers: map[string]string{"X-Token": "t"}, TimeoutSeconds: 2},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "hook", pub.ID())
	assert.Equal(t, TypeHTTP, pub.Type())

	require.NoError(t, pub.Publish(context.Background(), Event{Type: EventArticlesRefreshed, Source: "bbc-news", Count: 4}))
	assert.Equal(t, "t", token)
	assert.Equal(t, "bbc-news", got.Source)
	assert.Equal(t, 4, got.Count)
}

func TestHTTPPublisherNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	pub, err := newHTTPPublisher(context.Background(), sanitizePublisherConfig(PublisherConfig{
		ID: "hook", Type: TypeHTTP, HTTP: &HTTPConfig{URL: srv.URL},
	}), nil)
	require.NoError(t, err)
	require.Error(t, pub.Publish(context.Background(), Event{Type: EventVoteApplied}))
}

func TestQueuePublisherUnsupportedProvider(t *testing.T) {
	_, err := newQueuePublisher(context.Background(), PublisherConfig{ID: "q", Type: TypeQueue, Queue: &QueueConfig{Provider: "kafka"}}, nil)
	require.Error(t, err)

	_, err = newQueuePublisher(context.Background(), PublisherConfig{ID: "q", Type: TypeQueue}, nil)
	require.Error(t, err)
}

func TestEventAttributes(t *testing.T) {
	attrs := Event{Type: EventArticlesRefreshed, Source: "hn"}.attributes()
	assert.Equal(t, map[string]string{"event_type": EventArticlesRefreshed, "source": "hn"}, attrs)

	attrs = Event{Type: EventVoteApplied}.attributes()
	assert.Equal(t, map[string]string{"event_type": EventVoteApplied}, attrs)
}
