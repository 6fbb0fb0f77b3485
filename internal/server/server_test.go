package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lol-leaderboard/internal/domain"
	"lol-leaderboard/internal/session"
)

type fakeSession struct {
	mu        sync.Mutex
	view      session.View
	queue     domain.Queue
	search    string
	refreshes int
}

func (f *fakeSession) View() session.View {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.view
}

func (f *fakeSession) Subscribe() (<-chan session.View, func()) {
	ch := make(chan session.View, 1)
	ch <- f.View()
	return ch, func() {}
}

func (f *fakeSession) SetQueue(queue domain.Queue) error {
	if !queue.Valid() {
		return assert.AnError
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queue = queue
	return nil
}

func (f *fakeSession) SetSearchTerm(term string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.search = term
}

func (f *fakeSession) TriggerManualRefresh() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshes++
}

func newTestServer(t *testing.T, s Session) *httptest.Server {
	t.Helper()
	path, handler := NewLeaderboardServer(s, zerolog.Nop()).Handler()
	mux := http.NewServeMux()
	mux.Handle(path, handler)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestLeaderboardServer_GetLeaderboard(t *testing.T) {
	fake := &fakeSession{view: session.View{
		Rows:    []domain.DisplayRow{{PlayerID: "p1", DisplayName: "Ann", RankLabel: "GOLD II • 40 LP"}},
		Summary: domain.Summary{PlayerCount: 1, Queue: domain.QueueSolo, QueueLabel: "SoloQ"},
	}}
	srv := newTestServer(t, fake)

	client := connect.NewClient[GetLeaderboardRequest, LeaderboardResponse](
		srv.Client(), srv.URL+GetLeaderboardProcedure, connect.WithCodec(jsonCodec{}))

	resp, err := client.CallUnary(context.Background(), connect.NewRequest(&GetLeaderboardRequest{}))
	require.NoError(t, err)
	require.Len(t, resp.Msg.View.Rows, 1)
	assert.Equal(t, "Ann", resp.Msg.View.Rows[0].DisplayName)
	assert.Equal(t, "GOLD II • 40 LP", resp.Msg.View.Rows[0].RankLabel)
	assert.Equal(t, "SoloQ", resp.Msg.View.Summary.QueueLabel)
}

func TestLeaderboardServer_SetQueue(t *testing.T) {
	fake := &fakeSession{}
	srv := newTestServer(t, fake)

	client := connect.NewClient[SetQueueRequest, AckResponse](
		srv.Client(), srv.URL+SetQueueProcedure, connect.WithCodec(jsonCodec{}))

	resp, err := client.CallUnary(context.Background(), connect.NewRequest(&SetQueueRequest{Queue: "RANKED_FLEX_SR"}))
	require.NoError(t, err)
	assert.True(t, resp.Msg.Accepted)
	assert.Equal(t, domain.QueueFlex, fake.queue)

	_, err = client.CallUnary(context.Background(), connect.NewRequest(&SetQueueRequest{Queue: "ARAM"}))
	require.Error(t, err)
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
}

func TestLeaderboardServer_SetSearchTermAndRefresh(t *testing.T) {
	fake := &fakeSession{}
	srv := newTestServer(t, fake)

	search := connect.NewClient[SetSearchTermRequest, AckResponse](
		srv.Client(), srv.URL+SetSearchTermProcedure, connect.WithCodec(jsonCodec{}))
	_, err := search.CallUnary(context.Background(), connect.NewRequest(&SetSearchTermRequest{Term: "ann"}))
	require.NoError(t, err)
	assert.Equal(t, "ann", fake.search)

	refresh := connect.NewClient[TriggerRefreshRequest, AckResponse](
		srv.Client(), srv.URL+TriggerRefreshProcedure, connect.WithCodec(jsonCodec{}))
	resp, err := refresh.CallUnary(context.Background(), connect.NewRequest(&TriggerRefreshRequest{}))
	require.NoError(t, err)
	assert.True(t, resp.Msg.Accepted)
	assert.Equal(t, 1, fake.refreshes)

	fake.mu.Lock()
	fake.view.Refreshing = true
	fake.mu.Unlock()

	resp, err = refresh.CallUnary(context.Background(), connect.NewRequest(&TriggerRefreshRequest{}))
	require.NoError(t, err)
	assert.False(t, resp.Msg.Accepted)
}

func TestLeaderboardServer_PlainJSONPost(t *testing.T) {
	srv := newTestServer(t, &fakeSession{})

	resp, err := http.Post(srv.URL+SetSearchTermProcedure, "application/json", strings.NewReader(`{"term":"bob"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHub_BroadcastsViews(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	views := make(chan session.View, 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx, views)

	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 5*time.Millisecond)

	views <- session.View{Search: "ann", Summary: domain.Summary{QueueLabel: "Flex"}}

	var msg hubMessage
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "view", msg.Type)
	assert.Equal(t, "ann", msg.View.Search)
	assert.Equal(t, "Flex", msg.View.Summary.QueueLabel)
}

func TestHub_NewClientGetsLatestView(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	views := make(chan session.View)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx, views)

	// unbuffered send returns once Run has taken the view
	views <- session.View{Search: "first"}

	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	var msg hubMessage
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "first", msg.View.Search)
}
