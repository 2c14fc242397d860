package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"wellness_tracker/internal/models"
	"wellness_tracker/internal/service"
	"wellness_tracker/internal/timer"

	"github.com/gorilla/websocket"
)

type envelope struct {
	Type  string          `json:"type"`
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

func dialSession(t *testing.T, srv *httptest.Server, exerciseID, token string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	u, _ := url.Parse(srv.URL)
	u.Scheme = "ws"
	u.Path = "/ws/sessions/" + exerciseID
	if token != "" {
		q := u.Query()
		q.Set("token", token)
		u.RawQuery = q.Encode()
	}
	dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
	return dialer.Dial(u.String(), nil)
}

func readEnvelope(t *testing.T, conn *websocket.Conn) envelope {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var env envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read: %v", err)
	}
	return env
}

func TestWebSocket_SessionStream(t *testing.T) {
	initial := models.Snapshot{State: models.StatePreparation, RemainingSeconds: 5, CurrentSeries: 1, SeriesCount: 2, Running: true}
	sess := &mockSessions{
		snapshot:     initial,
		events:       make(chan timer.Event, 4),
		unsubscribed: make(chan struct{}),
	}
	srv := httptest.NewServer(newTestRouter(&service.Service{Authorization: &mockAuth{parseID: 8}, Sessions: sess}))
	defer srv.Close()

	conn, _, err := dialSession(t, srv, "ex-1", "tok")
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	defer conn.Close()

	env := readEnvelope(t, conn)
	if env.Type != string(timer.EventSnapshot) {
		t.Fatalf("initial type=%q", env.Type)
	}
	var ev timer.Event
	if err := json.Unmarshal(env.Data, &ev); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ev.Snapshot != initial {
		t.Fatalf("initial snapshot=%+v, want %+v", ev.Snapshot, initial)
	}

	done := models.Snapshot{State: models.StateCompleted, CurrentSeries: 2, SeriesCount: 2, TotalElapsedSeconds: 9, ProgressPercent: 100}
	sess.events <- timer.Event{
		Kind:     timer.EventCompleted,
		Snapshot: done,
		Entry:    &models.HistoryEntry{ExerciseID: "ex-1", ActualDurationSeconds: 9, Completed: true},
	}
	env = readEnvelope(t, conn)
	if env.Type != string(timer.EventCompleted) {
		t.Fatalf("type=%q, want completed", env.Type)
	}
	ev = timer.Event{}
	_ = json.Unmarshal(env.Data, &ev)
	if ev.Entry == nil || ev.Entry.ActualDurationSeconds != 9 || ev.Snapshot.State != models.StateCompleted {
		t.Fatalf("unexpected completed event: %+v", ev)
	}

	close(sess.events)
	env = readEnvelope(t, conn)
	if env.Type != wsTypeClosed {
		t.Fatalf("type=%q, want closed", env.Type)
	}

	select {
	case <-sess.unsubscribed:
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not unsubscribe")
	}
}

func TestWebSocket_NoSessionIs404(t *testing.T) {
	sess := &mockSessions{err: service.ErrNoSession}
	srv := httptest.NewServer(newTestRouter(&service.Service{Authorization: &mockAuth{parseID: 8}, Sessions: sess}))
	defer srv.Close()

	_, resp, err := dialSession(t, srv, "ex-1", "tok")
	if err == nil {
		t.Fatal("expected handshake failure")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 response, got %+v", resp)
	}
}

func TestWebSocket_RequiresToken(t *testing.T) {
	srv := httptest.NewServer(newTestRouter(&service.Service{Authorization: &mockAuth{}, Sessions: &mockSessions{}}))
	defer srv.Close()

	_, resp, err := dialSession(t, srv, "ex-1", "")
	if err == nil {
		t.Fatal("expected handshake failure")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 response, got %+v", resp)
	}
}
