package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"wellness_tracker/internal/models"
	"wellness_tracker/internal/service"
	"wellness_tracker/internal/timer"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockExercises struct {
	exercise models.Exercise
	list     []models.Exercise
	history  []models.HistoryEntry
	err      error

	lastUserID int
	lastID     string
	lastInput  service.ExerciseInput
	lastPatch  models.ExercisePatch
	resetCalls int
	deleted    []string
}

func (m *mockExercises) Create(ctx context.Context, userID int, in service.ExerciseInput) (models.Exercise, error) {
	m.lastUserID = userID
	m.lastInput = in
	return m.exercise, m.err
}
func (m *mockExercises) Get(ctx context.Context, userID int, id string) (models.Exercise, error) {
	m.lastUserID, m.lastID = userID, id
	return m.exercise, m.err
}
func (m *mockExercises) List(ctx context.Context, userID int) ([]models.Exercise, error) {
	m.lastUserID = userID
	return m.list, m.err
}
func (m *mockExercises) Update(ctx context.Context, userID int, id string, patch models.ExercisePatch) (models.Exercise, error) {
	m.lastUserID, m.lastID = userID, id
	m.lastPatch = patch
	return m.exercise, m.err
}
func (m *mockExercises) Delete(ctx context.Context, userID int, id string) error {
	m.lastUserID, m.lastID = userID, id
	if m.err == nil {
		m.deleted = append(m.deleted, id)
	}
	return m.err
}
func (m *mockExercises) Reset(ctx context.Context, userID int, id string) error {
	m.lastUserID, m.lastID = userID, id
	m.resetCalls++
	return m.err
}
func (m *mockExercises) History(ctx context.Context, userID int, id string) ([]models.HistoryEntry, error) {
	m.lastUserID, m.lastID = userID, id
	return m.history, m.err
}

// mockSessions answers every control call with result. Subscribe hands out events,
// which the test feeds and closes.
type mockSessions struct {
	result   service.SessionResult
	snapshot models.Snapshot
	err      error
	events   chan timer.Event

	calls          []string
	lastUserID     int
	lastExerciseID string
	unsubscribed   chan struct{}
}

func (m *mockSessions) control(op string, userID int, exerciseID string) (service.SessionResult, error) {
	m.calls = append(m.calls, op)
	m.lastUserID, m.lastExerciseID = userID, exerciseID
	return m.result, m.err
}

func (m *mockSessions) Start(ctx context.Context, userID int, exerciseID string) (service.SessionResult, error) {
	return m.control("start", userID, exerciseID)
}
func (m *mockSessions) Pause(ctx context.Context, userID int, exerciseID string) (service.SessionResult, error) {
	return m.control("pause", userID, exerciseID)
}
func (m *mockSessions) Resume(ctx context.Context, userID int, exerciseID string) (service.SessionResult, error) {
	return m.control("resume", userID, exerciseID)
}
func (m *mockSessions) Reset(ctx context.Context, userID int, exerciseID string) (service.SessionResult, error) {
	return m.control("reset", userID, exerciseID)
}
func (m *mockSessions) Abandon(ctx context.Context, userID int, exerciseID string) error {
	_, err := m.control("abandon", userID, exerciseID)
	return err
}
func (m *mockSessions) State(userID int, exerciseID string) (models.Snapshot, error) {
	m.lastUserID, m.lastExerciseID = userID, exerciseID
	return m.snapshot, m.err
}
func (m *mockSessions) Subscribe(userID int, exerciseID string, buffer int) (<-chan timer.Event, func(), error) {
	if m.err != nil {
		return nil, nil, m.err
	}
	return m.events, func() {
		if m.unsubscribed != nil {
			close(m.unsubscribed)
		}
	}, nil
}

type mockStatistics struct {
	stats models.Statistics
	err   error
}

func (m *mockStatistics) Summary(ctx context.Context, userID int) (models.Statistics, error) {
	return m.stats, m.err
}

type mockEventLog struct {
	resp       []models.ActivityEvent
	err        error
	lastUserID int
	lastFrom   time.Time
	lastTo     time.Time
	lastType   string
}

func (m *mockEventLog) List(ctx context.Context, userID int, f service.LogFilter) ([]models.ActivityEvent, error) {
	m.lastUserID = userID
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	return m.resp, m.err
}

type mockTemplates struct {
	list     []models.Template
	exercise models.Exercise
	err      error
	lastID   string
}

func (m *mockTemplates) List() []models.Template { return m.list }
func (m *mockTemplates) Instantiate(ctx context.Context, userID int, templateID string) (models.Exercise, error) {
	m.lastID = templateID
	return m.exercise, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

// doRequest sends an authenticated request through r.
func doRequest(r http.Handler, method, target string, body string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vv := range authHeader("valid") {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// httptestGet sends an unauthenticated GET.
func httptestGet(r http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}
