package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"wellness_tracker/internal/models"
	"wellness_tracker/internal/service"
)

func TestStatsHandler(t *testing.T) {
	st := &mockStatistics{stats: models.Statistics{
		TotalExercises:       4,
		CompletedExercises:   2,
		TotalTrainingSeconds: 5400,
		Streak:               3,
	}}
	r := newTestRouter(&service.Service{Authorization: &mockAuth{parseID: 1}, Statistics: st})

	w := doRequest(r, http.MethodGet, "/api/v1/stats", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var got StatsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.TotalExercises != 4 || got.CompletedExercises != 2 || got.Streak != 3 {
		t.Fatalf("unexpected stats: %+v", got)
	}
	if got.TotalTrainingText != "1h 30m" {
		t.Fatalf("total_training_text=%q", got.TotalTrainingText)
	}
}

func TestStatsHandler_Failure(t *testing.T) {
	st := &mockStatistics{err: errors.New("db down")}
	r := newTestRouter(&service.Service{Authorization: &mockAuth{parseID: 1}, Statistics: st})

	w := doRequest(r, http.MethodGet, "/api/v1/stats", "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d, want 500", w.Code)
	}
	var out map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out["error"] != errLoadStats {
		t.Fatalf("error=%q", out["error"])
	}
}
