package handlers

import (
	"context"
	"net/http"

	"wellness_tracker/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	statusAbandoned = "abandoned"

	errSessionControl = "failed to control session"
)

type sessionControl func(ctx context.Context, userID int, exerciseID string) (service.SessionResult, error)

// runControl executes a session operation and writes its result. Invalid operations
// answer 200 with changed=false.
func (h *Handler) runControl(c *gin.Context, op string, fn sessionControl) {
	uid, ok := mustUser(c)
	if !ok {
		return
	}
	res, err := fn(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		h.respondError(c, err, errSessionControl, "session_"+op+"_failed", "exercise_id", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary      Start session
// @Description  Starts the exercise timer with its stored config. Resumes a paused session; no-op while running or after completion.
// @Tags         sessions
// @Produce      json
// @Param        id   path      string  true  "Exercise id"
// @Success      200  {object}  service.SessionResult
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/sessions/{id}/start [post]
// @Security     BearerAuth
func (h *Handler) startSession(c *gin.Context) {
	h.runControl(c, "start", h.services.Sessions.Start)
}

// @Summary      Pause session
// @Tags         sessions
// @Produce      json
// @Param        id   path      string  true  "Exercise id"
// @Success      200  {object}  service.SessionResult
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/sessions/{id}/pause [post]
// @Security     BearerAuth
func (h *Handler) pauseSession(c *gin.Context) {
	h.runControl(c, "pause", h.services.Sessions.Pause)
}

// @Summary      Resume session
// @Tags         sessions
// @Produce      json
// @Param        id   path      string  true  "Exercise id"
// @Success      200  {object}  service.SessionResult
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/sessions/{id}/resume [post]
// @Security     BearerAuth
func (h *Handler) resumeSession(c *gin.Context) {
	h.runControl(c, "resume", h.services.Sessions.Resume)
}

// @Summary      Reset session
// @Description  Back to an idle preparation phase. Nothing is written to history.
// @Tags         sessions
// @Produce      json
// @Param        id   path      string  true  "Exercise id"
// @Success      200  {object}  service.SessionResult
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/sessions/{id}/reset [post]
// @Security     BearerAuth
func (h *Handler) resetSession(c *gin.Context) {
	h.runControl(c, "reset", h.services.Sessions.Reset)
}

// @Summary      Abandon session
// @Description  Stops and discards the session. Nothing is written to history.
// @Tags         sessions
// @Produce      json
// @Param        id   path      string  true  "Exercise id"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/sessions/{id}/abandon [post]
// @Security     BearerAuth
func (h *Handler) abandonSession(c *gin.Context) {
	uid, ok := mustUser(c)
	if !ok {
		return
	}
	if err := h.services.Sessions.Abandon(c.Request.Context(), uid, c.Param("id")); err != nil {
		h.respondError(c, err, errSessionControl, "session_abandon_failed", "exercise_id", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusAbandoned})
}

// @Summary      Session state
// @Tags         sessions
// @Produce      json
// @Param        id   path      string  true  "Exercise id"
// @Success      200  {object}  models.Snapshot
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/sessions/{id} [get]
// @Security     BearerAuth
func (h *Handler) getSession(c *gin.Context) {
	uid, ok := mustUser(c)
	if !ok {
		return
	}
	snap, err := h.services.Sessions.State(uid, c.Param("id"))
	if err != nil {
		h.respondError(c, err, errSessionControl, "session_state_failed", "exercise_id", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, snap)
}
