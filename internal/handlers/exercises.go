package handlers

import (
	"net/http"

	"wellness_tracker/internal/models"
	"wellness_tracker/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errListExercises  = "failed to load exercises"
	errCreateExercise = "failed to create exercise"
	errLoadExercise   = "failed to load exercise"
	errUpdateExercise = "failed to update exercise"
	errDeleteExercise = "failed to delete exercise"
	errResetExercise  = "failed to reset exercise"
	errLoadHistory    = "failed to load history"
)

// CreateExerciseRequest is the payload of a new exercise. Without a timer the default
// 30s work / 10s rest / 3 series is stored.
type CreateExerciseRequest struct {
	Name        string              `json:"name" binding:"required" example:"Plank"`
	Description string              `json:"description,omitempty" example:"Front plank hold"`
	Category    string              `json:"category,omitempty" example:"core"`
	Timer       *models.TimerConfig `json:"timer,omitempty"`
}

// @Summary      List exercises
// @Tags         exercises
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, exercises"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/exercises [get]
// @Security     BearerAuth
func (h *Handler) listExercises(c *gin.Context) {
	uid, ok := mustUser(c)
	if !ok {
		return
	}
	list, err := h.services.Exercises.List(c.Request.Context(), uid)
	if err != nil {
		h.respondError(c, err, errListExercises, "exercises_list_failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":     len(list),
		"exercises": list,
	})
}

// @Summary      Create exercise
// @Tags         exercises
// @Accept       json
// @Produce      json
// @Param        body  body      CreateExerciseRequest  true  "Exercise"
// @Success      201   {object}  models.Exercise
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/exercises [post]
// @Security     BearerAuth
func (h *Handler) createExercise(c *gin.Context) {
	uid, ok := mustUser(c)
	if !ok {
		return
	}
	var req CreateExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	ex, err := h.services.Exercises.Create(c.Request.Context(), uid, service.ExerciseInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Timer:       req.Timer,
	})
	if err != nil {
		h.respondError(c, err, errCreateExercise, "exercise_create_failed", "name", req.Name)
		return
	}
	c.JSON(http.StatusCreated, ex)
}

// @Summary      Get exercise
// @Tags         exercises
// @Produce      json
// @Param        id   path      string  true  "Exercise id"
// @Success      200  {object}  models.Exercise
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/exercises/{id} [get]
// @Security     BearerAuth
func (h *Handler) getExercise(c *gin.Context) {
	uid, ok := mustUser(c)
	if !ok {
		return
	}
	ex, err := h.services.Exercises.Get(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		h.respondError(c, err, errLoadExercise, "exercise_get_failed", "exercise_id", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, ex)
}

// @Summary      Update exercise
// @Description  Only the fields present in the body change. A new timer refreshes duration_seconds.
// @Tags         exercises
// @Accept       json
// @Produce      json
// @Param        id    path      string                true  "Exercise id"
// @Param        body  body      models.ExercisePatch  true  "Fields to change"
// @Success      200   {object}  models.Exercise
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/exercises/{id} [patch]
// @Security     BearerAuth
func (h *Handler) updateExercise(c *gin.Context) {
	uid, ok := mustUser(c)
	if !ok {
		return
	}
	var patch models.ExercisePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	ex, err := h.services.Exercises.Update(c.Request.Context(), uid, c.Param("id"), patch)
	if err != nil {
		h.respondError(c, err, errUpdateExercise, "exercise_update_failed", "exercise_id", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, ex)
}

// @Summary      Delete exercise
// @Description  Removes the exercise, its history and any live session.
// @Tags         exercises
// @Param        id   path  string  true  "Exercise id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/exercises/{id} [delete]
// @Security     BearerAuth
func (h *Handler) deleteExercise(c *gin.Context) {
	uid, ok := mustUser(c)
	if !ok {
		return
	}
	if err := h.services.Exercises.Delete(c.Request.Context(), uid, c.Param("id")); err != nil {
		h.respondError(c, err, errDeleteExercise, "exercise_delete_failed", "exercise_id", c.Param("id"))
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary      Reset exercise
// @Description  Marks the exercise as not completed. History and counters are kept.
// @Tags         exercises
// @Produce      json
// @Param        id   path      string  true  "Exercise id"
// @Success      200  {object}  models.Exercise
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/exercises/{id}/reset [post]
// @Security     BearerAuth
func (h *Handler) resetExercise(c *gin.Context) {
	uid, ok := mustUser(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	id := c.Param("id")
	if err := h.services.Exercises.Reset(ctx, uid, id); err != nil {
		h.respondError(c, err, errResetExercise, "exercise_reset_failed", "exercise_id", id)
		return
	}
	ex, err := h.services.Exercises.Get(ctx, uid, id)
	if err != nil {
		h.respondError(c, err, errLoadExercise, "exercise_get_failed", "exercise_id", id)
		return
	}
	c.JSON(http.StatusOK, ex)
}

// @Summary      Exercise history
// @Tags         exercises
// @Produce      json
// @Param        id   path      string  true  "Exercise id"
// @Success      200  {object}  map[string]interface{}  "count, history"
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/exercises/{id}/history [get]
// @Security     BearerAuth
func (h *Handler) getHistory(c *gin.Context) {
	uid, ok := mustUser(c)
	if !ok {
		return
	}
	entries, err := h.services.Exercises.History(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		h.respondError(c, err, errLoadHistory, "exercise_history_failed", "exercise_id", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":   len(entries),
		"history": entries,
	})
}
