package handlers

import (
	"net/http"

	"wellness_tracker/internal/models"
	"wellness_tracker/internal/stats"

	"github.com/gin-gonic/gin"
)

const errLoadStats = "failed to compute statistics"

// StatsResponse adds display strings to the adherence counters.
type StatsResponse struct {
	models.Statistics
	TotalTrainingText string `json:"total_training_text" example:"1h 30m"`
}

// @Summary      Adherence statistics
// @Description  Totals over all exercises and the current day streak.
// @Tags         stats
// @Produce      json
// @Success      200  {object}  StatsResponse
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/stats [get]
// @Security     BearerAuth
func (h *Handler) getStats(c *gin.Context) {
	uid, ok := mustUser(c)
	if !ok {
		return
	}
	st, err := h.services.Statistics.Summary(c.Request.Context(), uid)
	if err != nil {
		h.respondError(c, err, errLoadStats, "stats_failed")
		return
	}
	c.JSON(http.StatusOK, StatsResponse{
		Statistics:        st,
		TotalTrainingText: stats.FormatDuration(st.TotalTrainingSeconds),
	})
}
