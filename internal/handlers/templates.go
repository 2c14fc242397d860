package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const errInstantiate = "failed to create exercise from template"

// @Summary      List templates
// @Tags         templates
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, templates"
// @Router       /api/v1/templates [get]
// @Security     BearerAuth
func (h *Handler) listTemplates(c *gin.Context) {
	list := h.services.Templates.List()
	c.JSON(http.StatusOK, gin.H{
		"count":     len(list),
		"templates": list,
	})
}

// @Summary      Create exercise from template
// @Tags         templates
// @Produce      json
// @Param        id   path      string  true  "Template id"
// @Success      201  {object}  models.Exercise
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/templates/{id}/instantiate [post]
// @Security     BearerAuth
func (h *Handler) instantiateTemplate(c *gin.Context) {
	uid, ok := mustUser(c)
	if !ok {
		return
	}
	ex, err := h.services.Templates.Instantiate(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		h.respondError(c, err, errInstantiate, "template_instantiate_failed", "template_id", c.Param("id"))
		return
	}
	c.JSON(http.StatusCreated, ex)
}
