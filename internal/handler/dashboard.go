package handler

import (
	"net/http"

	"taller/internal/apierror"
	"taller/internal/dto"
	"taller/internal/middleware"
	"taller/internal/service"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct{ svc service.DashboardService }

func NewDashboardHandler(svc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Obtener godoc
// @Summary Estadisticas, ordenes activas y alertas no leidas
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.DashboardResponse
// @Router /v1/dashboard [get]
func (h *DashboardHandler) Obtener(c *gin.Context) {
	resp, err := h.svc.Obtener(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DashboardHandler) Alertas(c *gin.Context) {
	var filter dto.AlertaFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListarAlertas(c.Request.Context(), middleware.GetActor(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DashboardHandler) MarcarAlertaLeida(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.MarcarAlertaLeida(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *DashboardHandler) StockBajo(c *gin.Context) {
	resp, err := h.svc.StockBajo(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
