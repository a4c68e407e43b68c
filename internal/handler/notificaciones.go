package handler

import (
	"net/http"

	"taller/internal/dto"
	"taller/internal/middleware"
	"taller/internal/service"

	"github.com/gin-gonic/gin"
)

type NotificacionesHandler struct{ svc service.NotificacionService }

func NewNotificacionesHandler(svc service.NotificacionService) *NotificacionesHandler {
	return &NotificacionesHandler{svc: svc}
}

// WhatsApp godoc
// @Summary Compone un mensaje de WhatsApp y su enlace wa.me
// @Tags notificaciones
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de orden"
// @Param body body dto.WhatsAppRequest true "Plantilla y datos extra"
// @Success 200 {object} dto.WhatsAppResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/ordenes/{id}/whatsapp [post]
func (h *NotificacionesHandler) WhatsApp(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req dto.WhatsAppRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ComponerWhatsApp(c.Request.Context(), middleware.GetActor(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *NotificacionesHandler) Historial(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Historial(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *NotificacionesHandler) Plantillas(c *gin.Context) {
	c.JSON(http.StatusOK, dto.PlantillasResponse{Plantillas: h.svc.Plantillas()})
}
