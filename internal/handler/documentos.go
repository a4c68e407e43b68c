package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"taller/internal/dto"
	"taller/internal/middleware"
	"taller/internal/service"

	"github.com/gin-gonic/gin"
)

type DocumentosHandler struct{ svc service.DocumentoService }

func NewDocumentosHandler(svc service.DocumentoService) *DocumentosHandler {
	return &DocumentosHandler{svc: svc}
}

// OrdenPDF godoc
// @Summary Descarga la orden de servicio en PDF
// @Tags documentos
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "ID de orden"
// @Success 200 {file} binary
// @Failure 404 {object} apierror.APIError
// @Router /v1/ordenes/{id}/pdf [get]
func (h *DocumentosHandler) OrdenPDF(c *gin.Context) {
	h.servir(c, service.DocumentoOrden)
}

// ContratoPDF godoc
// @Summary Descarga el contrato de servicio en PDF
// @Tags documentos
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "ID de orden"
// @Success 200 {file} binary
// @Router /v1/ordenes/{id}/contrato [get]
func (h *DocumentosHandler) ContratoPDF(c *gin.Context) {
	h.servir(c, service.DocumentoContrato)
}

func (h *DocumentosHandler) servir(c *gin.Context, tipo service.TipoDocumento) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	doc, err := h.svc.Generar(c.Request.Context(), middleware.GetActor(c), id, tipo)
	if err != nil {
		respondError(c, err)
		return
	}
	// Rendering warnings travel as a header; the PDF is still valid.
	if len(doc.Advertencias) > 0 {
		c.Header("X-Render-Warnings", strconv.Itoa(len(doc.Advertencias)))
	}
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="%s"`, doc.Nombre))
	c.Data(http.StatusOK, "application/pdf", doc.PDF)
}

// EnviarEmail godoc
// @Summary Encola el envio de la orden en PDF por email
// @Tags documentos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de orden"
// @Param body body dto.EnviarPDFRequest false "Destinatario opcional"
// @Success 202 {object} dto.EnviarPDFResponse
// @Router /v1/ordenes/{id}/pdf/email [post]
func (h *DocumentosHandler) EnviarEmail(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req dto.EnviarPDFRequest
	if c.Request.ContentLength != 0 && !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.EnviarPorEmail(c.Request.Context(), middleware.GetActor(c), id, req.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, resp)
}
