package handler

import (
	"net/http"

	"taller/internal/apierror"
	"taller/internal/dto"
	"taller/internal/middleware"
	"taller/internal/service"

	"github.com/gin-gonic/gin"
)

type ClientesHandler struct{ svc service.ClienteService }

func NewClientesHandler(svc service.ClienteService) *ClientesHandler {
	return &ClientesHandler{svc: svc}
}

// Buscar godoc
// @Summary Busca clientes por telefono parcial (max 5)
// @Tags clientes
// @Produce json
// @Security BearerAuth
// @Param telefono query string true "Al menos 3 caracteres"
// @Success 200 {array} dto.ClienteResponse
// @Router /v1/clientes [get]
func (h *ClientesHandler) Buscar(c *gin.Context) {
	var q dto.BuscarClientesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Buscar(c.Request.Context(), q.Telefono)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Crear godoc
// @Summary Registra un cliente
// @Tags clientes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearClienteRequest true "Cliente"
// @Success 201 {object} dto.ClienteResponse
// @Failure 400 {object} apierror.ValidationError
// @Router /v1/clientes [post]
func (h *ClientesHandler) Crear(c *gin.Context) {
	var req dto.CrearClienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ClientesHandler) ObtenerPorID(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
