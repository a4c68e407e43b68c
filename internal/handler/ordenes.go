package handler

import (
	"net/http"

	"taller/internal/apierror"
	"taller/internal/dto"
	"taller/internal/middleware"
	"taller/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OrdenesHandler struct{ svc service.OrdenService }

func NewOrdenesHandler(svc service.OrdenService) *OrdenesHandler {
	return &OrdenesHandler{svc: svc}
}

// Crear godoc
// @Summary Registra una orden de servicio (y el cliente si es nuevo)
// @Tags ordenes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearOrdenRequest true "Orden"
// @Success 201 {object} dto.OrdenResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/ordenes [post]
func (h *OrdenesHandler) Crear(c *gin.Context) {
	var req dto.CrearOrdenRequest
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

// Listar godoc
// @Summary Lista ordenes, mas recientes primero
// @Tags ordenes
// @Produce json
// @Security BearerAuth
// @Param estado query string false "Estado o 'all'"
// @Param q query string false "Busca en numero, marca, modelo y cliente"
// @Success 200 {array} dto.OrdenResponse
// @Router /v1/ordenes [get]
func (h *OrdenesHandler) Listar(c *gin.Context) {
	var filter dto.OrdenFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), middleware.GetActor(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrdenesHandler) ObtenerPorID(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CambiarEstado godoc
// @Summary Cambia el estado de la orden
// @Tags ordenes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de orden"
// @Param body body dto.CambiarEstadoRequest true "Nuevo estado"
// @Success 200 {object} dto.OrdenResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/ordenes/{id}/estado [patch]
func (h *OrdenesHandler) CambiarEstado(c *gin.Context) {
	var req dto.CambiarEstadoRequest
	h.mutar(c, &req, func(actor service.Actor, id uuid.UUID) (*dto.OrdenResponse, error) {
		return h.svc.CambiarEstado(c.Request.Context(), actor, id, req.Estado)
	})
}

func (h *OrdenesHandler) ActualizarCostos(c *gin.Context) {
	var req dto.ActualizarCostosRequest
	h.mutar(c, &req, func(actor service.Actor, id uuid.UUID) (*dto.OrdenResponse, error) {
		return h.svc.ActualizarCostos(c.Request.Context(), actor, id, req)
	})
}

func (h *OrdenesHandler) ActualizarDiagnostico(c *gin.Context) {
	var req dto.ActualizarDiagnosticoRequest
	h.mutar(c, &req, func(actor service.Actor, id uuid.UUID) (*dto.OrdenResponse, error) {
		return h.svc.ActualizarDiagnostico(c.Request.Context(), actor, id, req)
	})
}

func (h *OrdenesHandler) AsignarTecnico(c *gin.Context) {
	var req dto.AsignarTecnicoRequest
	h.mutar(c, &req, func(actor service.Actor, id uuid.UUID) (*dto.OrdenResponse, error) {
		tecnicoID, err := uuid.Parse(req.TecnicoID)
		if err != nil {
			return nil, &service.ValidationError{Fields: map[string]string{"tecnico_id": "uuid"}}
		}
		return h.svc.AsignarTecnico(c.Request.Context(), actor, id, tecnicoID)
	})
}

func (h *OrdenesHandler) RegistrarFirmaEntrega(c *gin.Context) {
	var req dto.FirmaEntregaRequest
	h.mutar(c, &req, func(actor service.Actor, id uuid.UUID) (*dto.OrdenResponse, error) {
		return h.svc.RegistrarFirmaEntrega(c.Request.Context(), actor, id, req.Firma)
	})
}

// mutar parses :id and the body, then runs op and writes its result.
func (h *OrdenesHandler) mutar(c *gin.Context, req interface{}, op func(service.Actor, uuid.UUID) (*dto.OrdenResponse, error)) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	if !bindAndValidate(c, req) {
		return
	}
	resp, err := op(middleware.GetActor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
