package handler

import (
	"net/http"

	"taller/internal/dto"
	"taller/internal/firma"

	"github.com/gin-gonic/gin"
)

// Firma godoc
// @Summary Rasteriza trazos de firma y devuelve el data URL PNG
// @Tags firmas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.FirmaRequest true "Trazos"
// @Success 200 {object} dto.FirmaResponse
// @Router /v1/firmas [post]
func Firma(c *gin.Context) {
	var req dto.FirmaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	ancho, alto := req.Ancho, req.Alto
	if ancho == 0 {
		ancho = firma.AnchoDefault
	}
	if alto == 0 {
		alto = firma.AltoDefault
	}
	lienzo := firma.NuevoLienzo(ancho, alto)
	lienzo.Reproducir(req.Trazos)

	dataURL, err := lienzo.DataURL()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FirmaResponse{DataURL: dataURL})
}
