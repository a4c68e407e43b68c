package handler

import (
	"errors"
	"net/http"
	"reflect"

	"taller/internal/apierror"
	"taller/internal/service"
	"taller/internal/whatsapp"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0 work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
			return false
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusBadRequest, apierror.NewValidation(fields))
		return false
	}
	return true
}

// paramUUID parses the :name path parameter, writing a 400 on failure.
func paramUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return uuid.Nil, false
	}
	return id, true
}

// respondError maps service errors onto HTTP status codes and envelopes.
func respondError(c *gin.Context, err error) {
	var (
		verr *service.ValidationError
		derr *service.DependencyError
		terr *service.TransitionError
		berr *service.BackendError
		perr *whatsapp.TemplateNotFoundError
	)
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, apierror.NewValidation(verr.Fields))
	case errors.As(err, &derr):
		c.JSON(http.StatusBadRequest, apierror.NewWithCode("dependencia_faltante", derr.Error()))
	case errors.As(err, &perr):
		c.JSON(http.StatusBadRequest, apierror.NewWithCode("plantilla_desconocida", perr.Error()))
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, apierror.New(err.Error()))
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.As(err, &terr):
		c.JSON(http.StatusConflict, apierror.NewWithCode("transicion_invalida", terr.Error()))
	case errors.As(err, &berr):
		zerolog.Ctx(c.Request.Context()).Error().Err(berr.Err).Str("op", berr.Op).Msg("backend error")
		c.JSON(http.StatusBadGateway, apierror.New(berr.Error()))
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, apierror.New("Error interno del servidor"))
	}
}
