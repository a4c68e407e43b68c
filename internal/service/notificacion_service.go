package service

import (
	"context"

	"taller/internal/config"
	"taller/internal/dto"
	"taller/internal/model"
	"taller/internal/repository"
	"taller/internal/whatsapp"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type NotificacionService interface {
	Plantillas() []string
	// ComponerWhatsApp renders the template for the order's client and
	// returns the wa.me link. The message is logged with enviado=false.
	ComponerWhatsApp(ctx context.Context, actor Actor, ordenID uuid.UUID, req dto.WhatsAppRequest) (*dto.WhatsAppResponse, error)
	Historial(ctx context.Context, actor Actor, ordenID uuid.UUID) ([]dto.NotificacionResponse, error)
}

type notificacionService struct {
	ordenes repository.OrdenRepository
	repo    repository.NotificacionRepository
	cfg     *config.Config
}

func NewNotificacionService(ordenes repository.OrdenRepository, repo repository.NotificacionRepository, cfg *config.Config) NotificacionService {
	return &notificacionService{ordenes: ordenes, repo: repo, cfg: cfg}
}

func (s *notificacionService) Plantillas() []string { return whatsapp.Claves() }

func (s *notificacionService) ComponerWhatsApp(ctx context.Context, actor Actor, ordenID uuid.UUID, req dto.WhatsAppRequest) (*dto.WhatsAppResponse, error) {
	if err := actor.exigir(model.CapNotificarCliente); err != nil {
		return nil, err
	}
	o, err := s.cargar(ctx, actor, ordenID)
	if err != nil {
		return nil, err
	}
	if o.Cliente == nil {
		return nil, &DependencyError{Entidad: "cliente", Detalle: "la orden no tiene cliente"}
	}

	cliente := whatsapp.Cliente{Nombre: o.Cliente.NombreCompleto, Telefono: o.Cliente.Telefono}
	mensaje, err := whatsapp.Componer(req.Plantilla, cliente, OrdenWhatsApp(o, s.cfg), req.Extra)
	if err != nil {
		return nil, err
	}
	telefono := whatsapp.NormalizarTelefono(cliente.Telefono, s.cfg.WhatsAppPais)

	plantilla := req.Plantilla
	n := &model.NotificacionCliente{
		OrdenID:        o.ID,
		ClienteID:      o.ClienteID,
		Tipo:           req.Plantilla,
		Mensaje:        mensaje,
		Metodo:         "whatsapp",
		PlantillaUsada: &plantilla,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		log.Warn().Err(err).Str("numero_orden", o.NumeroOrden).Msg("no se pudo registrar la notificacion")
	}

	return &dto.WhatsAppResponse{
		Plantilla: req.Plantilla,
		Telefono:  telefono,
		Mensaje:   mensaje,
		Link:      whatsapp.GenerarLink(telefono, mensaje),
	}, nil
}

func (s *notificacionService) Historial(ctx context.Context, actor Actor, ordenID uuid.UUID) ([]dto.NotificacionResponse, error) {
	if _, err := s.cargar(ctx, actor, ordenID); err != nil {
		return nil, err
	}
	ns, err := s.repo.ListByOrden(ctx, ordenID)
	if err != nil {
		return nil, backend("listar notificaciones", err)
	}
	resp := make([]dto.NotificacionResponse, len(ns))
	for i, n := range ns {
		resp[i] = dto.NotificacionResponse{
			ID:             n.ID.String(),
			Tipo:           n.Tipo,
			Mensaje:        n.Mensaje,
			Metodo:         n.Metodo,
			Enviado:        n.Enviado,
			PlantillaUsada: n.PlantillaUsada,
			CreatedAt:      n.CreatedAt,
		}
	}
	return resp, nil
}

func (s *notificacionService) cargar(ctx context.Context, actor Actor, id uuid.UUID) (*model.OrdenServicio, error) {
	o, err := s.ordenes.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr("obtener orden", err)
	}
	if !actor.puedeVer(o) {
		return nil, ErrNotFound
	}
	return o, nil
}

// OrdenWhatsApp builds the template data from a stored order and the
// workshop's configured location and phone.
func OrdenWhatsApp(o *model.OrdenServicio, cfg *config.Config) whatsapp.Orden {
	wo := whatsapp.Orden{
		NumeroOrden:     o.NumeroOrden,
		Marca:           o.Marca,
		Modelo:          o.Modelo,
		Problema:        o.ProblemaReportado,
		CostoTotal:      o.CostoTotal,
		Anticipo:        o.Anticipo,
		SaldoPendiente:  o.SaldoPendiente,
		UbicacionTaller: cfg.NegocioUbicacion,
		TelefonoTaller:  cfg.NegocioTelefono,
	}
	if o.Diagnostico != nil {
		wo.Diagnostico = *o.Diagnostico
	}
	return wo
}

