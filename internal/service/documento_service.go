package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"taller/internal/config"
	"taller/internal/dto"
	"taller/internal/infra"
	"taller/internal/model"
	"taller/internal/repository"
	"taller/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// TipoDocumento selects which PDF to render.
type TipoDocumento string

const (
	DocumentoOrden    TipoDocumento = "orden"
	DocumentoContrato TipoDocumento = "contrato"
)

// EmailEnqueuer pushes email jobs to the async queue.
type EmailEnqueuer interface {
	EnqueueEmail(ctx context.Context, payload interface{}) error
}

// DocumentoGenerado is a rendered PDF with its download name.
type DocumentoGenerado struct {
	Nombre      string
	NumeroOrden string
	*infra.Resultado
}

type DocumentoService interface {
	Generar(ctx context.Context, actor Actor, id uuid.UUID, tipo TipoDocumento) (*DocumentoGenerado, error)
	// GuardarEnDisco writes the document under PDF_STORAGE_PATH and returns
	// the file path.
	GuardarEnDisco(doc *DocumentoGenerado) (string, error)
	// EnviarPorEmail renders the order document and queues it for delivery.
	// email overrides the client's stored address.
	EnviarPorEmail(ctx context.Context, actor Actor, id uuid.UUID, email *string) (*dto.EnviarPDFResponse, error)
}

type documentoService struct {
	ordenes repository.OrdenRepository
	cola    EmailEnqueuer
	cfg     *config.Config
	now     func() time.Time
}

func NewDocumentoService(ordenes repository.OrdenRepository, cola EmailEnqueuer, cfg *config.Config) DocumentoService {
	return &documentoService{ordenes: ordenes, cola: cola, cfg: cfg, now: time.Now}
}

// NegocioDesdeConfig is the business identity printed on documents.
func NegocioDesdeConfig(cfg *config.Config) infra.Negocio {
	return infra.Negocio{
		Nombre:    cfg.NegocioNombre,
		Direccion: cfg.NegocioDireccion,
		Telefono:  cfg.NegocioTelefono,
		Email:     cfg.NegocioEmail,
		RFC:       cfg.NegocioRFC,
	}
}

func (s *documentoService) Generar(ctx context.Context, actor Actor, id uuid.UUID, tipo TipoDocumento) (*DocumentoGenerado, error) {
	o, err := s.ordenes.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr("obtener orden", err)
	}
	if !actor.puedeVer(o) {
		return nil, ErrNotFound
	}
	return s.render(o, tipo)
}

func (s *documentoService) render(o *model.OrdenServicio, tipo TipoDocumento) (*DocumentoGenerado, error) {
	doc := infra.NuevoDocumentoOrden(o, NegocioDesdeConfig(s.cfg))
	opts := infra.OpcionesPDF{Ahora: s.now()}

	var (
		res    *infra.Resultado
		err    error
		nombre string
	)
	switch tipo {
	case DocumentoOrden:
		res, err = infra.GenerarOrdenServicioPDF(doc, opts)
		nombre = fmt.Sprintf("orden-%s.pdf", o.NumeroOrden)
	case DocumentoContrato:
		res, err = infra.GenerarContratoPDF(doc, opts)
		nombre = fmt.Sprintf("contrato-%s.pdf", o.NumeroOrden)
	default:
		return nil, &ValidationError{Fields: map[string]string{"tipo": "documento desconocido: " + string(tipo)}}
	}
	if err != nil {
		return nil, fmt.Errorf("generar %s %s: %w", tipo, o.NumeroOrden, err)
	}
	return &DocumentoGenerado{Nombre: nombre, NumeroOrden: o.NumeroOrden, Resultado: res}, nil
}

func (s *documentoService) GuardarEnDisco(doc *DocumentoGenerado) (string, error) {
	if err := os.MkdirAll(s.cfg.PDFStoragePath, 0o755); err != nil {
		return "", fmt.Errorf("crear directorio de PDFs: %w", err)
	}
	path := filepath.Join(s.cfg.PDFStoragePath, doc.Nombre)
	if err := os.WriteFile(path, doc.PDF, 0o644); err != nil {
		return "", fmt.Errorf("guardar PDF: %w", err)
	}
	return path, nil
}

func (s *documentoService) EnviarPorEmail(ctx context.Context, actor Actor, id uuid.UUID, email *string) (*dto.EnviarPDFResponse, error) {
	if err := actor.exigir(model.CapNotificarCliente); err != nil {
		return nil, err
	}
	if s.cola == nil {
		return nil, backend("encolar correo", errors.New("la cola de correo no está disponible"))
	}
	o, err := s.ordenes.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr("obtener orden", err)
	}
	if !actor.puedeVer(o) {
		return nil, ErrNotFound
	}

	destino := ""
	if email != nil {
		destino = strings.TrimSpace(*email)
	} else if o.Cliente != nil && o.Cliente.Email != nil {
		destino = strings.TrimSpace(*o.Cliente.Email)
	}
	if destino == "" {
		return nil, &ValidationError{Fields: map[string]string{"email": "el cliente no tiene email registrado"}}
	}

	doc, err := s.render(o, DocumentoOrden)
	if err != nil {
		return nil, err
	}
	path, err := s.GuardarEnDisco(doc)
	if err != nil {
		return nil, err
	}

	payload := worker.EmailJobPayload{
		ToEmail:     destino,
		Subject:     fmt.Sprintf("Orden de servicio %s - %s", o.NumeroOrden, s.cfg.NegocioNombre),
		Body:        cuerpoCorreo(o, s.cfg),
		PDFPath:     path,
		NumeroOrden: o.NumeroOrden,
	}
	if err := s.cola.EnqueueEmail(ctx, payload); err != nil {
		return nil, backend("encolar correo", err)
	}
	log.Info().Str("numero_orden", o.NumeroOrden).Str("to", destino).Msg("orden encolada para envío por email")
	return &dto.EnviarPDFResponse{Encolado: true, Destinatario: destino}, nil
}

func cuerpoCorreo(o *model.OrdenServicio, cfg *config.Config) string {
	nombre := "cliente"
	if o.Cliente != nil {
		nombre = o.Cliente.NombreCompleto
	}
	return fmt.Sprintf(
		"Hola %s,\n\nAdjuntamos la orden de servicio %s de su %s %s.\n\n%s\n%s",
		nombre, o.NumeroOrden, o.Marca, o.Modelo, cfg.NegocioNombre, cfg.NegocioTelefono,
	)
}
