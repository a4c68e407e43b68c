package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"taller/internal/config"
	"taller/internal/dto"
	"taller/internal/firma"
	"taller/internal/model"
	"taller/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type OrdenService interface {
	Crear(ctx context.Context, actor Actor, req dto.CrearOrdenRequest) (*dto.OrdenResponse, error)
	Listar(ctx context.Context, actor Actor, filter dto.OrdenFilter) ([]dto.OrdenResponse, error)
	ObtenerPorID(ctx context.Context, actor Actor, id uuid.UUID) (*dto.OrdenResponse, error)
	CambiarEstado(ctx context.Context, actor Actor, id uuid.UUID, estado string) (*dto.OrdenResponse, error)
	ActualizarCostos(ctx context.Context, actor Actor, id uuid.UUID, req dto.ActualizarCostosRequest) (*dto.OrdenResponse, error)
	ActualizarDiagnostico(ctx context.Context, actor Actor, id uuid.UUID, req dto.ActualizarDiagnosticoRequest) (*dto.OrdenResponse, error)
	AsignarTecnico(ctx context.Context, actor Actor, id uuid.UUID, tecnicoID uuid.UUID) (*dto.OrdenResponse, error)
	RegistrarFirmaEntrega(ctx context.Context, actor Actor, id uuid.UUID, dataURL string) (*dto.OrdenResponse, error)
}

type ordenService struct {
	repo         repository.OrdenRepository
	clientes     repository.ClienteRepository
	usuarios     repository.UsuarioRepository
	garantiaDias int
	now          func() time.Time
}

func NewOrdenService(
	repo repository.OrdenRepository,
	clientes repository.ClienteRepository,
	usuarios repository.UsuarioRepository,
	cfg *config.Config,
) OrdenService {
	return &ordenService{
		repo:         repo,
		clientes:     clientes,
		usuarios:     usuarios,
		garantiaDias: cfg.GarantiaDiasDefault,
		now:          time.Now,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── Crear ─────────────────────────────────────────────────────────────────────
// One transaction covers:
//   1. create the client (nuevo_cliente) or load it (cliente_id)
//   2. bump the client's visit counter
//   3. draw the order number from the sequence
//   4. insert the order in state recibido

func (s *ordenService) Crear(ctx context.Context, actor Actor, req dto.CrearOrdenRequest) (*dto.OrdenResponse, error) {
	if err := actor.exigir(model.CapCrearOrden); err != nil {
		return nil, err
	}

	fields := map[string]string{}
	requerido(fields, "marca", req.Marca)
	requerido(fields, "modelo", req.Modelo)
	requerido(fields, "problema_reportado", req.ProblemaReportado)
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	var clienteID uuid.UUID
	switch {
	case req.NuevoCliente != nil:
	case req.ClienteID != nil && *req.ClienteID != "":
		id, err := uuid.Parse(*req.ClienteID)
		if err != nil {
			return nil, &ValidationError{Fields: map[string]string{"cliente_id": "no es un UUID válido"}}
		}
		clienteID = id
	default:
		return nil, &DependencyError{Entidad: "cliente", Detalle: "se requiere cliente_id o nuevo_cliente"}
	}

	var tecnicoID *uuid.UUID
	if req.TecnicoAsignadoID != nil && *req.TecnicoAsignadoID != "" {
		id, err := uuid.Parse(*req.TecnicoAsignadoID)
		if err != nil {
			return nil, &ValidationError{Fields: map[string]string{"tecnico_asignado_id": "no es un UUID válido"}}
		}
		tecnicoID = &id
	}

	ahora := s.now()
	orden := model.OrdenServicio{
		Marca:               strings.TrimSpace(req.Marca),
		Modelo:              strings.TrimSpace(req.Modelo),
		IMEI:                req.IMEI,
		PatronBloqueo:       req.PatronBloqueo,
		Contrasena:          req.Contrasena,
		ProblemaReportado:   req.ProblemaReportado,
		FotosRecepcion:      req.FotosRecepcion,
		Estado:              model.EstadoRecibido,
		TecnicoAsignadoID:   tecnicoID,
		Prioridad:           req.Prioridad,
		FechaRecepcion:      ahora,
		TiempoEstimadoHoras: req.TiempoEstimadoHoras,
		CostoDiagnostico:    req.CostoDiagnostico,
		CostoManoObra:       req.CostoManoObra,
		CostoRepuestos:      req.CostoRepuestos,
		CostoTotal:          req.CostoTotal,
		Anticipo:            req.Anticipo,
		FirmaRecepcion:      req.FirmaRecepcion,
		GarantiaDias:        s.garantiaDias,
		RecepcionistaID:     &actor.UsuarioID,
		UbicacionFisica:     req.UbicacionFisica,
		NotasInternas:       req.NotasInternas,
	}
	if orden.Prioridad == "" {
		orden.Prioridad = model.PrioridadNormal
	}
	if req.GarantiaDias != nil {
		orden.GarantiaDias = *req.GarantiaDias
	}
	if orden.CostoTotal.IsZero() {
		orden.CostoTotal = orden.CostoDiagnostico.Add(orden.CostoManoObra).Add(orden.CostoRepuestos)
	}
	orden.RecalcularSaldo()
	req.Checklist.AplicarA(&orden)

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if req.NuevoCliente != nil {
			c, err := nuevoCliente(*req.NuevoCliente)
			if err != nil {
				return err
			}
			if err := s.clientes.Create(ctx, tx, c); err != nil {
				return backend("crear cliente", err)
			}
			clienteID = c.ID
		} else if _, err := s.clientes.FindByID(ctx, tx, clienteID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &DependencyError{Entidad: "cliente", Detalle: "no existe " + clienteID.String()}
			}
			return backend("obtener cliente", err)
		}

		cliente, err := s.clientes.RegistrarVisita(ctx, tx, clienteID, ahora)
		if err != nil {
			return backend("registrar visita", err)
		}

		numero, err := s.repo.NextNumero(ctx, tx)
		if err != nil {
			return backend("numerar orden", err)
		}
		orden.NumeroOrden = numero
		orden.ClienteID = clienteID

		if err := s.repo.Create(ctx, tx, &orden); err != nil {
			return backend("crear orden", err)
		}
		orden.Cliente = cliente
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().
		Str("numero_orden", orden.NumeroOrden).
		Str("cliente_id", orden.ClienteID.String()).
		Msg("orden creada")
	return ordenToResponse(&orden), nil
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func (s *ordenService) Listar(ctx context.Context, actor Actor, filter dto.OrdenFilter) ([]dto.OrdenResponse, error) {
	if filter.Estado != "" && filter.Estado != "all" {
		if _, err := model.ParseEstado(filter.Estado); err != nil {
			return nil, &ValidationError{Fields: map[string]string{"estado": err.Error()}}
		}
	}
	filter.TecnicoID = nil
	if !actor.Puede(model.CapVerTodasOrdenes) {
		id := actor.UsuarioID
		filter.TecnicoID = &id
	}
	filter.Busqueda = strings.TrimSpace(filter.Busqueda)

	ordenes, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, backend("listar ordenes", err)
	}
	resp := make([]dto.OrdenResponse, len(ordenes))
	for i := range ordenes {
		resp[i] = *ordenToResponse(&ordenes[i])
	}
	return resp, nil
}

func (s *ordenService) ObtenerPorID(ctx context.Context, actor Actor, id uuid.UUID) (*dto.OrdenResponse, error) {
	o, err := s.obtener(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return ordenToResponse(o), nil
}

// obtener loads the order with its client. Orders the actor cannot see are
// reported as missing.
func (s *ordenService) obtener(ctx context.Context, actor Actor, id uuid.UUID) (*model.OrdenServicio, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr("obtener orden", err)
	}
	if !actor.puedeVer(o) {
		return nil, ErrNotFound
	}
	return o, nil
}

// ── Mutaciones ────────────────────────────────────────────────────────────────

// mutar locks the order row, applies fn and saves it. fn returning
// errSinCambios skips the write.
func (s *ordenService) mutar(ctx context.Context, actor Actor, id uuid.UUID, fn func(o *model.OrdenServicio) error) (*dto.OrdenResponse, error) {
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		o, err := s.repo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return storeErr("obtener orden", err)
		}
		if !actor.puedeVer(o) {
			return ErrNotFound
		}
		if err := fn(o); err != nil {
			return err
		}
		o.RecalcularSaldo()
		return backend("guardar orden", s.repo.Update(ctx, tx, o))
	})
	if txErr != nil && !errors.Is(txErr, errSinCambios) {
		return nil, txErr
	}
	return s.ObtenerPorID(ctx, actor, id)
}

var errSinCambios = errors.New("sin cambios")

func (s *ordenService) CambiarEstado(ctx context.Context, actor Actor, id uuid.UUID, estado string) (*dto.OrdenResponse, error) {
	if err := actor.exigir(model.CapCambiarEstado); err != nil {
		return nil, err
	}
	destino, err := model.ParseEstado(estado)
	if err != nil {
		return nil, &ValidationError{Fields: map[string]string{"estado": err.Error()}}
	}
	return s.mutar(ctx, actor, id, func(o *model.OrdenServicio) error {
		if o.Estado == destino {
			return errSinCambios
		}
		if !o.Estado.PuedeTransicionarA(destino) {
			return &TransitionError{Desde: o.Estado, Hacia: destino}
		}
		desde := o.Estado
		o.AplicarEstado(destino, s.now())
		log.Info().
			Str("numero_orden", o.NumeroOrden).
			Str("desde", string(desde)).
			Str("hacia", string(destino)).
			Msg("estado de orden actualizado")
		return nil
	})
}

func (s *ordenService) ActualizarCostos(ctx context.Context, actor Actor, id uuid.UUID, req dto.ActualizarCostosRequest) (*dto.OrdenResponse, error) {
	if err := actor.exigir(model.CapEditarCostos); err != nil {
		return nil, err
	}
	return s.mutar(ctx, actor, id, func(o *model.OrdenServicio) error {
		o.CostoDiagnostico = req.CostoDiagnostico
		o.CostoManoObra = req.CostoManoObra
		o.CostoRepuestos = req.CostoRepuestos
		o.CostoTotal = req.CostoTotal
		o.Anticipo = req.Anticipo
		return nil
	})
}

func (s *ordenService) ActualizarDiagnostico(ctx context.Context, actor Actor, id uuid.UUID, req dto.ActualizarDiagnosticoRequest) (*dto.OrdenResponse, error) {
	if err := actor.exigir(model.CapDiagnosticar); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Diagnostico) == "" {
		return nil, &ValidationError{Fields: map[string]string{"diagnostico": "es requerido"}}
	}
	return s.mutar(ctx, actor, id, func(o *model.OrdenServicio) error {
		diag := strings.TrimSpace(req.Diagnostico)
		o.Diagnostico = &diag
		if req.SolucionAplicada != nil {
			o.SolucionAplicada = req.SolucionAplicada
		}
		if req.RepuestosUsados != nil {
			o.RepuestosUsados = req.RepuestosUsados
		}
		if req.TiempoEstimadoHoras != nil {
			o.TiempoEstimadoHoras = req.TiempoEstimadoHoras
		}
		return nil
	})
}

func (s *ordenService) AsignarTecnico(ctx context.Context, actor Actor, id uuid.UUID, tecnicoID uuid.UUID) (*dto.OrdenResponse, error) {
	if err := actor.exigir(model.CapAsignarTecnico); err != nil {
		return nil, err
	}
	tecnico, err := s.usuarios.FindByID(ctx, tecnicoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &DependencyError{Entidad: "tecnico", Detalle: "no existe " + tecnicoID.String()}
		}
		return nil, backend("obtener tecnico", err)
	}
	if !tecnico.Activo {
		return nil, &DependencyError{Entidad: "tecnico", Detalle: "el usuario está inactivo"}
	}
	return s.mutar(ctx, actor, id, func(o *model.OrdenServicio) error {
		o.TecnicoAsignadoID = &tecnico.ID
		return nil
	})
}

func (s *ordenService) RegistrarFirmaEntrega(ctx context.Context, actor Actor, id uuid.UUID, dataURL string) (*dto.OrdenResponse, error) {
	if err := actor.exigir(model.CapCambiarEstado); err != nil {
		return nil, err
	}
	if _, err := firma.DecodificarDataURL(dataURL); err != nil {
		return nil, &ValidationError{Fields: map[string]string{"firma": err.Error()}}
	}
	return s.mutar(ctx, actor, id, func(o *model.OrdenServicio) error {
		o.FirmaEntrega = &dataURL
		return nil
	})
}

// ── Mapping ───────────────────────────────────────────────────────────────────

func ordenToResponse(o *model.OrdenServicio) *dto.OrdenResponse {
	siguientes := o.Estado.Siguientes()
	estados := make([]string, len(siguientes))
	for i, e := range siguientes {
		estados[i] = string(e)
	}
	resp := &dto.OrdenResponse{
		ID:                    o.ID.String(),
		NumeroOrden:           o.NumeroOrden,
		ClienteID:             o.ClienteID.String(),
		Marca:                 o.Marca,
		Modelo:                o.Modelo,
		IMEI:                  o.IMEI,
		ProblemaReportado:     o.ProblemaReportado,
		Checklist:             model.ChecklistDe(o),
		FotosRecepcion:        o.FotosRecepcion,
		Diagnostico:           o.Diagnostico,
		SolucionAplicada:      o.SolucionAplicada,
		RepuestosUsados:       o.RepuestosUsados,
		Estado:                string(o.Estado),
		EstadoEtiqueta:        o.Estado.Etiqueta(),
		EstadoBadge:           o.Estado.Badge(),
		SiguientesEstados:     estados,
		Prioridad:             o.Prioridad,
		FechaRecepcion:        o.FechaRecepcion,
		FechaDiagnostico:      o.FechaDiagnostico,
		FechaAprobacion:       o.FechaAprobacion,
		FechaInicioReparacion: o.FechaInicioReparacion,
		FechaFinalizacion:     o.FechaFinalizacion,
		FechaEntrega:          o.FechaEntrega,
		TiempoEstimadoHoras:   o.TiempoEstimadoHoras,
		CostoDiagnostico:      o.CostoDiagnostico,
		CostoManoObra:         o.CostoManoObra,
		CostoRepuestos:        o.CostoRepuestos,
		CostoTotal:            o.CostoTotal,
		Anticipo:              o.Anticipo,
		SaldoPendiente:        o.SaldoPendiente,
		TieneFirmaRecepcion:   o.FirmaRecepcion != nil && *o.FirmaRecepcion != "",
		TieneFirmaEntrega:     o.FirmaEntrega != nil && *o.FirmaEntrega != "",
		GarantiaDias:          o.GarantiaDias,
		FechaVenceGarantia:    o.FechaVenceGarantia,
		UbicacionFisica:       o.UbicacionFisica,
		NotasInternas:         o.NotasInternas,
		CreatedAt:             o.CreatedAt,
	}
	if o.TecnicoAsignadoID != nil {
		id := o.TecnicoAsignadoID.String()
		resp.TecnicoAsignadoID = &id
	}
	if o.Cliente != nil {
		resp.Cliente = clienteToResponse(o.Cliente)
	}
	return resp
}

func ordenToResumen(o *model.OrdenServicio) dto.OrdenResumen {
	r := dto.OrdenResumen{
		ID:             o.ID.String(),
		NumeroOrden:    o.NumeroOrden,
		Marca:          o.Marca,
		Modelo:         o.Modelo,
		Estado:         string(o.Estado),
		EstadoEtiqueta: o.Estado.Etiqueta(),
		EstadoBadge:    o.Estado.Badge(),
		SaldoPendiente: o.SaldoPendiente,
		FechaRecepcion: o.FechaRecepcion,
	}
	if o.Cliente != nil {
		r.ClienteNombre = o.Cliente.NombreCompleto
	}
	return r
}
