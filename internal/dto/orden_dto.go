package dto

import (
	"time"

	"taller/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CrearOrdenRequest takes either an existing cliente_id or a nuevo_cliente
// to create in the same transaction as the order.
type CrearOrdenRequest struct {
	ClienteID    *string              `json:"cliente_id"    validate:"omitempty,uuid"`
	NuevoCliente *CrearClienteRequest `json:"nuevo_cliente"`

	Marca             string  `json:"marca"              validate:"required,max=100"`
	Modelo            string  `json:"modelo"             validate:"required,max=100"`
	IMEI              *string `json:"imei"               validate:"omitempty,max=20"`
	PatronBloqueo     *string `json:"patron_bloqueo"`
	Contrasena        *string `json:"contrasena"`
	ProblemaReportado string  `json:"problema_reportado" validate:"required"`

	Checklist      model.Checklist `json:"checklist"`
	FotosRecepcion []string        `json:"fotos_recepcion"`

	CostoDiagnostico decimal.Decimal `json:"costo_diagnostico" validate:"min=0"`
	CostoManoObra    decimal.Decimal `json:"costo_mano_obra"   validate:"min=0"`
	CostoRepuestos   decimal.Decimal `json:"costo_repuestos"   validate:"min=0"`
	CostoTotal       decimal.Decimal `json:"costo_total"       validate:"min=0"`
	Anticipo         decimal.Decimal `json:"anticipo"          validate:"min=0"`

	Prioridad           string           `json:"prioridad"             validate:"omitempty,oneof=baja normal alta urgente"`
	TecnicoAsignadoID   *string          `json:"tecnico_asignado_id"   validate:"omitempty,uuid"`
	TiempoEstimadoHoras *decimal.Decimal `json:"tiempo_estimado_horas"`
	GarantiaDias        *int             `json:"garantia_dias"         validate:"omitempty,min=0,max=365"`
	UbicacionFisica     *string          `json:"ubicacion_fisica"`
	NotasInternas       *string          `json:"notas_internas"`

	// FirmaRecepcion is a PNG data URL; absent when the client did not sign.
	FirmaRecepcion *string `json:"firma_recepcion"`
}

// OrdenFilter drives list queries. TecnicoID is set by the service, never by
// the caller, to scope technicians to their own orders.
type OrdenFilter struct {
	Estado    string     `form:"estado"`
	Busqueda  string     `form:"q"`
	TecnicoID *uuid.UUID `form:"-"`
}

type CambiarEstadoRequest struct {
	Estado string `json:"estado" validate:"required"`
}

type ActualizarCostosRequest struct {
	CostoDiagnostico decimal.Decimal `json:"costo_diagnostico" validate:"min=0"`
	CostoManoObra    decimal.Decimal `json:"costo_mano_obra"   validate:"min=0"`
	CostoRepuestos   decimal.Decimal `json:"costo_repuestos"   validate:"min=0"`
	CostoTotal       decimal.Decimal `json:"costo_total"       validate:"min=0"`
	Anticipo         decimal.Decimal `json:"anticipo"          validate:"min=0"`
}

type ActualizarDiagnosticoRequest struct {
	Diagnostico         string                `json:"diagnostico"           validate:"required"`
	SolucionAplicada    *string               `json:"solucion_aplicada"`
	RepuestosUsados     []model.RepuestoUsado `json:"repuestos_usados"`
	TiempoEstimadoHoras *decimal.Decimal      `json:"tiempo_estimado_horas"`
}

type AsignarTecnicoRequest struct {
	TecnicoID string `json:"tecnico_id" validate:"required,uuid"`
}

type FirmaEntregaRequest struct {
	Firma string `json:"firma" validate:"required,startswith=data:image/png"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type OrdenResponse struct {
	ID          string           `json:"id"`
	NumeroOrden string           `json:"numero_orden"`
	ClienteID   string           `json:"cliente_id"`
	Cliente     *ClienteResponse `json:"cliente,omitempty"`

	Marca             string  `json:"marca"`
	Modelo            string  `json:"modelo"`
	IMEI              *string `json:"imei"`
	ProblemaReportado string  `json:"problema_reportado"`

	Checklist        model.Checklist       `json:"checklist"`
	FotosRecepcion   []string              `json:"fotos_recepcion"`
	Diagnostico      *string               `json:"diagnostico"`
	SolucionAplicada *string               `json:"solucion_aplicada"`
	RepuestosUsados  []model.RepuestoUsado `json:"repuestos_usados"`

	Estado            string   `json:"estado"`
	EstadoEtiqueta    string   `json:"estado_etiqueta"`
	EstadoBadge       string   `json:"estado_badge"`
	SiguientesEstados []string `json:"siguientes_estados"`
	TecnicoAsignadoID *string  `json:"tecnico_asignado_id"`
	Prioridad         string   `json:"prioridad"`

	FechaRecepcion        time.Time        `json:"fecha_recepcion"`
	FechaDiagnostico      *time.Time       `json:"fecha_diagnostico"`
	FechaAprobacion       *time.Time       `json:"fecha_aprobacion"`
	FechaInicioReparacion *time.Time       `json:"fecha_inicio_reparacion"`
	FechaFinalizacion     *time.Time       `json:"fecha_finalizacion"`
	FechaEntrega          *time.Time       `json:"fecha_entrega"`
	TiempoEstimadoHoras   *decimal.Decimal `json:"tiempo_estimado_horas"`

	CostoDiagnostico decimal.Decimal `json:"costo_diagnostico"`
	CostoManoObra    decimal.Decimal `json:"costo_mano_obra"`
	CostoRepuestos   decimal.Decimal `json:"costo_repuestos"`
	CostoTotal       decimal.Decimal `json:"costo_total"`
	Anticipo         decimal.Decimal `json:"anticipo"`
	SaldoPendiente   decimal.Decimal `json:"saldo_pendiente"`

	TieneFirmaRecepcion bool       `json:"tiene_firma_recepcion"`
	TieneFirmaEntrega   bool       `json:"tiene_firma_entrega"`
	GarantiaDias        int        `json:"garantia_dias"`
	FechaVenceGarantia  *time.Time `json:"fecha_vence_garantia"`
	UbicacionFisica     *string    `json:"ubicacion_fisica"`
	NotasInternas       *string    `json:"notas_internas"`
	CreatedAt           time.Time  `json:"created_at"`
}

// OrdenResumen is the compact row used by the dashboard.
type OrdenResumen struct {
	ID             string          `json:"id"`
	NumeroOrden    string          `json:"numero_orden"`
	ClienteNombre  string          `json:"cliente_nombre"`
	Marca          string          `json:"marca"`
	Modelo         string          `json:"modelo"`
	Estado         string          `json:"estado"`
	EstadoEtiqueta string          `json:"estado_etiqueta"`
	EstadoBadge    string          `json:"estado_badge"`
	SaldoPendiente decimal.Decimal `json:"saldo_pendiente"`
	FechaRecepcion time.Time       `json:"fecha_recepcion"`
}
