package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Prioridad: "baja" | "normal" | "alta" | "urgente"
const PrioridadNormal = "normal"

// RepuestoUsado is one line of the parts-used list stored as JSON on the order.
type RepuestoUsado struct {
	Codigo   string          `json:"codigo"`
	Nombre   string          `json:"nombre"`
	Cantidad int             `json:"cantidad"`
	Precio   decimal.Decimal `json:"precio"`
}

// OrdenServicio is a tracked repair job for one client's device.
// SaldoPendiente must equal CostoTotal - Anticipo whenever the row is written;
// callers run RecalcularSaldo before every save.
type OrdenServicio struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NumeroOrden string    `gorm:"uniqueIndex;not null"`
	ClienteID   uuid.UUID `gorm:"type:uuid;index;not null"`

	Marca         string  `gorm:"not null"`
	Modelo        string  `gorm:"not null"`
	IMEI          *string `gorm:"column:imei"`
	PatronBloqueo *string
	Contrasena    *string

	ProblemaReportado string `gorm:"not null"`

	// Intake checklist, flattened
	TieneBateria     bool `gorm:"not null;default:false"`
	TieneSIM         bool `gorm:"column:tiene_sim;not null;default:false"`
	TieneMemoria     bool `gorm:"not null;default:false"`
	TieneCargador    bool `gorm:"not null;default:false"`
	TieneFunda       bool `gorm:"not null;default:false"`
	PantallaRota     bool `gorm:"not null;default:false"`
	TieneGolpes      bool `gorm:"not null;default:false"`
	TieneHumedad     bool `gorm:"not null;default:false"`
	BotonesFuncionan bool `gorm:"not null;default:false"`

	FotosRecepcion   []string `gorm:"type:jsonb;serializer:json"`
	Diagnostico      *string
	SolucionAplicada *string
	RepuestosUsados  []RepuestoUsado `gorm:"type:jsonb;serializer:json"`

	Estado            EstadoOrden `gorm:"type:varchar(30);index;not null;default:'recibido'"`
	TecnicoAsignadoID *uuid.UUID  `gorm:"type:uuid;index"`
	Prioridad         string      `gorm:"type:varchar(20);not null;default:'normal'"`

	FechaRecepcion        time.Time `gorm:"not null"`
	FechaDiagnostico      *time.Time
	FechaAprobacion       *time.Time
	FechaInicioReparacion *time.Time
	FechaFinalizacion     *time.Time
	FechaEntrega          *time.Time
	TiempoEstimadoHoras   *decimal.Decimal `gorm:"type:decimal(6,2)"`

	CostoDiagnostico decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	CostoManoObra    decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	CostoRepuestos   decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	CostoTotal       decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Anticipo         decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	// SaldoPendiente is CostoTotal - Anticipo; may be negative.
	SaldoPendiente decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`

	// Signatures are PNG data URLs as produced by firma.Lienzo.
	FirmaRecepcion *string
	FirmaEntrega   *string

	GarantiaDias       int `gorm:"not null;default:30"`
	FechaVenceGarantia *time.Time

	RecepcionistaID *uuid.UUID `gorm:"type:uuid"`
	UbicacionFisica *string
	NotasInternas   *string

	CreatedAt time.Time
	UpdatedAt time.Time

	Cliente *Cliente `gorm:"foreignKey:ClienteID"`
}

func (OrdenServicio) TableName() string { return "ordenes_servicio" }

// SaldoPendiente derives the amount owed. No clamping: a deposit larger than
// the total yields a negative balance.
func SaldoPendiente(costoTotal, anticipo decimal.Decimal) decimal.Decimal {
	return costoTotal.Sub(anticipo)
}

// RecalcularSaldo re-derives SaldoPendiente from the stored cost fields.
func (o *OrdenServicio) RecalcularSaldo() {
	o.SaldoPendiente = SaldoPendiente(o.CostoTotal, o.Anticipo)
}

// AplicarEstado moves the order to destino and stamps the matching stage date.
// Legality is checked by the caller.
func (o *OrdenServicio) AplicarEstado(destino EstadoOrden, ahora time.Time) {
	o.Estado = destino
	t := ahora
	switch destino {
	case EstadoEnDiagnostico:
		o.FechaDiagnostico = &t
	case EstadoAprobado:
		o.FechaAprobacion = &t
	case EstadoEnReparacion:
		o.FechaInicioReparacion = &t
	case EstadoReparado:
		o.FechaFinalizacion = &t
	case EstadoEntregado:
		o.FechaEntrega = &t
		vence := t.AddDate(0, 0, o.GarantiaDias)
		o.FechaVenceGarantia = &vence
	}
}
