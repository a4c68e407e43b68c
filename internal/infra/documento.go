package infra

import (
	"fmt"
	"time"

	"taller/internal/model"

	"github.com/shopspring/decimal"
)

// Negocio is the shop identity printed on every document.
type Negocio struct {
	Nombre    string `yaml:"nombre" json:"nombre"`
	Direccion string `yaml:"direccion" json:"direccion"`
	Telefono  string `yaml:"telefono" json:"telefono"`
	Email     string `yaml:"email" json:"email"`
	RFC       string `yaml:"rfc" json:"rfc"`
}

type ClienteDocumento struct {
	NombreCompleto string `yaml:"nombre_completo" json:"nombre_completo"`
	Telefono       string `yaml:"telefono" json:"telefono"`
	Email          string `yaml:"email,omitempty" json:"email,omitempty"`
	Identificacion string `yaml:"identificacion,omitempty" json:"identificacion,omitempty"`
	Direccion      string `yaml:"direccion,omitempty" json:"direccion,omitempty"`
}

type EquipoDocumento struct {
	Marca         string `yaml:"marca" json:"marca"`
	Modelo        string `yaml:"modelo" json:"modelo"`
	IMEI          string `yaml:"imei,omitempty" json:"imei,omitempty"`
	PatronBloqueo string `yaml:"patron_bloqueo,omitempty" json:"patron_bloqueo,omitempty"`
}

type CostosDocumento struct {
	Diagnostico    decimal.Decimal `yaml:"costo_diagnostico" json:"costo_diagnostico"`
	ManoObra       decimal.Decimal `yaml:"costo_mano_obra" json:"costo_mano_obra"`
	Repuestos      decimal.Decimal `yaml:"costo_repuestos" json:"costo_repuestos"`
	Total          decimal.Decimal `yaml:"costo_total" json:"costo_total"`
	Anticipo       decimal.Decimal `yaml:"anticipo" json:"anticipo"`
	SaldoPendiente decimal.Decimal `yaml:"saldo_pendiente" json:"saldo_pendiente"`
}

// DocumentoOrden is the immutable snapshot both documents render from.
type DocumentoOrden struct {
	NumeroOrden       string           `yaml:"numero_orden" json:"numero_orden"`
	FechaRecepcion    time.Time        `yaml:"fecha_recepcion" json:"fecha_recepcion"`
	Cliente           ClienteDocumento `yaml:"cliente" json:"cliente"`
	Equipo            EquipoDocumento  `yaml:"equipo" json:"equipo"`
	ProblemaReportado string           `yaml:"problema_reportado" json:"problema_reportado"`
	Checklist         model.Checklist  `yaml:"checklist" json:"checklist"`
	Costos            CostosDocumento  `yaml:"costos" json:"costos"`
	GarantiaDias      int              `yaml:"garantia_dias" json:"garantia_dias"`
	// FirmaRecepcion is a PNG data URL; empty means no signature was captured.
	FirmaRecepcion  string  `yaml:"firma_recepcion,omitempty" json:"firma_recepcion,omitempty"`
	UbicacionFisica string  `yaml:"ubicacion_fisica,omitempty" json:"ubicacion_fisica,omitempty"`
	Negocio         Negocio `yaml:"negocio" json:"negocio"`
}

// NuevoDocumentoOrden builds the snapshot from a stored order. The client must
// be preloaded.
func NuevoDocumentoOrden(o *model.OrdenServicio, negocio Negocio) DocumentoOrden {
	doc := DocumentoOrden{
		NumeroOrden:    o.NumeroOrden,
		FechaRecepcion: o.FechaRecepcion,
		Equipo: EquipoDocumento{
			Marca:         o.Marca,
			Modelo:        o.Modelo,
			IMEI:          deref(o.IMEI),
			PatronBloqueo: deref(o.PatronBloqueo),
		},
		ProblemaReportado: o.ProblemaReportado,
		Checklist:         model.ChecklistDe(o),
		Costos: CostosDocumento{
			Diagnostico:    o.CostoDiagnostico,
			ManoObra:       o.CostoManoObra,
			Repuestos:      o.CostoRepuestos,
			Total:          o.CostoTotal,
			Anticipo:       o.Anticipo,
			SaldoPendiente: o.SaldoPendiente,
		},
		GarantiaDias:    o.GarantiaDias,
		FirmaRecepcion:  deref(o.FirmaRecepcion),
		UbicacionFisica: deref(o.UbicacionFisica),
		Negocio:         negocio,
	}
	if o.Cliente != nil {
		doc.Cliente = ClienteDocumento{
			NombreCompleto: o.Cliente.NombreCompleto,
			Telefono:       o.Cliente.Telefono,
			Email:          deref(o.Cliente.Email),
			Identificacion: deref(o.Cliente.Identificacion),
			Direccion:      deref(o.Cliente.Direccion),
		}
	}
	return doc
}

// RenderWarning is a non-fatal problem found while rendering. The document is
// still produced.
type RenderWarning struct {
	Seccion string
	Detalle string
}

func (w RenderWarning) String() string {
	return fmt.Sprintf("%s: %s", w.Seccion, w.Detalle)
}

// OpcionesPDF controls rendering. Ahora feeds the footer timestamp and the
// PDF metadata dates; zero means time.Now().
type OpcionesPDF struct {
	Ahora time.Time
}

func (o OpcionesPDF) ahora() time.Time {
	if o.Ahora.IsZero() {
		return time.Now()
	}
	return o.Ahora
}

// Resultado is a rendered document.
type Resultado struct {
	PDF          []byte
	Paginas      int
	Advertencias []RenderWarning
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
