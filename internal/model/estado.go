package model

import "fmt"

// EstadoOrden is the lifecycle state of a repair order.
type EstadoOrden string

const (
	EstadoRecibido            EstadoOrden = "recibido"
	EstadoEnDiagnostico       EstadoOrden = "en_diagnostico"
	EstadoEsperandoAprobacion EstadoOrden = "esperando_aprobacion"
	EstadoAprobado            EstadoOrden = "aprobado"
	EstadoEnReparacion        EstadoOrden = "en_reparacion"
	EstadoReparado            EstadoOrden = "reparado"
	EstadoEntregado           EstadoOrden = "entregado"
	EstadoCancelado           EstadoOrden = "cancelado"
	EstadoNoReparable         EstadoOrden = "no_reparable"
)

// Estados lists every state in lifecycle order.
var Estados = []EstadoOrden{
	EstadoRecibido,
	EstadoEnDiagnostico,
	EstadoEsperandoAprobacion,
	EstadoAprobado,
	EstadoEnReparacion,
	EstadoReparado,
	EstadoEntregado,
	EstadoCancelado,
	EstadoNoReparable,
}

// transiciones is the legal state graph. cancelado and no_reparable are
// reachable from every non-terminal state and are added in init.
var transiciones = map[EstadoOrden][]EstadoOrden{
	EstadoRecibido:            {EstadoEnDiagnostico},
	EstadoEnDiagnostico:       {EstadoEsperandoAprobacion, EstadoAprobado},
	EstadoEsperandoAprobacion: {EstadoAprobado},
	EstadoAprobado:            {EstadoEnReparacion},
	EstadoEnReparacion:        {EstadoReparado},
	EstadoReparado:            {EstadoEntregado},
}

func init() {
	for origen := range transiciones {
		transiciones[origen] = append(transiciones[origen], EstadoCancelado, EstadoNoReparable)
	}
}

// ParseEstado validates a raw state string.
func ParseEstado(s string) (EstadoOrden, error) {
	e := EstadoOrden(s)
	if !e.Valido() {
		return "", fmt.Errorf("estado desconocido: %q", s)
	}
	return e, nil
}

// Valido reports whether e is one of the known states.
func (e EstadoOrden) Valido() bool {
	for _, s := range Estados {
		if s == e {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions leave e.
func (e EstadoOrden) Terminal() bool {
	return e == EstadoEntregado || e == EstadoCancelado || e == EstadoNoReparable
}

// PuedeTransicionarA reports whether e -> destino is a legal move.
func (e EstadoOrden) PuedeTransicionarA(destino EstadoOrden) bool {
	for _, s := range transiciones[e] {
		if s == destino {
			return true
		}
	}
	return false
}

// Siguientes returns the states reachable from e in one step.
func (e EstadoOrden) Siguientes() []EstadoOrden {
	out := make([]EstadoOrden, len(transiciones[e]))
	copy(out, transiciones[e])
	return out
}

// Activo reports whether the order still counts as open work on the dashboard.
func (e EstadoOrden) Activo() bool {
	return e != EstadoEntregado && e != EstadoCancelado
}

// Badge maps the state to the CSS badge class used by the dashboard.
func (e EstadoOrden) Badge() string {
	switch e {
	case EstadoRecibido:
		return "badge-info"
	case EstadoEnDiagnostico, EstadoEsperandoAprobacion, EstadoEnReparacion:
		return "badge-warning"
	case EstadoAprobado, EstadoReparado:
		return "badge-success"
	case EstadoCancelado, EstadoNoReparable:
		return "badge-error"
	default:
		return "badge-gray"
	}
}

// Etiqueta is the human label shown to staff.
func (e EstadoOrden) Etiqueta() string {
	switch e {
	case EstadoRecibido:
		return "Recibido"
	case EstadoEnDiagnostico:
		return "En diagnóstico"
	case EstadoEsperandoAprobacion:
		return "Esperando aprobación"
	case EstadoAprobado:
		return "Aprobado"
	case EstadoEnReparacion:
		return "En reparación"
	case EstadoReparado:
		return "Reparado"
	case EstadoEntregado:
		return "Entregado"
	case EstadoCancelado:
		return "Cancelado"
	case EstadoNoReparable:
		return "No reparable"
	default:
		return string(e)
	}
}
