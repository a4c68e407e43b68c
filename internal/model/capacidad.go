package model

// Capacidad is a single permission checked by services. Roles map to a fixed
// capability set; handlers never branch on the role string directly.
type Capacidad string

const (
	CapVerTodasOrdenes  Capacidad = "ver_todas_ordenes"
	CapCrearOrden       Capacidad = "crear_orden"
	CapCambiarEstado    Capacidad = "cambiar_estado"
	CapEditarCostos     Capacidad = "editar_costos"
	CapDiagnosticar     Capacidad = "diagnosticar"
	CapAsignarTecnico   Capacidad = "asignar_tecnico"
	CapGestionarCliente Capacidad = "gestionar_cliente"
	CapNotificarCliente Capacidad = "notificar_cliente"
	CapVerDashboard     Capacidad = "ver_dashboard"
	CapGestionarUsuario Capacidad = "gestionar_usuario"
)

// Capacidades is an immutable capability set.
type Capacidades map[Capacidad]struct{}

func nuevasCapacidades(caps ...Capacidad) Capacidades {
	set := make(Capacidades, len(caps))
	for _, c := range caps {
		set[c] = struct{}{}
	}
	return set
}

// Tiene reports whether the set grants capacidad.
func (c Capacidades) Tiene(capacidad Capacidad) bool {
	_, ok := c[capacidad]
	return ok
}

var capacidadesPorRol = map[string]Capacidades{
	RolAdmin: nuevasCapacidades(
		CapVerTodasOrdenes, CapCrearOrden, CapCambiarEstado, CapEditarCostos,
		CapDiagnosticar, CapAsignarTecnico, CapGestionarCliente, CapNotificarCliente,
		CapVerDashboard, CapGestionarUsuario,
	),
	RolRecepcionista: nuevasCapacidades(
		CapVerTodasOrdenes, CapCrearOrden, CapCambiarEstado, CapEditarCostos,
		CapAsignarTecnico, CapGestionarCliente, CapNotificarCliente, CapVerDashboard,
	),
	// Technicians only see orders assigned to them.
	RolTecnico: nuevasCapacidades(
		CapCambiarEstado, CapDiagnosticar, CapVerDashboard,
	),
}

// CapacidadesDe returns the capability set for a role. Unknown roles get none.
func CapacidadesDe(rol string) Capacidades {
	if caps, ok := capacidadesPorRol[rol]; ok {
		return caps
	}
	return Capacidades{}
}
