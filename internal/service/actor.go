package service

import (
	"taller/internal/model"

	"github.com/google/uuid"
)

// Actor is the authenticated user on whose behalf an operation runs.
type Actor struct {
	UsuarioID   uuid.UUID
	Rol         string
	Capacidades model.Capacidades
}

// NuevoActor derives the capability set from the role.
func NuevoActor(id uuid.UUID, rol string) Actor {
	return Actor{UsuarioID: id, Rol: rol, Capacidades: model.CapacidadesDe(rol)}
}

func (a Actor) Puede(c model.Capacidad) bool {
	return a.Capacidades.Tiene(c)
}

func (a Actor) exigir(c model.Capacidad) error {
	if !a.Puede(c) {
		return ErrForbidden
	}
	return nil
}

// puedeVer applies the visibility rule: without ver_todas_ordenes only
// orders assigned to the actor are visible.
func (a Actor) puedeVer(o *model.OrdenServicio) bool {
	if a.Puede(model.CapVerTodasOrdenes) {
		return true
	}
	return o.TecnicoAsignadoID != nil && *o.TecnicoAsignadoID == a.UsuarioID
}
