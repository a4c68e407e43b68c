package dto

import "time"

type CrearClienteRequest struct {
	NombreCompleto string  `json:"nombre_completo" validate:"required,min=2,max=200"`
	Telefono       string  `json:"telefono"        validate:"required,min=7,max=20"`
	Email          *string `json:"email"           validate:"omitempty,email"`
	Direccion      *string `json:"direccion"       validate:"omitempty,max=300"`
	Identificacion *string `json:"identificacion"  validate:"omitempty,max=50"`
	Notas          *string `json:"notas"`
}

type BuscarClientesQuery struct {
	Telefono string `form:"telefono"`
}

type ClienteResponse struct {
	ID                  string     `json:"id"`
	NombreCompleto      string     `json:"nombre_completo"`
	Telefono            string     `json:"telefono"`
	Email               *string    `json:"email"`
	Direccion           *string    `json:"direccion"`
	Identificacion      *string    `json:"identificacion"`
	Notas               *string    `json:"notas"`
	VecesServicio       int        `json:"veces_servicio"`
	FechaUltimoServicio *time.Time `json:"fecha_ultimo_servicio"`
	CreatedAt           time.Time  `json:"created_at"`
}
