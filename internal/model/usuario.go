package model

import (
	"time"

	"github.com/google/uuid"
)

// Usuario stores staff accounts with role-based access.
// Rol: "admin" | "tecnico" | "recepcionista"
type Usuario struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email          string    `gorm:"uniqueIndex;not null"`
	NombreCompleto string    `gorm:"not null"`
	PasswordHash   string    `gorm:"not null"`
	Rol            string    `gorm:"type:varchar(20);not null"`
	Telefono       *string
	Activo         bool `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

const (
	RolAdmin         = "admin"
	RolTecnico       = "tecnico"
	RolRecepcionista = "recepcionista"
)
