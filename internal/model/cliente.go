package model

import (
	"time"

	"github.com/google/uuid"
)

// Cliente is a shop customer. Phone is the lookup key but is not unique.
// Rows are never deleted: orders keep a historical reference.
type Cliente struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NombreCompleto      string    `gorm:"not null"`
	Telefono            string    `gorm:"index;not null"`
	Email               *string
	Direccion           *string
	Identificacion      *string
	Notas               *string
	VecesServicio       int `gorm:"not null;default:0"`
	FechaUltimoServicio *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (Cliente) TableName() string { return "clientes" }
