package model

import (
	"time"

	"github.com/google/uuid"
)

// Severidad orders alerts for colour only; nothing triages on it.
type Severidad string

const (
	SeveridadBaja    Severidad = "baja"
	SeveridadMedia   Severidad = "media"
	SeveridadAlta    Severidad = "alta"
	SeveridadCritica Severidad = "critica"
)

// Nivel returns the ordinal rank (baja=0 … critica=3), -1 if unknown.
func (s Severidad) Nivel() int {
	switch s {
	case SeveridadBaja:
		return 0
	case SeveridadMedia:
		return 1
	case SeveridadAlta:
		return 2
	case SeveridadCritica:
		return 3
	default:
		return -1
	}
}

// Color maps severity to the dashboard text colour class.
func (s Severidad) Color() string {
	switch s {
	case SeveridadBaja:
		return "text-blue-500"
	case SeveridadMedia:
		return "text-yellow-500"
	case SeveridadAlta:
		return "text-orange-500"
	case SeveridadCritica:
		return "text-red-500"
	default:
		return "text-gray-500"
	}
}

// Alerta is a system alert. They are created elsewhere; this service only
// reads them and marks them as read.
type Alerta struct {
	ID                   uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Tipo                 string     `gorm:"not null"`
	Severidad            Severidad  `gorm:"type:varchar(10);not null;default:'media'"`
	Titulo               string     `gorm:"not null"`
	Descripcion          string     `gorm:"not null"`
	EntidadID            *uuid.UUID `gorm:"type:uuid"`
	EntidadTipo          *string
	Leida                bool `gorm:"not null;default:false;index"`
	FechaLeida           *time.Time
	UsuarioResponsableID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt            time.Time
}

func (Alerta) TableName() string { return "alertas_sistema" }
