package model

import (
	"time"

	"github.com/google/uuid"
)

// NotificacionCliente logs a composed customer message. Enviado stays false:
// the deep link only opens the messaging client, delivery is never confirmed.
type NotificacionCliente struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrdenID        uuid.UUID `gorm:"type:uuid;index;not null"`
	ClienteID      uuid.UUID `gorm:"type:uuid;not null"`
	Tipo           string    `gorm:"not null"`
	Mensaje        string    `gorm:"not null"`
	Enviado        bool      `gorm:"not null;default:false"`
	FechaEnvio     *time.Time
	Metodo         string `gorm:"not null;default:'whatsapp'"`
	PlantillaUsada *string
	CreatedAt      time.Time
}

func (NotificacionCliente) TableName() string { return "notificaciones_cliente" }
