package dto

import (
	"time"

	"taller/internal/whatsapp"
)

type WhatsAppRequest struct {
	Plantilla string         `json:"plantilla" validate:"required"`
	Extra     whatsapp.Extra `json:"extra"`
}

type WhatsAppResponse struct {
	Plantilla string `json:"plantilla"`
	Telefono  string `json:"telefono"`
	Mensaje   string `json:"mensaje"`
	Link      string `json:"link"`
}

type PlantillasResponse struct {
	Plantillas []string `json:"plantillas"`
}

type NotificacionResponse struct {
	ID             string    `json:"id"`
	Tipo           string    `json:"tipo"`
	Mensaje        string    `json:"mensaje"`
	Metodo         string    `json:"metodo"`
	Enviado        bool      `json:"enviado"`
	PlantillaUsada *string   `json:"plantilla_usada"`
	CreatedAt      time.Time `json:"created_at"`
}
