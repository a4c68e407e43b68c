package dto

import "taller/internal/firma"

type EnviarPDFRequest struct {
	// Email overrides the client's stored address.
	Email *string `json:"email" validate:"omitempty,email"`
}

type EnviarPDFResponse struct {
	Encolado     bool   `json:"encolado"`
	Destinatario string `json:"destinatario"`
}

type FirmaRequest struct {
	Ancho  int           `json:"ancho"  validate:"omitempty,min=50,max=2000"`
	Alto   int           `json:"alto"   validate:"omitempty,min=20,max=1000"`
	Trazos []firma.Trazo `json:"trazos"`
}

// FirmaResponse carries null when nothing was drawn.
type FirmaResponse struct {
	DataURL *string `json:"data_url"`
}
