package dto

import "time"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=4"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type CrearUsuarioRequest struct {
	Email          string  `json:"email"           validate:"required,email"`
	NombreCompleto string  `json:"nombre_completo" validate:"required,min=2,max=150"`
	Password       string  `json:"password"        validate:"required,min=8"`
	Rol            string  `json:"rol"             validate:"required,oneof=admin tecnico recepcionista"`
	Telefono       *string `json:"telefono"        validate:"omitempty,max=20"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UsuarioResponse struct {
	ID             string   `json:"id"`
	Email          string   `json:"email"`
	NombreCompleto string   `json:"nombre_completo"`
	Rol            string   `json:"rol"`
	Telefono       *string  `json:"telefono"`
	Activo         bool     `json:"activo"`
	Capacidades    []string `json:"capacidades"`
}

type LoginResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	TokenType    string          `json:"token_type"`
	ExpiresIn    int             `json:"expires_in"` // seconds
	User         UsuarioResponse `json:"user"`
}

// SesionResponse describes the session behind the presented access token.
type SesionResponse struct {
	User     UsuarioResponse `json:"user"`
	ExpiraEn time.Time       `json:"expira_en"`
}
