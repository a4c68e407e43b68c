package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"taller/internal/config"
	"taller/internal/dto"
	"taller/internal/model"
	"taller/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	tokenAcceso  = "access"
	tokenRefresh = "refresh"
)

// Claims are the custom claims embedded in every token.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Rol    string `json:"rol"`
	Tipo   string `json:"tipo"`
	jwt.RegisteredClaims
}

// Actor builds the operation actor from validated claims.
func (c *Claims) Actor() (Actor, error) {
	id, err := uuid.Parse(c.UserID)
	if err != nil {
		return Actor{}, fmt.Errorf("token mal formado: %w", err)
	}
	return NuevoActor(id, c.Rol), nil
}

// Denylist stores revoked token IDs until they would have expired anyway.
type Denylist interface {
	Revocar(ctx context.Context, jti string, ttl time.Duration) error
	Revocado(ctx context.Context, jti string) (bool, error)
}

// EventoAuth names a session state change.
type EventoAuth string

const (
	EventoSignedIn  EventoAuth = "SIGNED_IN"
	EventoSignedOut EventoAuth = "SIGNED_OUT"
)

// CambioSesion is delivered to OnAuthStateChange subscribers.
type CambioSesion struct {
	Evento    EventoAuth
	UsuarioID uuid.UUID
}

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	// Logout revokes the token until its natural expiry.
	Logout(ctx context.Context, token string) error
	SesionActual(ctx context.Context, token string) (*dto.SesionResponse, error)
	// ValidarToken parses an access token and rejects revoked ones.
	ValidarToken(ctx context.Context, token string) (*Claims, error)
	// OnAuthStateChange registers cb for sign-in and sign-out events. The
	// returned func removes the subscription.
	OnAuthStateChange(cb func(CambioSesion)) func()

	CrearUsuario(ctx context.Context, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error)
	ListarUsuarios(ctx context.Context) ([]dto.UsuarioResponse, error)
}

type authService struct {
	repo     repository.UsuarioRepository
	cfg      *config.Config
	denylist Denylist
	now      func() time.Time

	mu           sync.Mutex
	nextSub      int
	suscriptores map[int]func(CambioSesion)
}

func NewAuthService(repo repository.UsuarioRepository, cfg *config.Config, denylist Denylist) AuthService {
	return &authService{
		repo:         repo,
		cfg:          cfg,
		denylist:     denylist,
		now:          time.Now,
		suscriptores: make(map[int]func(CambioSesion)),
	}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, backend("login", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	resp, err := s.emitir(user)
	if err != nil {
		return nil, err
	}
	s.notificar(CambioSesion{Evento: EventoSignedIn, UsuarioID: user.ID})
	return resp, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	claims, err := s.parse(ctx, refreshToken, tokenRefresh)
	if err != nil {
		return nil, err
	}
	uid, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	user, err := s.repo.FindByID(ctx, uid)
	if err != nil || !user.Activo {
		return nil, ErrInvalidCredentials
	}
	// The old refresh token cannot be replayed.
	if err := s.revocar(ctx, claims); err != nil {
		return nil, err
	}
	return s.emitir(user)
}

func (s *authService) Logout(ctx context.Context, token string) error {
	claims, err := s.parse(ctx, token, tokenAcceso)
	if err != nil {
		return err
	}
	if err := s.revocar(ctx, claims); err != nil {
		return err
	}
	if uid, err := uuid.Parse(claims.UserID); err == nil {
		s.notificar(CambioSesion{Evento: EventoSignedOut, UsuarioID: uid})
	}
	return nil
}

func (s *authService) SesionActual(ctx context.Context, token string) (*dto.SesionResponse, error) {
	claims, err := s.parse(ctx, token, tokenAcceso)
	if err != nil {
		return nil, err
	}
	uid, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	user, err := s.repo.FindByID(ctx, uid)
	if err != nil {
		return nil, storeErr("sesion", err)
	}
	return &dto.SesionResponse{User: usuarioToResponse(user), ExpiraEn: claims.ExpiresAt.Time}, nil
}

func (s *authService) ValidarToken(ctx context.Context, token string) (*Claims, error) {
	return s.parse(ctx, token, tokenAcceso)
}

func (s *authService) OnAuthStateChange(cb func(CambioSesion)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.suscriptores[id] = cb
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.suscriptores, id)
			s.mu.Unlock()
		})
	}
}

func (s *authService) notificar(ev CambioSesion) {
	s.mu.Lock()
	ids := make([]int, 0, len(s.suscriptores))
	for id := range s.suscriptores {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	cbs := make([]func(CambioSesion), len(ids))
	for i, id := range ids {
		cbs[i] = s.suscriptores[id]
	}
	s.mu.Unlock()

	for _, cb := range cbs {
		cb(ev)
	}
}

func (s *authService) CrearUsuario(ctx context.Context, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, err
	}
	user := &model.Usuario{
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		NombreCompleto: req.NombreCompleto,
		PasswordHash:   string(hash),
		Rol:            req.Rol,
		Telefono:       req.Telefono,
		Activo:         true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, backend("crear usuario", err)
	}
	resp := usuarioToResponse(user)
	return &resp, nil
}

func (s *authService) ListarUsuarios(ctx context.Context) ([]dto.UsuarioResponse, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, backend("listar usuarios", err)
	}
	resp := make([]dto.UsuarioResponse, len(users))
	for i := range users {
		resp[i] = usuarioToResponse(&users[i])
	}
	return resp, nil
}

func (s *authService) emitir(user *model.Usuario) (*dto.LoginResponse, error) {
	accessToken, err := s.generateToken(user, tokenAcceso, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.generateToken(user, tokenRefresh, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		User:         usuarioToResponse(user),
	}, nil
}

func (s *authService) generateToken(user *model.Usuario, tipo string, duration time.Duration) (string, error) {
	ahora := s.now()
	claims := Claims{
		UserID: user.ID.String(),
		Email:  user.Email,
		Rol:    user.Rol,
		Tipo:   tipo,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(ahora),
			ExpiresAt: jwt.NewNumericDate(ahora.Add(duration)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *authService) parse(ctx context.Context, raw, tipo string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid || claims.Tipo != tipo {
		return nil, ErrInvalidCredentials
	}
	if s.denylist != nil && claims.ID != "" {
		revocado, err := s.denylist.Revocado(ctx, claims.ID)
		if err != nil {
			return nil, backend("verificar token", err)
		}
		if revocado {
			return nil, ErrInvalidCredentials
		}
	}
	return claims, nil
}

func (s *authService) revocar(ctx context.Context, claims *Claims) error {
	if s.denylist == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	ttl := claims.ExpiresAt.Time.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.denylist.Revocar(ctx, claims.ID, ttl); err != nil {
		return backend("revocar token", err)
	}
	log.Debug().Str("jti", claims.ID).Dur("ttl", ttl).Msg("token revocado")
	return nil
}

func usuarioToResponse(u *model.Usuario) dto.UsuarioResponse {
	caps := model.CapacidadesDe(u.Rol)
	nombres := make([]string, 0, len(caps))
	for c := range caps {
		nombres = append(nombres, string(c))
	}
	sort.Strings(nombres)
	return dto.UsuarioResponse{
		ID:             u.ID.String(),
		Email:          u.Email,
		NombreCompleto: u.NombreCompleto,
		Rol:            u.Rol,
		Telefono:       u.Telefono,
		Activo:         u.Activo,
		Capacidades:    nombres,
	}
}
