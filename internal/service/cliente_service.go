package service

import (
	"context"
	"strings"

	"taller/internal/dto"
	"taller/internal/model"
	"taller/internal/repository"

	"github.com/google/uuid"
)

const (
	busquedaMinima     = 3
	busquedaResultados = 5
)

type ClienteService interface {
	// Buscar returns up to five clients whose phone contains the input.
	// Inputs shorter than three characters return nothing without querying.
	Buscar(ctx context.Context, telefonoParcial string) ([]dto.ClienteResponse, error)
	Crear(ctx context.Context, actor Actor, req dto.CrearClienteRequest) (*dto.ClienteResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error)
}

type clienteService struct {
	repo repository.ClienteRepository
}

func NewClienteService(repo repository.ClienteRepository) ClienteService {
	return &clienteService{repo: repo}
}

func (s *clienteService) Buscar(ctx context.Context, telefonoParcial string) ([]dto.ClienteResponse, error) {
	q := strings.TrimSpace(telefonoParcial)
	if len([]rune(q)) < busquedaMinima {
		return []dto.ClienteResponse{}, nil
	}
	clientes, err := s.repo.SearchByTelefono(ctx, q, busquedaResultados)
	if err != nil {
		return nil, backend("buscar clientes", err)
	}
	resp := make([]dto.ClienteResponse, len(clientes))
	for i := range clientes {
		resp[i] = *clienteToResponse(&clientes[i])
	}
	return resp, nil
}

func (s *clienteService) Crear(ctx context.Context, actor Actor, req dto.CrearClienteRequest) (*dto.ClienteResponse, error) {
	if err := actor.exigir(model.CapGestionarCliente); err != nil {
		return nil, err
	}
	c, err := nuevoCliente(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, nil, c); err != nil {
		return nil, backend("crear cliente", err)
	}
	return clienteToResponse(c), nil
}

func (s *clienteService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error) {
	c, err := s.repo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, storeErr("obtener cliente", err)
	}
	return clienteToResponse(c), nil
}

// nuevoCliente validates the request and builds the row to insert.
func nuevoCliente(req dto.CrearClienteRequest) (*model.Cliente, error) {
	fields := map[string]string{}
	requerido(fields, "nombre_completo", req.NombreCompleto)
	requerido(fields, "telefono", req.Telefono)
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}
	return &model.Cliente{
		NombreCompleto: strings.TrimSpace(req.NombreCompleto),
		Telefono:       strings.TrimSpace(req.Telefono),
		Email:          req.Email,
		Direccion:      req.Direccion,
		Identificacion: req.Identificacion,
		Notas:          req.Notas,
	}, nil
}

func clienteToResponse(c *model.Cliente) *dto.ClienteResponse {
	return &dto.ClienteResponse{
		ID:                  c.ID.String(),
		NombreCompleto:      c.NombreCompleto,
		Telefono:            c.Telefono,
		Email:               c.Email,
		Direccion:           c.Direccion,
		Identificacion:      c.Identificacion,
		Notas:               c.Notas,
		VecesServicio:       c.VecesServicio,
		FechaUltimoServicio: c.FechaUltimoServicio,
		CreatedAt:           c.CreatedAt,
	}
}
