package service

import (
	"context"
	"encoding/json"
	"time"

	"taller/internal/dto"
	"taller/internal/model"
	"taller/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	dashboardCachePrefix = "dashboard:"
	alertasDashboard     = 5
	ordenesDashboard     = 20
)

type DashboardService interface {
	Obtener(ctx context.Context, actor Actor) (*dto.DashboardResponse, error)
	ListarAlertas(ctx context.Context, actor Actor, filter dto.AlertaFilter) ([]dto.AlertaResponse, error)
	MarcarAlertaLeida(ctx context.Context, actor Actor, id uuid.UUID) error
	StockBajo(ctx context.Context, actor Actor) ([]dto.RepuestoResponse, error)
}

type dashboardService struct {
	ordenes   repository.OrdenRepository
	clientes  repository.ClienteRepository
	alertas   repository.AlertaRepository
	repuestos repository.RepuestoRepository
	rdb       *redis.Client
	cacheTTL  time.Duration
	now       func() time.Time
}

// NewDashboardService caches the dashboard in Redis for cacheTTL. A nil rdb
// or zero TTL disables the cache.
func NewDashboardService(
	ordenes repository.OrdenRepository,
	clientes repository.ClienteRepository,
	alertas repository.AlertaRepository,
	repuestos repository.RepuestoRepository,
	rdb *redis.Client,
	cacheTTL time.Duration,
) DashboardService {
	return &dashboardService{
		ordenes:   ordenes,
		clientes:  clientes,
		alertas:   alertas,
		repuestos: repuestos,
		rdb:       rdb,
		cacheTTL:  cacheTTL,
		now:       time.Now,
	}
}

func (s *dashboardService) Obtener(ctx context.Context, actor Actor) (*dto.DashboardResponse, error) {
	if err := actor.exigir(model.CapVerDashboard); err != nil {
		return nil, err
	}

	// Technicians get their own cached view since the order list is scoped.
	var tecnicoID *uuid.UUID
	cacheKey := dashboardCachePrefix + "all"
	if !actor.Puede(model.CapVerTodasOrdenes) {
		id := actor.UsuarioID
		tecnicoID = &id
		cacheKey = dashboardCachePrefix + id.String()
	}

	if s.cacheActivo() {
		if cached, err := s.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			var resp dto.DashboardResponse
			if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
				return &resp, nil
			}
		}
	}

	ahora := s.now()
	inicioDia := time.Date(ahora.Year(), ahora.Month(), ahora.Day(), 0, 0, 0, 0, ahora.Location())
	inicioMes := time.Date(ahora.Year(), ahora.Month(), 1, 0, 0, 0, 0, ahora.Location())

	st, err := s.ordenes.Estadisticas(ctx, inicioDia, inicioMes)
	if err != nil {
		return nil, backend("estadisticas", err)
	}
	noLeidas, err := s.alertas.CountNoLeidas(ctx)
	if err != nil {
		return nil, backend("contar alertas", err)
	}
	clientesNuevos, err := s.clientes.CountCreatedSince(ctx, inicioMes)
	if err != nil {
		return nil, backend("contar clientes", err)
	}
	stockBajo, err := s.repuestos.CountStockBajo(ctx)
	if err != nil {
		return nil, backend("contar repuestos", err)
	}
	activas, err := s.ordenes.ListActivas(ctx, tecnicoID, ordenesDashboard)
	if err != nil {
		return nil, backend("ordenes activas", err)
	}
	alertas, err := s.alertas.List(ctx, true, alertasDashboard)
	if err != nil {
		return nil, backend("listar alertas", err)
	}

	resp := &dto.DashboardResponse{
		Estadisticas: dto.EstadisticasResponse{
			OrdenesActivas:     st.Activas,
			OrdenesHoy:         st.Hoy,
			EntregadasMes:      st.EntregadasMes,
			PorCobrar:          st.PorCobrar,
			IngresosMes:        st.IngresosMes,
			AlertasNoLeidas:    noLeidas,
			ClientesNuevosMes:  clientesNuevos,
			RepuestosStockBajo: stockBajo,
		},
		OrdenesActivas: make([]dto.OrdenResumen, len(activas)),
		Alertas:        make([]dto.AlertaResponse, len(alertas)),
		GeneradoEn:     ahora,
	}
	for i := range activas {
		resp.OrdenesActivas[i] = ordenToResumen(&activas[i])
	}
	for i := range alertas {
		resp.Alertas[i] = alertaToResponse(&alertas[i])
	}

	// Populate cache: best effort, ignore errors
	if s.cacheActivo() {
		if b, jsonErr := json.Marshal(resp); jsonErr == nil {
			if err := s.rdb.Set(ctx, cacheKey, b, s.cacheTTL).Err(); err != nil {
				log.Debug().Err(err).Msg("dashboard: cache set failed")
			}
		}
	}
	return resp, nil
}

func (s *dashboardService) cacheActivo() bool {
	return s.rdb != nil && s.cacheTTL > 0
}

func (s *dashboardService) ListarAlertas(ctx context.Context, actor Actor, filter dto.AlertaFilter) ([]dto.AlertaResponse, error) {
	if err := actor.exigir(model.CapVerDashboard); err != nil {
		return nil, err
	}
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 50
	}
	alertas, err := s.alertas.List(ctx, filter.SoloNoLeidas, filter.Limit)
	if err != nil {
		return nil, backend("listar alertas", err)
	}
	resp := make([]dto.AlertaResponse, len(alertas))
	for i := range alertas {
		resp[i] = alertaToResponse(&alertas[i])
	}
	return resp, nil
}

func (s *dashboardService) MarcarAlertaLeida(ctx context.Context, actor Actor, id uuid.UUID) error {
	if err := actor.exigir(model.CapVerDashboard); err != nil {
		return err
	}
	if err := s.alertas.MarcarLeida(ctx, id, actor.UsuarioID, s.now()); err != nil {
		return storeErr("marcar alerta", err)
	}
	return nil
}

func (s *dashboardService) StockBajo(ctx context.Context, actor Actor) ([]dto.RepuestoResponse, error) {
	if err := actor.exigir(model.CapVerDashboard); err != nil {
		return nil, err
	}
	repuestos, err := s.repuestos.ListStockBajo(ctx)
	if err != nil {
		return nil, backend("inventario bajo", err)
	}
	resp := make([]dto.RepuestoResponse, len(repuestos))
	for i, r := range repuestos {
		resp[i] = dto.RepuestoResponse{
			ID:             r.ID.String(),
			Codigo:         r.Codigo,
			Nombre:         r.Nombre,
			Categoria:      r.Categoria,
			CantidadActual: r.CantidadActual,
			CantidadMinima: r.CantidadMinima,
			Proveedor:      r.Proveedor,
			Ubicacion:      r.Ubicacion,
		}
	}
	return resp, nil
}

func alertaToResponse(a *model.Alerta) dto.AlertaResponse {
	resp := dto.AlertaResponse{
		ID:          a.ID.String(),
		Tipo:        a.Tipo,
		Severidad:   string(a.Severidad),
		Color:       a.Severidad.Color(),
		Titulo:      a.Titulo,
		Descripcion: a.Descripcion,
		EntidadTipo: a.EntidadTipo,
		Leida:       a.Leida,
		FechaLeida:  a.FechaLeida,
		CreatedAt:   a.CreatedAt,
	}
	if a.EntidadID != nil {
		id := a.EntidadID.String()
		resp.EntidadID = &id
	}
	return resp
}
