package repository

import (
	"context"
	"fmt"
	"time"

	"taller/internal/dto"
	"taller/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrdenRepository interface {
	Create(ctx context.Context, tx *gorm.DB, o *model.OrdenServicio) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.OrdenServicio, error)
	// FindByIDForUpdate locks the row (SELECT … FOR UPDATE) inside tx.
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.OrdenServicio, error)
	Update(ctx context.Context, tx *gorm.DB, o *model.OrdenServicio) error
	List(ctx context.Context, filter dto.OrdenFilter) ([]model.OrdenServicio, error)
	ListActivas(ctx context.Context, tecnicoID *uuid.UUID, limit int) ([]model.OrdenServicio, error)
	Estadisticas(ctx context.Context, inicioDia, inicioMes time.Time) (*EstadisticasOrdenes, error)
	// NextNumero draws the next order number from ordenes_numero_seq.
	NextNumero(ctx context.Context, tx *gorm.DB) (string, error)
	DB() *gorm.DB
}

type ordenRepo struct{ db *gorm.DB }

func NewOrdenRepository(db *gorm.DB) OrdenRepository { return &ordenRepo{db: db} }

func (r *ordenRepo) DB() *gorm.DB { return r.db }

func (r *ordenRepo) conn(ctx context.Context, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx.WithContext(ctx)
	}
	return r.db.WithContext(ctx)
}

func (r *ordenRepo) Create(ctx context.Context, tx *gorm.DB, o *model.OrdenServicio) error {
	// Cliente is already persisted; never upsert it through the association.
	return r.conn(ctx, tx).Omit(clause.Associations).Create(o).Error
}

func (r *ordenRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.OrdenServicio, error) {
	var o model.OrdenServicio
	err := r.db.WithContext(ctx).Preload("Cliente").First(&o, "id = ?", id).Error
	return &o, err
}

func (r *ordenRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.OrdenServicio, error) {
	var o model.OrdenServicio
	q := r.conn(ctx, tx)
	if tx != nil {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := q.First(&o, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *ordenRepo) Update(ctx context.Context, tx *gorm.DB, o *model.OrdenServicio) error {
	return r.conn(ctx, tx).Omit(clause.Associations).Save(o).Error
}

func (r *ordenRepo) List(ctx context.Context, filter dto.OrdenFilter) ([]model.OrdenServicio, error) {
	var ordenes []model.OrdenServicio

	q := r.db.WithContext(ctx).Joins("Cliente")

	if filter.Estado != "" && filter.Estado != "all" {
		q = q.Where("ordenes_servicio.estado = ?", filter.Estado)
	}
	if filter.TecnicoID != nil {
		q = q.Where("ordenes_servicio.tecnico_asignado_id = ?", *filter.TecnicoID)
	}
	if filter.Busqueda != "" {
		like := "%" + escapeLike(filter.Busqueda) + "%"
		q = q.Where(`ordenes_servicio.numero_orden ILIKE ?
			OR ordenes_servicio.marca ILIKE ?
			OR ordenes_servicio.modelo ILIKE ?
			OR "Cliente".nombre_completo ILIKE ?`, like, like, like, like)
	}

	err := q.Order("ordenes_servicio.created_at DESC").Find(&ordenes).Error
	return ordenes, err
}

func (r *ordenRepo) ListActivas(ctx context.Context, tecnicoID *uuid.UUID, limit int) ([]model.OrdenServicio, error) {
	var ordenes []model.OrdenServicio
	q := r.db.WithContext(ctx).Joins("Cliente").
		Where("ordenes_servicio.estado NOT IN ?", []model.EstadoOrden{model.EstadoEntregado, model.EstadoCancelado})
	if tecnicoID != nil {
		q = q.Where("ordenes_servicio.tecnico_asignado_id = ?", *tecnicoID)
	}
	err := q.Order("ordenes_servicio.created_at DESC").Limit(limit).Find(&ordenes).Error
	return ordenes, err
}

func (r *ordenRepo) NextNumero(ctx context.Context, tx *gorm.DB) (string, error) {
	var n int64
	if err := r.conn(ctx, tx).Raw("SELECT nextval('ordenes_numero_seq')").Scan(&n).Error; err != nil {
		return "", err
	}
	return FormatNumeroOrden(n), nil
}

// FormatNumeroOrden renders a sequence value as OS-000042.
func FormatNumeroOrden(n int64) string {
	return fmt.Sprintf("OS-%06d", n)
}

// EstadisticasOrdenes aggregates the order counters shown on the dashboard.
type EstadisticasOrdenes struct {
	Activas       int64
	Hoy           int64
	EntregadasMes int64
	PorCobrar     decimal.Decimal
	// IngresosMes sums the deposits of orders delivered this month.
	IngresosMes decimal.Decimal
}

func (r *ordenRepo) Estadisticas(ctx context.Context, inicioDia, inicioMes time.Time) (*EstadisticasOrdenes, error) {
	var st EstadisticasOrdenes
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) FILTER (WHERE estado NOT IN ('entregado', 'cancelado'))                        AS activas,
			COUNT(*) FILTER (WHERE fecha_recepcion >= @dia)                                          AS hoy,
			COUNT(*) FILTER (WHERE estado = 'entregado' AND fecha_entrega >= @mes)                   AS entregadas_mes,
			COALESCE(SUM(saldo_pendiente) FILTER (WHERE saldo_pendiente > 0), 0)                     AS por_cobrar,
			COALESCE(SUM(anticipo) FILTER (WHERE estado = 'entregado' AND fecha_entrega >= @mes), 0) AS ingresos_mes
		FROM ordenes_servicio`,
		map[string]interface{}{"dia": inicioDia, "mes": inicioMes},
	).Scan(&st).Error
	if err != nil {
		return nil, err
	}
	return &st, nil
}
