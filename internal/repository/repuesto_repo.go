package repository

import (
	"context"

	"taller/internal/model"

	"gorm.io/gorm"
)

// RepuestoRepository reads the spare-parts inventory. Stock movements are
// managed outside this service.
type RepuestoRepository interface {
	ListStockBajo(ctx context.Context) ([]model.Repuesto, error)
	CountStockBajo(ctx context.Context) (int64, error)
}

type repuestoRepo struct{ db *gorm.DB }

func NewRepuestoRepository(db *gorm.DB) RepuestoRepository { return &repuestoRepo{db: db} }

const condStockBajo = "activo = true AND cantidad_actual <= cantidad_minima"

func (r *repuestoRepo) ListStockBajo(ctx context.Context) ([]model.Repuesto, error) {
	var repuestos []model.Repuesto
	err := r.db.WithContext(ctx).Where(condStockBajo).
		Order("cantidad_actual ASC, nombre ASC").
		Find(&repuestos).Error
	return repuestos, err
}

func (r *repuestoRepo) CountStockBajo(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Repuesto{}).Where(condStockBajo).Count(&n).Error
	return n, err
}
