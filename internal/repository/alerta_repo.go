package repository

import (
	"context"
	"time"

	"taller/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AlertaRepository interface {
	List(ctx context.Context, soloNoLeidas bool, limit int) ([]model.Alerta, error)
	CountNoLeidas(ctx context.Context) (int64, error)
	MarcarLeida(ctx context.Context, id uuid.UUID, usuarioID uuid.UUID, fecha time.Time) error
}

type alertaRepo struct{ db *gorm.DB }

func NewAlertaRepository(db *gorm.DB) AlertaRepository { return &alertaRepo{db: db} }

func (r *alertaRepo) List(ctx context.Context, soloNoLeidas bool, limit int) ([]model.Alerta, error) {
	var alertas []model.Alerta
	q := r.db.WithContext(ctx).Model(&model.Alerta{})
	if soloNoLeidas {
		q = q.Where("leida = false")
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Order("created_at DESC").Find(&alertas).Error
	return alertas, err
}

func (r *alertaRepo) CountNoLeidas(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Alerta{}).Where("leida = false").Count(&n).Error
	return n, err
}

func (r *alertaRepo) MarcarLeida(ctx context.Context, id uuid.UUID, usuarioID uuid.UUID, fecha time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.Alerta{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"leida":                  true,
			"fecha_leida":            fecha,
			"usuario_responsable_id": usuarioID,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
