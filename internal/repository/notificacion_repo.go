package repository

import (
	"context"

	"taller/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificacionRepository interface {
	Create(ctx context.Context, n *model.NotificacionCliente) error
	ListByOrden(ctx context.Context, ordenID uuid.UUID) ([]model.NotificacionCliente, error)
}

type notificacionRepo struct{ db *gorm.DB }

func NewNotificacionRepository(db *gorm.DB) NotificacionRepository {
	return &notificacionRepo{db: db}
}

func (r *notificacionRepo) Create(ctx context.Context, n *model.NotificacionCliente) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *notificacionRepo) ListByOrden(ctx context.Context, ordenID uuid.UUID) ([]model.NotificacionCliente, error) {
	var ns []model.NotificacionCliente
	err := r.db.WithContext(ctx).Where("orden_id = ?", ordenID).Order("created_at DESC").Find(&ns).Error
	return ns, err
}
