package repository

import (
	"context"
	"time"

	"taller/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ClienteRepository is the client directory store. Clients are never deleted.
type ClienteRepository interface {
	Create(ctx context.Context, tx *gorm.DB, c *model.Cliente) error
	FindByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Cliente, error)
	// SearchByTelefono matches phone substrings case-insensitively.
	SearchByTelefono(ctx context.Context, parcial string, limit int) ([]model.Cliente, error)
	// RegistrarVisita bumps veces_servicio and returns the updated row.
	RegistrarVisita(ctx context.Context, tx *gorm.DB, id uuid.UUID, fecha time.Time) (*model.Cliente, error)
	CountCreatedSince(ctx context.Context, desde time.Time) (int64, error)
	DB() *gorm.DB
}

type clienteRepo struct{ db *gorm.DB }

func NewClienteRepository(db *gorm.DB) ClienteRepository { return &clienteRepo{db: db} }

func (r *clienteRepo) DB() *gorm.DB { return r.db }

// conn picks the transaction when one is open.
func (r *clienteRepo) conn(ctx context.Context, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx.WithContext(ctx)
	}
	return r.db.WithContext(ctx)
}

func (r *clienteRepo) Create(ctx context.Context, tx *gorm.DB, c *model.Cliente) error {
	return r.conn(ctx, tx).Create(c).Error
}

func (r *clienteRepo) FindByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Cliente, error) {
	var c model.Cliente
	err := r.conn(ctx, tx).First(&c, "id = ?", id).Error
	return &c, err
}

func (r *clienteRepo) SearchByTelefono(ctx context.Context, parcial string, limit int) ([]model.Cliente, error) {
	var clientes []model.Cliente
	err := r.db.WithContext(ctx).
		Where("telefono ILIKE ?", "%"+escapeLike(parcial)+"%").
		Order("nombre_completo ASC").
		Limit(limit).
		Find(&clientes).Error
	return clientes, err
}

func (r *clienteRepo) RegistrarVisita(ctx context.Context, tx *gorm.DB, id uuid.UUID, fecha time.Time) (*model.Cliente, error) {
	var c model.Cliente
	res := r.conn(ctx, tx).Model(&c).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"veces_servicio":        gorm.Expr("veces_servicio + 1"),
			"fecha_ultimo_servicio": fecha,
			"updated_at":            fecha,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (r *clienteRepo) CountCreatedSince(ctx context.Context, desde time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Cliente{}).Where("created_at >= ?", desde).Count(&n).Error
	return n, err
}
