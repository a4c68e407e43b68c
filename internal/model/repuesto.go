package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Repuesto is a spare part in the workshop inventory. Read-only here: the
// dashboard counts items at or under their minimum.
type Repuesto struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo           string    `gorm:"uniqueIndex;not null"`
	Nombre           string    `gorm:"index;not null"`
	Descripcion      *string
	Categoria        *string
	Marca            *string
	ModeloCompatible *string
	CantidadActual   int `gorm:"not null;default:0"`
	CantidadMinima   int `gorm:"not null;default:1"`
	Ubicacion        *string
	CostoCompra      *decimal.Decimal `gorm:"type:decimal(10,2)"`
	PrecioVenta      *decimal.Decimal `gorm:"type:decimal(10,2)"`
	Proveedor        *string
	Activo           bool `gorm:"not null;default:true"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (Repuesto) TableName() string { return "inventario_repuestos" }

// StockBajo reports whether the part is at or below its minimum.
func (r Repuesto) StockBajo() bool {
	return r.Activo && r.CantidadActual <= r.CantidadMinima
}
