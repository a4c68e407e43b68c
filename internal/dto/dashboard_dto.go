package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type EstadisticasResponse struct {
	OrdenesActivas     int64           `json:"ordenes_activas"`
	OrdenesHoy         int64           `json:"ordenes_hoy"`
	EntregadasMes      int64           `json:"entregadas_mes"`
	PorCobrar          decimal.Decimal `json:"por_cobrar"`
	IngresosMes        decimal.Decimal `json:"ingresos_mes"`
	AlertasNoLeidas    int64           `json:"alertas_no_leidas"`
	ClientesNuevosMes  int64           `json:"clientes_nuevos_mes"`
	RepuestosStockBajo int64           `json:"repuestos_stock_bajo"`
}

type AlertaResponse struct {
	ID          string     `json:"id"`
	Tipo        string     `json:"tipo"`
	Severidad   string     `json:"severidad"`
	Color       string     `json:"color"`
	Titulo      string     `json:"titulo"`
	Descripcion string     `json:"descripcion"`
	EntidadID   *string    `json:"entidad_id"`
	EntidadTipo *string    `json:"entidad_tipo"`
	Leida       bool       `json:"leida"`
	FechaLeida  *time.Time `json:"fecha_leida"`
	CreatedAt   time.Time  `json:"created_at"`
}

type AlertaFilter struct {
	SoloNoLeidas bool `form:"no_leidas"`
	Limit        int  `form:"limit"`
}

type DashboardResponse struct {
	Estadisticas   EstadisticasResponse `json:"estadisticas"`
	OrdenesActivas []OrdenResumen       `json:"ordenes_activas"`
	Alertas        []AlertaResponse     `json:"alertas"`
	GeneradoEn     time.Time            `json:"generado_en"`
}
