package dto

type RepuestoResponse struct {
	ID             string  `json:"id"`
	Codigo         string  `json:"codigo"`
	Nombre         string  `json:"nombre"`
	Categoria      *string `json:"categoria"`
	CantidadActual int     `json:"cantidad_actual"`
	CantidadMinima int     `json:"cantidad_minima"`
	Proveedor      *string `json:"proveedor"`
	Ubicacion      *string `json:"ubicacion"`
}
