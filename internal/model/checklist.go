package model

import "fmt"

// Checklist records the device condition at drop-off. The nine flags are
// independent; nothing constrains one against another.
type Checklist struct {
	TieneBateria     bool `json:"tiene_bateria" yaml:"tiene_bateria"`
	TieneSIM         bool `json:"tiene_sim" yaml:"tiene_sim"`
	TieneMemoria     bool `json:"tiene_memoria" yaml:"tiene_memoria"`
	TieneCargador    bool `json:"tiene_cargador" yaml:"tiene_cargador"`
	TieneFunda       bool `json:"tiene_funda" yaml:"tiene_funda"`
	PantallaRota     bool `json:"pantalla_rota" yaml:"pantalla_rota"`
	TieneGolpes      bool `json:"tiene_golpes" yaml:"tiene_golpes"`
	TieneHumedad     bool `json:"tiene_humedad" yaml:"tiene_humedad"`
	BotonesFuncionan bool `json:"botones_funcionan" yaml:"botones_funcionan"`
}

// ChecklistItem is one labelled flag, in display order.
type ChecklistItem struct {
	Clave    string
	Etiqueta string
	Valor    bool
}

func (c *Checklist) campos() []struct {
	clave, etiqueta string
	valor           *bool
} {
	return []struct {
		clave, etiqueta string
		valor           *bool
	}{
		{"tiene_bateria", "Batería", &c.TieneBateria},
		{"tiene_sim", "SIM", &c.TieneSIM},
		{"tiene_memoria", "Memoria SD", &c.TieneMemoria},
		{"tiene_cargador", "Cargador", &c.TieneCargador},
		{"tiene_funda", "Funda", &c.TieneFunda},
		{"pantalla_rota", "Pantalla Rota", &c.PantallaRota},
		{"tiene_golpes", "Golpes", &c.TieneGolpes},
		{"tiene_humedad", "Humedad", &c.TieneHumedad},
		{"botones_funcionan", "Botones OK", &c.BotonesFuncionan},
	}
}

// Toggle flips the flag identified by clave.
func (c *Checklist) Toggle(clave string) error {
	for _, f := range c.campos() {
		if f.clave == clave {
			*f.valor = !*f.valor
			return nil
		}
	}
	return fmt.Errorf("checklist: clave desconocida %q", clave)
}

// Items returns the nine flags with their printable labels.
func (c Checklist) Items() []ChecklistItem {
	campos := c.campos()
	items := make([]ChecklistItem, len(campos))
	for i, f := range campos {
		items[i] = ChecklistItem{Clave: f.clave, Etiqueta: f.etiqueta, Valor: *f.valor}
	}
	return items
}

// AplicarA flattens the checklist onto the order columns.
func (c Checklist) AplicarA(o *OrdenServicio) {
	o.TieneBateria = c.TieneBateria
	o.TieneSIM = c.TieneSIM
	o.TieneMemoria = c.TieneMemoria
	o.TieneCargador = c.TieneCargador
	o.TieneFunda = c.TieneFunda
	o.PantallaRota = c.PantallaRota
	o.TieneGolpes = c.TieneGolpes
	o.TieneHumedad = c.TieneHumedad
	o.BotonesFuncionan = c.BotonesFuncionan
}

// ChecklistDe reads the flattened flags back from an order.
func ChecklistDe(o *OrdenServicio) Checklist {
	return Checklist{
		TieneBateria:     o.TieneBateria,
		TieneSIM:         o.TieneSIM,
		TieneMemoria:     o.TieneMemoria,
		TieneCargador:    o.TieneCargador,
		TieneFunda:       o.TieneFunda,
		PantallaRota:     o.PantallaRota,
		TieneGolpes:      o.TieneGolpes,
		TieneHumedad:     o.TieneHumedad,
		BotonesFuncionan: o.BotonesFuncionan,
	}
}
