package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChecklist_Toggle(t *testing.T) {
	var c Checklist
	require.NoError(t, c.Toggle("pantalla_rota"))
	assert.True(t, c.PantallaRota)
	require.NoError(t, c.Toggle("pantalla_rota"))
	assert.False(t, c.PantallaRota)

	assert.Error(t, c.Toggle("antena"))
}

func TestChecklist_FlagsIndependientes(t *testing.T) {
	c := Checklist{TieneBateria: true, PantallaRota: true, BotonesFuncionan: true}
	items := c.Items()
	require.Len(t, items, 9)

	marcados := 0
	for _, it := range items {
		if it.Valor {
			marcados++
		}
	}
	assert.Equal(t, 3, marcados)
	assert.Equal(t, "Batería", items[0].Etiqueta)
}

func TestChecklist_AplicarYLeer(t *testing.T) {
	c := Checklist{TieneSIM: true, TieneHumedad: true, TieneFunda: true}
	var o OrdenServicio
	c.AplicarA(&o)
	assert.True(t, o.TieneSIM)
	assert.Equal(t, c, ChecklistDe(&o))
}
