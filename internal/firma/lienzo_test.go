package firma

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportar_VacioDevuelveNil(t *testing.T) {
	l := NuevoLienzo(0, 0)

	img, err := l.Exportar()
	require.NoError(t, err)
	assert.Nil(t, img)

	url, err := l.DataURL()
	require.NoError(t, err)
	assert.Nil(t, url)
}

func TestExportar_PresionSinMovimientoNoDibuja(t *testing.T) {
	l := NuevoLienzo(0, 0)
	l.Presionar(10, 10)
	l.Soltar()
	assert.True(t, l.Vacio())
}

func TestExportar_MovimientoSinPresionIgnorado(t *testing.T) {
	l := NuevoLienzo(0, 0)
	l.Mover(10, 10)
	l.Mover(50, 50)
	assert.True(t, l.Vacio())
}

func TestExportar_DibujaTrazoNegro(t *testing.T) {
	l := NuevoLienzo(100, 50)
	l.Presionar(10, 25)
	l.Mover(50, 25)
	l.Mover(90, 25)
	l.Soltar()

	raw, err := l.Exportar()
	require.NoError(t, err)
	require.NotNil(t, raw)

	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 50, img.Bounds().Dy())

	r, g, b, _ := img.At(50, 25).RGBA()
	assert.Less(t, r+g+b, uint32(3*0x8000), "el trazo debe ser oscuro")

	r, g, b, _ = img.At(50, 5).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Equal(t, uint32(0xffff), g)
	assert.Equal(t, uint32(0xffff), b)
}

func TestLimpiar(t *testing.T) {
	l := NuevoLienzo(0, 0)
	l.Reproducir([]Trazo{{{X: 1, Y: 1}, {X: 20, Y: 20}}})
	require.False(t, l.Vacio())

	l.Limpiar()
	assert.True(t, l.Vacio())
}

func TestDataURL_RoundTrip(t *testing.T) {
	l := NuevoLienzo(0, 0)
	l.Reproducir([]Trazo{
		{{X: 10, Y: 10}, {X: 100, Y: 80}, {X: 200, Y: 40}},
		{{X: 300, Y: 150}, {X: 320, Y: 120}},
	})

	url, err := l.DataURL()
	require.NoError(t, err)
	require.NotNil(t, url)
	assert.True(t, strings.HasPrefix(*url, "data:image/png;base64,"))

	raw, err := DecodificarDataURL(*url)
	require.NoError(t, err)
	_, err = png.Decode(bytes.NewReader(raw))
	assert.NoError(t, err)
}

func TestDecodificarDataURL_Invalida(t *testing.T) {
	_, err := DecodificarDataURL("no-es-una-imagen")
	assert.ErrorIs(t, err, ErrDataURLInvalida)

	_, err = DecodificarDataURL("data:image/png;base64,%%%")
	assert.ErrorIs(t, err, ErrDataURLInvalida)
}
