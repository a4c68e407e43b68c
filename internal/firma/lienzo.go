// Package firma captures free-hand signatures as connected stroke segments
// and rasterises them to PNG.
package firma

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/fogleman/gg"
)

const (
	AnchoDefault = 600
	AltoDefault  = 200

	grosorTrazo = 2

	prefijoDataURL = "data:image/png;base64,"
)

// ErrDataURLInvalida is returned when a stored signature is not a PNG data URL.
var ErrDataURLInvalida = errors.New("firma: data URL inválida")

type Punto struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Trazo is the path followed from a press to its release.
type Trazo []Punto

// Lienzo is the drawing surface. Events must arrive in press, move*, release
// order; moves without a preceding press are ignored.
type Lienzo struct {
	mu         sync.Mutex
	ancho      int
	alto       int
	trazos     []Trazo
	actual     Trazo
	presionado bool
}

func NuevoLienzo(ancho, alto int) *Lienzo {
	if ancho <= 0 {
		ancho = AnchoDefault
	}
	if alto <= 0 {
		alto = AltoDefault
	}
	return &Lienzo{ancho: ancho, alto: alto}
}

func (l *Lienzo) Presionar(x, y float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cerrarTrazo()
	l.presionado = true
	l.actual = Trazo{{X: x, Y: y}}
}

func (l *Lienzo) Mover(x, y float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.presionado {
		return
	}
	l.actual = append(l.actual, Punto{X: x, Y: y})
}

func (l *Lienzo) Soltar() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cerrarTrazo()
}

// Limpiar resets the surface to blank.
func (l *Lienzo) Limpiar() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.trazos = nil
	l.actual = nil
	l.presionado = false
}

// Vacio reports whether no segment has been drawn. A press without movement
// leaves no ink.
func (l *Lienzo) Vacio() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.trazos) == 0 && len(l.actual) < 2
}

// Reproducir feeds recorded strokes through the surface as press/move/release.
func (l *Lienzo) Reproducir(trazos []Trazo) {
	for _, t := range trazos {
		if len(t) == 0 {
			continue
		}
		l.Presionar(t[0].X, t[0].Y)
		for _, p := range t[1:] {
			l.Mover(p.X, p.Y)
		}
		l.Soltar()
	}
}

// Exportar renders the surface as PNG. It returns nil, nil when nothing was
// drawn so callers can store the absence of a signature.
func (l *Lienzo) Exportar() ([]byte, error) {
	if l.Vacio() {
		return nil, nil
	}

	l.mu.Lock()
	trazos := append([]Trazo(nil), l.trazos...)
	if len(l.actual) >= 2 {
		trazos = append(trazos, l.actual)
	}
	ancho, alto := l.ancho, l.alto
	l.mu.Unlock()

	dc := gg.NewContext(ancho, alto)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(grosorTrazo)
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)
	for _, t := range trazos {
		if len(t) < 2 {
			continue
		}
		dc.MoveTo(t[0].X, t[0].Y)
		for _, p := range t[1:] {
			dc.LineTo(p.X, p.Y)
		}
		dc.Stroke()
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("firma: codificar png: %w", err)
	}
	return buf.Bytes(), nil
}

// DataURL returns the export as a data URL, or nil when the surface is empty.
func (l *Lienzo) DataURL() (*string, error) {
	png, err := l.Exportar()
	if err != nil || png == nil {
		return nil, err
	}
	s := prefijoDataURL + base64.StdEncoding.EncodeToString(png)
	return &s, nil
}

// DecodificarDataURL extracts the raw image bytes from a stored signature.
func DecodificarDataURL(dataURL string) ([]byte, error) {
	if !strings.HasPrefix(dataURL, prefijoDataURL) {
		return nil, ErrDataURLInvalida
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(dataURL, prefijoDataURL))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataURLInvalida, err)
	}
	return raw, nil
}

func (l *Lienzo) cerrarTrazo() {
	if l.presionado && len(l.actual) >= 2 {
		l.trazos = append(l.trazos, l.actual)
	}
	l.actual = nil
	l.presionado = false
}
