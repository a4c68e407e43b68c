package infra

import (
	"bytes"
	"image/png"
	"strings"
	"testing"
	"time"

	"taller/internal/firma"
	"taller/internal/model"

	"github.com/makiuchi-d/gozxing"
	zxqr "github.com/makiuchi-d/gozxing/qrcode"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ahoraFija = time.Date(2026, time.March, 5, 10, 30, 0, 0, time.UTC)

func documentoPrueba() DocumentoOrden {
	return DocumentoOrden{
		NumeroOrden:    "OS-000042",
		FechaRecepcion: ahoraFija,
		Cliente: ClienteDocumento{
			NombreCompleto: "Ana Ruiz",
			Telefono:       "5512345678",
		},
		Equipo:            EquipoDocumento{Marca: "Samsung", Modelo: "A52"},
		ProblemaReportado: "no enciende",
		Checklist:         model.Checklist{TieneBateria: true, PantallaRota: true},
		Costos: CostosDocumento{
			Total:          decimal.NewFromInt(800),
			Anticipo:       decimal.NewFromInt(300),
			SaldoPendiente: decimal.NewFromInt(500),
		},
		GarantiaDias: 30,
		Negocio: Negocio{
			Nombre:    "Taller Centro",
			Direccion: "Av. Juárez 10, Centro",
			Telefono:  "55 9876 5432",
			Email:     "contacto@tallercentro.mx",
			RFC:       "TCE010101AAA",
		},
	}
}

func TestGenerarOrdenServicioPDF_Deterministico(t *testing.T) {
	opts := OpcionesPDF{Ahora: ahoraFija}

	a, err := GenerarOrdenServicioPDF(documentoPrueba(), opts)
	require.NoError(t, err)
	b, err := GenerarOrdenServicioPDF(documentoPrueba(), opts)
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(a.PDF, []byte("%PDF-")))
	assert.True(t, bytes.Equal(a.PDF, b.PDF), "misma entrada y reloj deben producir los mismos bytes")
}

func TestGenerarOrdenServicioPDF_SinFirma(t *testing.T) {
	res, err := GenerarOrdenServicioPDF(documentoPrueba(), OpcionesPDF{Ahora: ahoraFija})
	require.NoError(t, err)

	assert.NotEmpty(t, res.PDF)
	assert.Empty(t, res.Advertencias)
	assert.Equal(t, 1, res.Paginas)
}

func TestGenerarOrdenServicioPDF_ConFirma(t *testing.T) {
	l := firma.NuevoLienzo(0, 0)
	l.Reproducir([]firma.Trazo{{{X: 20, Y: 150}, {X: 120, Y: 60}, {X: 300, Y: 140}}})
	url, err := l.DataURL()
	require.NoError(t, err)

	doc := documentoPrueba()
	doc.FirmaRecepcion = *url

	res, err := GenerarOrdenServicioPDF(doc, OpcionesPDF{Ahora: ahoraFija})
	require.NoError(t, err)
	assert.Empty(t, res.Advertencias)

	sinFirma, err := GenerarOrdenServicioPDF(documentoPrueba(), OpcionesPDF{Ahora: ahoraFija})
	require.NoError(t, err)
	assert.Greater(t, len(res.PDF), len(sinFirma.PDF))
}

func TestGenerarOrdenServicioPDF_FirmaMalformada(t *testing.T) {
	for _, firmaRota := range []string{
		"data:image/png;base64,bm8gZXMgdW4gcG5n",
		"data:image/png;base64,###",
		"https://example.com/firma.png",
	} {
		doc := documentoPrueba()
		doc.FirmaRecepcion = firmaRota

		res, err := GenerarOrdenServicioPDF(doc, OpcionesPDF{Ahora: ahoraFija})
		require.NoError(t, err, firmaRota)
		require.Len(t, res.Advertencias, 1, firmaRota)
		assert.Equal(t, "firma", res.Advertencias[0].Seccion)
		assert.True(t, bytes.HasPrefix(res.PDF, []byte("%PDF-")))
	}
}

func TestGenerarOrdenServicioPDF_SaltoDePaginaAntesDeFirmas(t *testing.T) {
	doc := documentoPrueba()
	doc.ProblemaReportado = strings.Repeat("la pantalla parpadea al cargar\n", 30)

	res, err := GenerarOrdenServicioPDF(doc, OpcionesPDF{Ahora: ahoraFija})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Paginas)
}

func TestLineas_AjustaSinPerderTexto(t *testing.T) {
	l := nuevoLienzoPDF(ahoraFija)
	l.fuente("", 10)

	problema := strings.TrimSpace(strings.Repeat("El equipo se apaga solo después de unos minutos de uso intenso ", 6))
	lineas := l.lineas(problema, 170)

	require.Greater(t, len(lineas), 1)
	assert.Equal(t, problema, strings.Join(lineas, " "))
	for _, linea := range lineas {
		assert.LessOrEqual(t, l.pdf.GetStringWidth(l.tr(linea)), 170.0)
	}
}

func TestGenerarQR_RoundTrip(t *testing.T) {
	raw, err := GenerarQR("OS-000042")
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	require.NoError(t, err)

	res, err := zxqr.NewQRCodeReader().Decode(bmp, nil)
	require.NoError(t, err)
	assert.Equal(t, "OS-000042", res.GetText())
}

func TestGenerarContratoPDF(t *testing.T) {
	doc := documentoPrueba()
	doc.Equipo.IMEI = "356938035643809"

	texto := TextoContrato(doc)
	assert.Contains(t, texto, "Samsung A52, IMEI: 356938035643809")
	assert.Contains(t, texto, "garantía de 30 días naturales")
	assert.Contains(t, texto, "saldo pendiente de $500 MXN")
	assert.Contains(t, texto, "el día 5/3/2026")

	a, err := GenerarContratoPDF(doc, OpcionesPDF{Ahora: ahoraFija})
	require.NoError(t, err)
	b, err := GenerarContratoPDF(doc, OpcionesPDF{Ahora: ahoraFija})
	require.NoError(t, err)
	assert.True(t, bytes.Equal(a.PDF, b.PDF))
	assert.GreaterOrEqual(t, a.Paginas, 2)
}

func TestTerminos(t *testing.T) {
	terminos := Terminos(45)
	require.Len(t, terminos, 8)
	assert.Equal(t, "1. Garantía de 45 días a partir de la fecha de entrega del equipo.", terminos[0])
}

func TestNuevoDocumentoOrden(t *testing.T) {
	imei := "123"
	email := "ana@example.com"
	o := &model.OrdenServicio{
		NumeroOrden:  "OS-000007",
		Marca:        "Apple",
		Modelo:       "iPhone 12",
		IMEI:         &imei,
		PantallaRota: true,
		CostoTotal:   decimal.NewFromInt(100),
		GarantiaDias: 60,
		Cliente:      &model.Cliente{NombreCompleto: "Ana Ruiz", Telefono: "5512345678", Email: &email},
	}

	doc := NuevoDocumentoOrden(o, Negocio{Nombre: "Taller"})
	assert.Equal(t, "OS-000007", doc.NumeroOrden)
	assert.Equal(t, "123", doc.Equipo.IMEI)
	assert.Equal(t, "ana@example.com", doc.Cliente.Email)
	assert.True(t, doc.Checklist.PantallaRota)
	assert.Equal(t, 60, doc.GarantiaDias)
	assert.Empty(t, doc.FirmaRecepcion)
}
