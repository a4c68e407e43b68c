package infra

// pdf.go — Service-order document (A4) rendered with go-pdf/fpdf.
// Layout runs top-down on a single cursor y:
//   - Business header and QR of the order number (top-right)
//   - Title block, client, device and reported problem
//   - Intake checklist in three columns
//   - Costs, with the pending balance in orange
//   - Terms and conditions, signatures, footer
//
// Core fonts only cover cp1252, so checkboxes print as [X] / [ ].

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"time"

	"taller/internal/firma"
	"taller/internal/formato"

	"github.com/go-pdf/fpdf"
	"github.com/rs/zerolog/log"
)

const (
	margenPDF = 20.0
	// Signature block needs ~35mm; past this the block moves to a new page.
	umbralFirmas = 240.0
)

// lienzoPDF wraps fpdf with cp1252 translation.
type lienzoPDF struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func nuevoLienzoPDF(ahora time.Time) *lienzoPDF {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(ahora)
	pdf.SetModificationDate(ahora)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(margenPDF, margenPDF, margenPDF)
	pdf.AddPage()
	return &lienzoPDF{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

func (l *lienzoPDF) fuente(estilo string, tam float64) {
	l.pdf.SetFont("Helvetica", estilo, tam)
}

func (l *lienzoPDF) texto(x, y float64, s string) {
	l.pdf.Text(x, y, l.tr(latin1(s)))
}

func (l *lienzoPDF) centrado(y float64, s string) {
	ancho, _ := l.pdf.GetPageSize()
	t := l.tr(latin1(s))
	l.pdf.Text(ancho/2-l.pdf.GetStringWidth(t)/2, y, t)
}

// lineas word-wraps s to width w with the current font.
func (l *lienzoPDF) lineas(s string, w float64) []string {
	return l.pdf.SplitText(latin1(s), w)
}

func (l *lienzoPDF) salida() ([]byte, int, error) {
	var buf bytes.Buffer
	paginas := l.pdf.PageCount()
	if err := l.pdf.Output(&buf); err != nil {
		return nil, 0, err
	}
	return buf.Bytes(), paginas, nil
}

// latin1 replaces runes the core fonts cannot print. Emoji and the like
// would otherwise index past the 256-entry width table.
func latin1(s string) string {
	out := []rune(s)
	for i, r := range out {
		if r > 0xff {
			out[i] = '?'
		}
	}
	return string(out)
}

// GenerarOrdenServicioPDF renders the service-order document. Identical input
// and opts.Ahora produce identical bytes. A signature that cannot be decoded
// is reported in Resultado.Advertencias and left out.
func GenerarOrdenServicioPDF(doc DocumentoOrden, opts OpcionesPDF) (*Resultado, error) {
	ahora := opts.ahora()
	l := nuevoLienzoPDF(ahora)
	pdf := l.pdf
	res := &Resultado{}

	anchoPagina, altoPagina := pdf.GetPageSize()
	anchoContenido := anchoPagina - 2*margenPDF
	mitad := anchoPagina / 2
	y := margenPDF

	// ── Header ───────────────────────────────────────────────────────────────
	l.fuente("B", 20)
	l.texto(margenPDF, y, doc.Negocio.Nombre)
	y += 8

	l.fuente("", 9)
	l.texto(margenPDF, y, doc.Negocio.Direccion)
	y += 5
	l.texto(margenPDF, y, fmt.Sprintf("Tel: %s | Email: %s", doc.Negocio.Telefono, doc.Negocio.Email))
	y += 5
	l.texto(margenPDF, y, "RFC: "+doc.Negocio.RFC)
	y += 10

	pdf.SetLineWidth(0.5)
	pdf.Line(margenPDF, y, anchoPagina-margenPDF, y)
	y += 10

	// ── QR ───────────────────────────────────────────────────────────────────
	qr, err := GenerarQR(doc.NumeroOrden)
	if err != nil {
		return nil, fmt.Errorf("pdf: %w", err)
	}
	pdf.RegisterImageOptionsReader("qr", fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qr))
	pdf.ImageOptions("qr", anchoPagina-50, 15, 30, 30, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	// ── Title ────────────────────────────────────────────────────────────────
	l.fuente("B", 16)
	l.texto(margenPDF, y, "ORDEN DE SERVICIO")
	y += 10

	l.fuente("", 10)
	l.texto(margenPDF, y, "Número: "+doc.NumeroOrden)
	l.texto(mitad, y, "Fecha: "+formato.Fecha(doc.FechaRecepcion))
	y += 10

	// ── Client ───────────────────────────────────────────────────────────────
	y = l.seccion(y, "DATOS DEL CLIENTE")
	l.texto(margenPDF, y, "Nombre: "+doc.Cliente.NombreCompleto)
	y += 5
	l.texto(margenPDF, y, "Teléfono: "+doc.Cliente.Telefono)
	if doc.Cliente.Email != "" {
		l.texto(mitad, y, "Email: "+doc.Cliente.Email)
	}
	y += 5
	if doc.Cliente.Identificacion != "" {
		l.texto(margenPDF, y, "Identificación: "+doc.Cliente.Identificacion)
		y += 5
	}
	if doc.Cliente.Direccion != "" {
		l.texto(margenPDF, y, "Dirección: "+doc.Cliente.Direccion)
		y += 5
	}
	y += 5

	// ── Device ───────────────────────────────────────────────────────────────
	y = l.seccion(y, "DATOS DEL EQUIPO")
	l.texto(margenPDF, y, "Marca: "+doc.Equipo.Marca)
	l.texto(mitad, y, "Modelo: "+doc.Equipo.Modelo)
	y += 5
	if doc.Equipo.IMEI != "" {
		l.texto(margenPDF, y, "IMEI: "+doc.Equipo.IMEI)
		y += 5
	}
	if doc.Equipo.PatronBloqueo != "" {
		l.texto(margenPDF, y, "Patrón/PIN: "+doc.Equipo.PatronBloqueo)
		y += 5
	}
	if doc.UbicacionFisica != "" {
		l.texto(margenPDF, y, "Ubicación: "+doc.UbicacionFisica)
		y += 5
	}
	y += 5

	// ── Reported problem ─────────────────────────────────────────────────────
	y = l.seccion(y, "PROBLEMA REPORTADO")
	problema := l.lineas(doc.ProblemaReportado, anchoContenido)
	for i, linea := range problema {
		l.texto(margenPDF, y+float64(i)*5, linea)
	}
	y += float64(len(problema))*5 + 5

	// ── Checklist ────────────────────────────────────────────────────────────
	y = l.seccion(y, "ESTADO DEL EQUIPO AL RECIBIR")
	l.fuente("", 9)
	col := 0
	anchoColumna := anchoContenido / 3
	for _, item := range doc.Checklist.Items() {
		glifo := "[ ]"
		if item.Valor {
			glifo = "[X]"
		}
		l.texto(margenPDF+float64(col)*anchoColumna, y, glifo+" "+item.Etiqueta)
		col++
		if col >= 3 {
			col = 0
			y += 5
		}
	}
	if col != 0 {
		y += 5
	}
	y += 5

	// ── Costs ────────────────────────────────────────────────────────────────
	y = l.seccion(y, "COSTOS")
	l.texto(margenPDF, y, "Diagnóstico: $"+formato.Monto(doc.Costos.Diagnostico))
	y += 5
	l.texto(margenPDF, y, "Mano de Obra: $"+formato.Monto(doc.Costos.ManoObra))
	y += 5
	l.texto(margenPDF, y, "Repuestos: $"+formato.Monto(doc.Costos.Repuestos))
	y += 5

	l.fuente("B", 10)
	l.texto(margenPDF, y, "TOTAL: $"+formato.Monto(doc.Costos.Total))
	y += 5
	l.fuente("", 10)
	l.texto(margenPDF, y, "Anticipo: $"+formato.Monto(doc.Costos.Anticipo))
	y += 5
	l.fuente("B", 10)
	pdf.SetTextColor(255, 100, 0)
	l.texto(margenPDF, y, "SALDO PENDIENTE: $"+formato.Monto(doc.Costos.SaldoPendiente))
	pdf.SetTextColor(0, 0, 0)
	y += 10

	// ── Terms ────────────────────────────────────────────────────────────────
	l.fuente("B", 8)
	l.texto(margenPDF, y, "TÉRMINOS Y CONDICIONES:")
	y += 4

	l.fuente("", 8)
	for _, termino := range Terminos(doc.GarantiaDias) {
		for _, linea := range l.lineas(termino, anchoContenido) {
			l.texto(margenPDF, y, linea)
			y += 3.5
		}
	}
	y += 5

	// ── Signatures ───────────────────────────────────────────────────────────
	if y > umbralFirmas {
		pdf.AddPage()
		y = margenPDF
	}

	l.fuente("B", 10)
	l.texto(margenPDF, y, "FIRMA DEL CLIENTE")
	y += 3
	pdf.SetLineWidth(0.3)
	pdf.Line(margenPDF, y, margenPDF+60, y)

	if doc.FirmaRecepcion != "" {
		if aviso := l.incrustarFirma(doc.FirmaRecepcion, margenPDF, y-20); aviso != nil {
			log.Warn().Str("numero_orden", doc.NumeroOrden).Str("detalle", aviso.Detalle).
				Msg("pdf: firma omitida")
			res.Advertencias = append(res.Advertencias, *aviso)
		}
	}

	firmaX := anchoPagina - margenPDF - 60
	l.texto(firmaX, y-3, "FIRMA DEL TÉCNICO")
	pdf.Line(firmaX, y, firmaX+60, y)

	y += 5
	l.fuente("", 8)
	l.texto(margenPDF, y, "Acepto los términos y condiciones")

	// ── Footer ───────────────────────────────────────────────────────────────
	l.fuente("", 7)
	pdf.SetTextColor(100, 100, 100)
	l.centrado(altoPagina-10, fmt.Sprintf("Documento generado el %s - %s", formato.FechaHora(ahora), doc.NumeroOrden))
	pdf.SetTextColor(0, 0, 0)

	out, paginas, err := l.salida()
	if err != nil {
		return nil, fmt.Errorf("pdf: output: %w", err)
	}
	res.PDF = out
	res.Paginas = paginas
	return res, nil
}

// seccion prints a bold 12pt heading and leaves the font at 10pt regular.
func (l *lienzoPDF) seccion(y float64, titulo string) float64 {
	l.fuente("B", 12)
	l.texto(margenPDF, y, titulo)
	l.fuente("", 10)
	return y + 7
}

// incrustarFirma places the signature in a 60x20mm box. The image is decoded
// and re-encoded first so fpdf never sees bytes it would reject, which would
// poison the whole document.
func (l *lienzoPDF) incrustarFirma(dataURL string, x, y float64) *RenderWarning {
	raw, err := firma.DecodificarDataURL(dataURL)
	if err != nil {
		return &RenderWarning{Seccion: "firma", Detalle: err.Error()}
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return &RenderWarning{Seccion: "firma", Detalle: "imagen no decodificable: " + err.Error()}
	}
	nrgba := image.NewNRGBA(img.Bounds())
	draw.Draw(nrgba, nrgba.Bounds(), img, img.Bounds().Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, nrgba); err != nil {
		return &RenderWarning{Seccion: "firma", Detalle: err.Error()}
	}
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	l.pdf.RegisterImageOptionsReader("firma", opts, &buf)
	if !l.pdf.Ok() {
		detalle := l.pdf.Error().Error()
		l.pdf.ClearError()
		return &RenderWarning{Seccion: "firma", Detalle: detalle}
	}
	l.pdf.ImageOptions("firma", x, y, 60, 20, false, opts, 0, "")
	return nil
}

// Terminos returns the eight numbered clauses printed on every order.
func Terminos(garantiaDias int) []string {
	return []string{
		fmt.Sprintf("1. Garantía de %d días a partir de la fecha de entrega del equipo.", garantiaDias),
		"2. La garantía cubre únicamente la reparación realizada, no cubre daños por mal uso.",
		"3. El equipo debe recogerse dentro de 30 días. Después se cobrará almacenaje.",
		"4. No nos hacemos responsables por pérdida de información o datos del equipo.",
		"5. El cliente autoriza la revisión completa del equipo para diagnóstico.",
		"6. Los equipos no reclamados en 90 días pasan a propiedad del taller.",
		"7. El presupuesto tiene validez de 15 días.",
		"8. Si el equipo no es reparable, se cobra el diagnóstico.",
	}
}
