package infra

import (
	"fmt"
	"strings"

	"taller/internal/formato"
)

const (
	umbralLineaContrato = 270.0
	umbralFirmaContrato = 250.0
)

// GenerarContratoPDF renders the service contract: the legal text wrapped to
// page width, a page break whenever a line would start past the threshold,
// and the two signature lines.
func GenerarContratoPDF(doc DocumentoOrden, opts OpcionesPDF) (*Resultado, error) {
	l := nuevoLienzoPDF(opts.ahora())
	pdf := l.pdf

	anchoPagina, _ := pdf.GetPageSize()
	anchoContenido := anchoPagina - 2*margenPDF
	derecha := anchoPagina - margenPDF - 60
	y := margenPDF

	l.fuente("B", 16)
	l.centrado(y, "CONTRATO DE PRESTACIÓN DE SERVICIOS")
	y += 10

	l.fuente("", 10)
	for _, linea := range l.lineas(TextoContrato(doc), anchoContenido) {
		if y > umbralLineaContrato {
			pdf.AddPage()
			y = margenPDF
		}
		l.texto(margenPDF, y, linea)
		y += 5
	}
	y += 10

	if y > umbralFirmaContrato {
		pdf.AddPage()
		y = margenPDF
	}

	l.fuente("B", 10)
	l.texto(margenPDF, y, "_________________________")
	l.texto(derecha, y, "_________________________")
	y += 5
	l.texto(margenPDF, y, "EL CLIENTE")
	l.texto(derecha, y, "EL PRESTADOR")
	y += 3
	l.fuente("", 9)
	l.texto(margenPDF, y, doc.Cliente.NombreCompleto)
	l.texto(derecha, y, doc.Negocio.Nombre)

	out, paginas, err := l.salida()
	if err != nil {
		return nil, fmt.Errorf("contrato: output: %w", err)
	}
	return &Resultado{PDF: out, Paginas: paginas}, nil
}

// TextoContrato assembles the legal text with the order's data.
func TextoContrato(doc DocumentoOrden) string {
	equipo := doc.Equipo.Marca + " " + doc.Equipo.Modelo
	imei := ""
	if doc.Equipo.IMEI != "" {
		imei = ", IMEI: " + doc.Equipo.IMEI
	}
	c := doc.Costos

	var b strings.Builder
	fmt.Fprintf(&b, `CONTRATO DE PRESTACIÓN DE SERVICIOS DE REPARACIÓN que celebran por una parte %s,
representado en este acto por su representante legal, a quien en lo sucesivo se le denominará "EL PRESTADOR",
y por la otra parte %s, a quien en adelante se le denominará "EL CLIENTE",
al tenor de las siguientes declaraciones y cláusulas:

D E C L A R A C I O N E S

I. Declara "EL PRESTADOR":

a) Que es una empresa legalmente constituida conforme a las leyes mexicanas.
b) Que cuenta con la capacidad técnica y los recursos necesarios para prestar los servicios de reparación.
c) Que su domicilio se encuentra ubicado en: %s

II. Declara "EL CLIENTE":

a) Ser mayor de edad y contar con la capacidad legal para celebrar el presente contrato.
b) Que es propietario legítimo del equipo: %s%s
c) Que entrega el equipo en las condiciones descritas en la orden de servicio %s

`, doc.Negocio.Nombre, doc.Cliente.NombreCompleto, doc.Negocio.Direccion, equipo, imei, doc.NumeroOrden)

	fmt.Fprintf(&b, `C L Á U S U L A S

PRIMERA - OBJETO: "EL PRESTADOR" se obliga a diagnosticar y en su caso reparar el equipo del "CLIENTE",
consistente en un %s, por el problema reportado como: "%s"

SEGUNDA - PRECIO: El costo total del servicio será de $%s MXN,
desglosado de la siguiente manera:
- Diagnóstico: $%s
- Mano de obra: $%s
- Repuestos: $%s

"EL CLIENTE" ha cubierto un anticipo de $%s MXN,
quedando un saldo pendiente de $%s MXN,
el cual deberá ser liquidado al momento de la entrega del equipo.

TERCERA - GARANTÍA: "EL PRESTADOR" otorga una garantía de %d días naturales
sobre la reparación realizada, contados a partir de la fecha de entrega. La garantía cubre únicamente
la falla reparada y no cubre daños causados por mal uso, caídas, líquidos o manipulación por terceros.

`, equipo, doc.ProblemaReportado,
		formato.Monto(c.Total), formato.Monto(c.Diagnostico), formato.Monto(c.ManoObra), formato.Monto(c.Repuestos),
		formato.Monto(c.Anticipo), formato.Monto(c.SaldoPendiente), doc.GarantiaDias)

	b.WriteString(`CUARTA - PLAZO DE REPARACIÓN: "EL PRESTADOR" realizará sus mejores esfuerzos para completar
la reparación en el menor tiempo posible. El plazo estimado será comunicado una vez completado el diagnóstico.

QUINTA - RESPONSABILIDAD POR INFORMACIÓN: "EL PRESTADOR" no se hace responsable por la pérdida
de información, datos, archivos, fotos, contactos o cualquier contenido almacenado en el equipo.
"EL CLIENTE" reconoce que es su responsabilidad realizar respaldos de su información.

SEXTA - ABANDONO DEL EQUIPO: Si el equipo no es reclamado en un plazo de 30 días después de notificada
la reparación, se cobrará una cuota de almacenaje de $50 MXN diarios. Si el equipo no es reclamado
en 90 días, pasará a ser propiedad de "EL PRESTADOR".

SÉPTIMA - AUTORIZACIÓN DE REVISIÓN: "EL CLIENTE" autoriza expresamente a "EL PRESTADOR" para realizar
una revisión completa del equipo con fines de diagnóstico, lo cual puede incluir la apertura del mismo
y pruebas de sus componentes.

OCTAVA - EQUIPOS NO REPARABLES: En caso de que el equipo sea declarado como no reparable,
"EL CLIENTE" deberá cubrir únicamente el costo del diagnóstico.

NOVENA - JURISDICCIÓN: Para la interpretación y cumplimiento del presente contrato, las partes
se someten a la jurisdicción de los tribunales competentes, renunciando expresamente a cualquier
otro fuero que pudiere corresponderles por razón de su domicilio presente o futuro.

DÉCIMA - ACEPTACIÓN: Las partes manifiestan su conformidad con todas y cada una de las cláusulas
del presente contrato, firmando de conformidad.


`)
	fmt.Fprintf(&b, "Firmado en la ciudad de _______________ el día %s\n", formato.Fecha(doc.FechaRecepcion))
	return b.String()
}
