// Package whatsapp composes customer messages per order stage and builds
// wa.me deep links. Nothing here sends a message: the link only opens the
// client app pre-filled, and delivery is never confirmed.
package whatsapp

import (
	"fmt"
	"sort"
	"strings"

	"taller/internal/formato"

	"github.com/shopspring/decimal"
)

// Cliente is the recipient data a template needs.
type Cliente struct {
	Nombre   string
	Telefono string
}

// Orden is the order snapshot a template interpolates.
type Orden struct {
	NumeroOrden     string
	Marca           string
	Modelo          string
	Problema        string
	CostoTotal      decimal.Decimal
	Anticipo        decimal.Decimal
	SaldoPendiente  decimal.Decimal
	Diagnostico     string
	UbicacionTaller string
	TelefonoTaller  string
}

// Extra carries template-specific arguments.
type Extra struct {
	DiasPendiente  int    `json:"dias_pendiente"`
	DiasRestantes  int    `json:"dias_restantes"`
	DatosFaltantes string `json:"datos_faltantes"`
}

// TemplateNotFoundError is returned for a key outside the fixed template set.
type TemplateNotFoundError struct {
	Clave string
}

func (e *TemplateNotFoundError) Error() string {
	return fmt.Sprintf("plantilla %q no encontrada", e.Clave)
}

type plantilla func(c Cliente, o Orden, x Extra) string

const (
	Recepcion            = "recepcion"
	Diagnostico          = "diagnostico"
	EnReparacion         = "enReparacion"
	ListoParaRecoger     = "listoParaRecoger"
	Recordatorio         = "recordatorio"
	NoReparable          = "noReparable"
	AprobacionUrgente    = "aprobacionUrgente"
	GarantiaPorVencer    = "garantiaPorVencer"
	DatosFaltantes       = "datosFaltantes"
	EncuestaSatisfaccion = "encuestaSatisfaccion"
)

var plantillas = map[string]plantilla{
	Recepcion:            recepcion,
	Diagnostico:          diagnostico,
	EnReparacion:         enReparacion,
	ListoParaRecoger:     listoParaRecoger,
	Recordatorio:         recordatorio,
	NoReparable:          noReparable,
	AprobacionUrgente:    aprobacionUrgente,
	GarantiaPorVencer:    garantiaPorVencer,
	DatosFaltantes:       datosFaltantes,
	EncuestaSatisfaccion: encuestaSatisfaccion,
}

// Claves lists the template keys in stable order.
func Claves() []string {
	claves := make([]string, 0, len(plantillas))
	for k := range plantillas {
		claves = append(claves, k)
	}
	sort.Strings(claves)
	return claves
}

// Componer renders the named template.
func Componer(clave string, c Cliente, o Orden, x Extra) (string, error) {
	p, ok := plantillas[clave]
	if !ok {
		return "", &TemplateNotFoundError{Clave: clave}
	}
	return p(c, o, x), nil
}

func recepcion(c Cliente, o Orden, _ Extra) string {
	return fmt.Sprintf(`Hola %s,

¡Gracias por confiar en nosotros! ✅

📱 *Hemos recibido tu equipo:*
• Marca: %s
• Modelo: %s
• Número de orden: *%s*
• Problema reportado: %s

🔍 Pronto iniciaremos el diagnóstico y te mantendremos informado.

📞 Cualquier duda, contáctanos al %s

*IMPORTANTE:* Guarda tu número de orden para dar seguimiento.

Gracias por tu preferencia 🙏`, c.Nombre, o.Marca, o.Modelo, o.NumeroOrden, o.Problema, o.TelefonoTaller)
}

func diagnostico(c Cliente, o Orden, _ Extra) string {
	var b strings.Builder
	fmt.Fprintf(&b, `Hola %s,

📋 *Diagnóstico completado*

Orden: *%s*
Equipo: %s %s

🔍 *Diagnóstico:*
%s

💰 *Costo de reparación:*
• Total: $%s MXN
`, c.Nombre, o.NumeroOrden, o.Marca, o.Modelo, o.Diagnostico, formato.Monto(o.CostoTotal))
	if o.Anticipo.IsPositive() {
		fmt.Fprintf(&b, "• Anticipo pagado: $%s\n", formato.Monto(o.Anticipo))
	}
	fmt.Fprintf(&b, `• Saldo pendiente: $%s MXN

Por favor confirma si deseas proceder con la reparación respondiendo:
• ✅ "AUTORIZADO" para continuar
• ❌ "CANCELAR" si no deseas continuar
`, formato.Monto(o.SaldoPendiente))
	if o.Anticipo.IsZero() {
		b.WriteString("\n⚠️ Se requiere anticipo del 50% para iniciar.\n")
	}
	fmt.Fprintf(&b, "\n📞 %s", o.TelefonoTaller)
	return b.String()
}

func enReparacion(c Cliente, o Orden, _ Extra) string {
	return fmt.Sprintf(`Hola %s,

🔧 *Tu equipo está en reparación*

Orden: *%s*
Equipo: %s %s

✅ Hemos iniciado el proceso de reparación.

Te notificaremos cuando esté listo para recoger.

Gracias por tu paciencia 🙏`, c.Nombre, o.NumeroOrden, o.Marca, o.Modelo)
}

func listoParaRecoger(c Cliente, o Orden, _ Extra) string {
	return fmt.Sprintf(`¡Buenas noticias %s! 🎉

✅ *Tu equipo está LISTO para recoger*

Orden: *%s*
Equipo: %s %s

💰 *Saldo pendiente:* $%s MXN

📍 *Pásalo a recoger en:*
%s

🕐 *Horario:*
Lunes a Viernes: 9:00 AM - 6:00 PM
Sábado: 10:00 AM - 2:00 PM

📞 %s

⚠️ *IMPORTANTE:*
• Trae tu número de orden
• El equipo incluye garantía
• Debes recogerlo en los próximos 30 días

¡Te esperamos! 👋`, c.Nombre, o.NumeroOrden, o.Marca, o.Modelo, formato.Monto(o.SaldoPendiente), o.UbicacionTaller, o.TelefonoTaller)
}

func recordatorio(c Cliente, o Orden, x Extra) string {
	return fmt.Sprintf(`Hola %s,

⏰ *Recordatorio*

Tu equipo %s %s (Orden *%s*) lleva %d días esperando ser recogido.

💰 Saldo pendiente: $%s MXN

📍 %s
📞 %s

⚠️ Recuerda que después de 30 días se cobra almacenaje de $50 diarios.

¡Te esperamos!`, c.Nombre, o.Marca, o.Modelo, o.NumeroOrden, x.DiasPendiente, formato.Monto(o.SaldoPendiente), o.UbicacionTaller, o.TelefonoTaller)
}

func noReparable(c Cliente, o Orden, _ Extra) string {
	return fmt.Sprintf(`Hola %s,

Lamentamos informarte que después del diagnóstico:

❌ *Tu equipo NO es reparable*

Orden: *%s*
Equipo: %s %s

📋 *Motivo:*
%s

💰 Costo de diagnóstico: $%s MXN

Puedes pasar a recoger tu equipo de lunes a sábado.

📍 %s
📞 %s

Lamentamos no poder ayudarte en esta ocasión 🙏`, c.Nombre, o.NumeroOrden, o.Marca, o.Modelo, o.Diagnostico, formato.Monto(o.CostoTotal), o.UbicacionTaller, o.TelefonoTaller)
}

func aprobacionUrgente(c Cliente, o Orden, _ Extra) string {
	return fmt.Sprintf(`🚨 *ATENCIÓN %s*

Necesitamos tu autorización URGENTE para continuar con la reparación.

Orden: *%s*
Equipo: %s %s

💰 Costo: $%s MXN

Por favor responde lo antes posible:
✅ "AUTORIZADO" o ❌ "CANCELAR"

📞 %s`, c.Nombre, o.NumeroOrden, o.Marca, o.Modelo, formato.Monto(o.CostoTotal), o.TelefonoTaller)
}

func garantiaPorVencer(c Cliente, o Orden, x Extra) string {
	return fmt.Sprintf(`Hola %s,

⚠️ *Aviso de garantía*

La garantía de tu equipo %s %s (Orden *%s*) vence en %d días.

Si tienes algún problema con la reparación realizada, por favor repórtalo antes de que venza la garantía.

📞 %s

¡Gracias por tu preferencia! 🙏`, c.Nombre, o.Marca, o.Modelo, o.NumeroOrden, x.DiasRestantes, o.TelefonoTaller)
}

func datosFaltantes(c Cliente, o Orden, x Extra) string {
	return fmt.Sprintf(`Hola %s,

Para continuar con tu reparación necesitamos información adicional:

Orden: *%s*
Equipo: %s %s

📝 *Información requerida:*
%s

Por favor proporciona estos datos lo antes posible.

📞 %s

¡Gracias!`, c.Nombre, o.NumeroOrden, o.Marca, o.Modelo, x.DatosFaltantes, o.TelefonoTaller)
}

func encuestaSatisfaccion(c Cliente, o Orden, _ Extra) string {
	return fmt.Sprintf(`Hola %s,

¡Gracias por confiar en nosotros! 🙏

Nos gustaría conocer tu opinión sobre el servicio recibido para tu %s %s.

⭐ *Califica nuestro servicio:*
1️⃣ Muy malo
2️⃣ Malo
3️⃣ Regular
4️⃣ Bueno
5️⃣ Excelente

¿Algo que podamos mejorar? Tus comentarios son muy valiosos.

¡Te esperamos en tu próxima reparación! 👋`, c.Nombre, o.Marca, o.Modelo)
}
