// Package formato renders amounts and dates the way the shop prints them
// (es-MX).
package formato

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.MustParse("es-MX"))

// Monto formats an amount with grouped thousands and at most two decimals,
// dropping trailing zeros. Zero renders as "0".
func Monto(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	return printer.Sprint(number.Decimal(f, number.MaxFractionDigits(2)))
}

// Fecha renders d/m/yyyy without zero padding.
func Fecha(t time.Time) string {
	return t.Format("2/1/2006")
}

// FechaHora renders the date plus a 24h clock.
func FechaHora(t time.Time) string {
	return t.Format("2/1/2006, 15:04:05")
}
