package whatsapp

import (
	"net/url"
	"strings"
)

// PaisDefault is the country code prepended when a number lacks it.
const PaisDefault = "52"

// NormalizarTelefono strips every non-digit and prepends pais unless the
// digits already start with it. Applying it twice yields the same result.
func NormalizarTelefono(telefono, pais string) string {
	if pais == "" {
		pais = PaisDefault
	}
	var b strings.Builder
	for _, r := range telefono {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digitos := b.String()
	if strings.HasPrefix(digitos, pais) {
		return digitos
	}
	return pais + digitos
}

// GenerarLink builds the wa.me URI for an already normalized number.
func GenerarLink(telefono, mensaje string) string {
	return "https://wa.me/" + telefono + "?text=" + encodeURIComponent(mensaje)
}

// LinkCompleto normalizes the client's phone and builds the link in one step.
func LinkCompleto(telefono, pais, mensaje string) string {
	return GenerarLink(NormalizarTelefono(telefono, pais), mensaje)
}

// encodeURIComponent escapes everything except A-Z a-z 0-9 - _ . ! ~ * ' ( ).
// url.QueryEscape turns spaces into '+', which wa.me shows literally.
func encodeURIComponent(s string) string {
	escaped := url.QueryEscape(s)
	escaped = strings.ReplaceAll(escaped, "+", "%20")
	for _, r := range "!~*'()" {
		escaped = strings.ReplaceAll(escaped, url.QueryEscape(string(r)), string(r))
	}
	return escaped
}

// MensajeDeLink returns the decoded text parameter of a wa.me link.
func MensajeDeLink(link string) (string, error) {
	u, err := url.Parse(link)
	if err != nil {
		return "", err
	}
	return u.Query().Get("text"), nil
}
