package infra

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// qrTamanoPx is the raster size of the code; it is scaled to 30mm in the PDF.
const qrTamanoPx = 256

// GenerarQR encodes contenido as a PNG QR code. The payload is the literal
// string so any standard scanner recovers it unchanged.
func GenerarQR(contenido string) ([]byte, error) {
	png, err := qrcode.Encode(contenido, qrcode.Medium, qrTamanoPx)
	if err != nil {
		return nil, fmt.Errorf("qr: encode %q: %w", contenido, err)
	}
	return png, nil
}
