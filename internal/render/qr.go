package render

import (
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/mcmusabe/blokhut-display/internal/models"
)

// QRFallback is encoded when a QR slide carries neither qrUrl nor url.
const QRFallback = "www.blokhutwinkel.nl"

// QRData returns the bare host+path a slide's QR code encodes: qrUrl, else
// url, else QRFallback, with the http(s) scheme removed.
func QRData(s models.Slide) string {
	data := s.QRURL
	if data == "" {
		data = s.URL
	}
	if data == "" {
		data = QRFallback
	}
	return StripScheme(data)
}

// StripScheme removes a leading https:// or http://.
func StripScheme(u string) string {
	u = strings.TrimPrefix(u, "https://")
	return strings.TrimPrefix(u, "http://")
}

// QRPNG encodes data as a PNG QR code of the given pixel size.
func QRPNG(data string, size int) ([]byte, error) {
	if size <= 0 {
		size = 200
	}
	return qrcode.Encode(data, qrcode.Medium, size)
}
