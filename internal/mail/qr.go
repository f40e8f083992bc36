package mail

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

// qrImageSize is the rendered edge length in pixels. Large enough to scan
// from a phone screen at the intake desk.
const qrImageSize = 256

// encodeQR renders the identifier as a PNG QR symbol. Recovery level M
// keeps the code readable after roughly 15% symbol damage, which covers
// crumpled printouts. The output is deterministic for a given identifier.
func encodeQR(identifier string) ([]byte, error) {
	png, err := qrcode.Encode(identifier, qrcode.Medium, qrImageSize)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}
