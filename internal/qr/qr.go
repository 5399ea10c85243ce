package qr

import (
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// TableURL builds the public URL a scanned table code should open.
func TableURL(baseURL string, tableID int64) string {
	return fmt.Sprintf("%s/api/v1/tables/%d", baseURL, tableID)
}

// EncodeDataURL renders the given content as a 256x256 PNG QR code and
// returns it as a data URL suitable for embedding directly in an <img> tag.
func EncodeDataURL(content string) (string, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, 256)
	if err != nil {
		return "", fmt.Errorf("failed to encode QR code: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
