package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/yeqown/go-qrcode/v2"
	"github.com/yeqown/go-qrcode/writer/standard"
)

const maxQRPayload = 2048

// QRCode serves a PNG QR code encoding the url query parameter, used to
// open a card image on a phone
func (h *Handler) QRCode(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("url")
	if target == "" || len(target) > maxQRPayload || !validImageURL(target) {
		http.Error(w, "url must be an http(s) URL", http.StatusBadRequest)
		return
	}

	png, err := generateQRCode(target)
	if err != nil {
		h.logger.Printf("❌ QR generation failed: %v", err)
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Write(png)
}

// generateQRCode renders content as PNG bytes. The standard writer only
// writes to files, so the image goes through a temporary directory.
func generateQRCode(content string) ([]byte, error) {
	qrc, err := qrcode.NewWith(content,
		qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionMedium),
		qrcode.WithEncodingMode(qrcode.EncModeByte),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create QR code: %w", err)
	}

	dir, err := os.MkdirTemp("", "mtgfactory-qr-")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	file := filepath.Join(dir, "qr.png")
	wr, err := standard.New(file,
		standard.WithBuiltinImageEncoder(standard.PNG_FORMAT),
		standard.WithQRWidth(6),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create writer: %w", err)
	}
	if err := qrc.Save(wr); err != nil {
		return nil, fmt.Errorf("failed to save QR code: %w", err)
	}

	return os.ReadFile(file)
}
