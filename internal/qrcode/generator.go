package qrcode

import (
	"fmt"
	"os"
	"path/filepath"

	qr "github.com/skip2/go-qrcode"
)

// Generator renders guest check-in tokens as QR code images on disk
type Generator struct {
	outputDir string
	size      int
}

// NewGenerator creates a generator writing PNG files under outputDir
func NewGenerator(outputDir string) *Generator {
	return &Generator{outputDir: outputDir, size: 256}
}

// Generate renders the token as a PNG named after the guest ID and returns
// the path relative to the process working directory. The output directory
// is created on first use.
func (g *Generator) Generate(token, guestID string) (string, error) {
	if token == "" {
		return "", fmt.Errorf("cannot render empty token")
	}
	if err := os.MkdirAll(g.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create qr code directory: %w", err)
	}

	path := filepath.Join(g.outputDir, guestID+".png")
	if err := qr.WriteFile(token, qr.Medium, g.size, path); err != nil {
		return "", fmt.Errorf("failed to render qr code: %w", err)
	}
	return path, nil
}

// Remove deletes the rendered QR image for a guest. Missing files are not
// an error, the image may never have been rendered.
func (g *Generator) Remove(guestID string) error {
	path := filepath.Join(g.outputDir, guestID+".png")
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove qr code: %w", err)
	}
	return nil
}

// Path returns the expected image path for a guest without touching disk
func (g *Generator) Path(guestID string) string {
	return filepath.Join(g.outputDir, guestID+".png")
}
