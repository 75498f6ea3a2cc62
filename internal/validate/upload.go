package validate

import (
	"bytes"
	"fmt"
	"image"
	"path/filepath"
	"slices"
	"strings"

	// Register the decoders Upload relies on to confirm decodability.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// Upload checks an image payload against the configured ceiling and
// extension allow-list, then confirms it actually decodes as an image.
func Upload(name string, data []byte, maxBytes int64, allowedExts []string) error {
	if int64(len(data)) > maxBytes {
		return validationErr(fmt.Errorf("%s is %d bytes, limit %d: %w", name, len(data), maxBytes, ErrTooLarge), "ruta_imagen")
	}

	ext := strings.ToLower(filepath.Ext(name))
	if !slices.Contains(allowedExts, ext) {
		return validationErr(fmt.Errorf("extension %q not allowed: %w", ext, ErrUnsupportedType), "ruta_imagen")
	}

	if _, _, err := image.Decode(bytes.NewReader(data)); err != nil {
		return validationErr(fmt.Errorf("%s does not decode as an image: %w", name, ErrCorrupt), "ruta_imagen")
	}
	return nil
}
