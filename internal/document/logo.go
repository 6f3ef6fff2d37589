package document

import (
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ErrInvalidLogo is returned for logo bytes that are not a recognizable image.
var ErrInvalidLogo = errors.New("logo is not an image")

// LogoDataURI inlines an image as a base64 data URI. Empty input yields an empty URI.
func LogoDataURI(data []byte) (template.URL, error) {
	if len(data) == 0 {
		return "", nil
	}
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", fmt.Errorf("%w: detected %s", ErrInvalidLogo, mt.String())
	}
	// The URI is built from sniffed bytes only, so it is safe to mark as trusted.
	return template.URL("data:" + mt.String() + ";base64," + base64.StdEncoding.EncodeToString(data)), nil
}
