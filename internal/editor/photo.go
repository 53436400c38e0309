package editor

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultMaxPhotoBytes caps uploaded photos at 2 MiB
const DefaultMaxPhotoBytes int64 = 2 << 20

// EncodePhoto reads an image and returns it as a base64 data URL.
// Payloads larger than maxBytes and non-image content are rejected.
func EncodePhoto(r io.Reader, maxBytes int64) (string, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxPhotoBytes
	}

	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read photo: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return "", fmt.Errorf("%w: max %d bytes", ErrPhotoTooLarge, maxBytes)
	}

	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		return "", fmt.Errorf("%w: detected %s", ErrNotAnImage, mime.String())
	}

	var sb bytes.Buffer
	sb.WriteString("data:")
	sb.WriteString(mime.String())
	sb.WriteString(";base64,")
	sb.WriteString(base64.StdEncoding.EncodeToString(data))
	return sb.String(), nil
}
