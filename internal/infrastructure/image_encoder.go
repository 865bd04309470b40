package infrastructure

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"adsstudio/internal/domain"

	"github.com/gabriel-vasile/mimetype"
)

// implements domain.ImageEncoder interface
type ImageEncoder struct {
	maxBytes int
}

func NewImageEncoder(maxBytes int) *ImageEncoder {
	return &ImageEncoder{maxBytes: maxBytes}
}

func (e *ImageEncoder) MaxBytes() int {
	return e.maxBytes
}

// Encode turns an uploaded image into a data URL. There is no local object
// URL on the server, so PreviewURL stays empty and the upload is sent once.
func (e *ImageEncoder) Encode(filename string, data []byte) (*domain.EncodedImage, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("image %q is empty", filename)
	}
	if e.maxBytes > 0 && len(data) > e.maxBytes {
		return nil, fmt.Errorf("image %q is %d bytes, limit is %d", filename, len(data), e.maxBytes)
	}

	mime := detectMIME(data)
	if !strings.HasPrefix(mime, "image/") {
		return nil, fmt.Errorf("file %q is %s, not an image", filename, mime)
	}

	return &domain.EncodedImage{
		DataURL:  "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data),
		MimeType: mime,
		Size:     len(data),
	}, nil
}

// stdlib sniffing first, mimetype for what it leaves ambiguous
func detectMIME(data []byte) string {
	mt := http.DetectContentType(data)
	if mt != "application/octet-stream" && !strings.HasPrefix(mt, "text/") {
		return mt
	}
	detected := mimetype.Detect(data).String()
	// drop parameters such as charset
	if i := strings.Index(detected, ";"); i >= 0 {
		detected = detected[:i]
	}
	return detected
}
