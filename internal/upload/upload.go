package upload

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/shinyyama/headshot-studio/internal/ai"
	_ "golang.org/x/image/webp"
)

// DefaultMaxBytes is the size ceiling for uploaded selfies.
const DefaultMaxBytes = 4 << 20

var mimeTypes = map[string]string{
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
}

type Validator struct {
	maxBytes int64
}

func NewValidator(maxBytes int64) *Validator {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Validator{maxBytes: maxBytes}
}

func (v *Validator) MaxBytes() int64 {
	return v.maxBytes
}

// Accept checks raw file bytes and returns them as a data URL.
func (v *Validator) Accept(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: file is empty", ai.ErrInputRejected)
	}
	if int64(len(data)) > v.maxBytes {
		return "", fmt.Errorf("%w: file is too large (max %d bytes)", ai.ErrInputRejected, v.maxBytes)
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: file is not an image: %v", ai.ErrInputRejected, err)
	}
	mimeType, ok := mimeTypes[format]
	if !ok {
		return "", fmt.Errorf("%w: unsupported image format %s", ai.ErrInputRejected, format)
	}
	return ai.ToDataURL(mimeType, data), nil
}

// AcceptDataURL validates an already encoded image. The declared media type
// is replaced by the sniffed one.
func (v *Validator) AcceptDataURL(value string) (string, error) {
	_, data, err := ai.DecodeDataURL(value)
	if err != nil {
		return "", err
	}
	return v.Accept(data)
}
