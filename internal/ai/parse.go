package ai

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"
)

const DefaultImageMimeType = "image/png"

var dataURLPattern = regexp.MustCompile(`^data:([a-zA-Z0-9.+-]+/[a-zA-Z0-9.+-]+);base64,`)

// SplitDataURL separates an optional data URL prefix from the base64 payload.
// mimeType is empty when the value carries no prefix.
func SplitDataURL(value string) (mimeType, payload string) {
	value = strings.TrimSpace(value)
	m := dataURLPattern.FindStringSubmatch(value)
	if len(m) < 2 {
		return "", value
	}
	return strings.ToLower(m[1]), value[len(m[0]):]
}

// ToDataURL wraps raw bytes into a displayable data URL.
func ToDataURL(mimeType string, data []byte) string {
	if strings.TrimSpace(mimeType) == "" {
		mimeType = DefaultImageMimeType
	}
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}

// DecodeDataURL decodes a data URL or raw base64 string. Unprefixed input
// is reported as DefaultImageMimeType.
func DecodeDataURL(value string) (string, []byte, error) {
	mimeType, payload := SplitDataURL(value)
	if mimeType == "" {
		mimeType = DefaultImageMimeType
	}
	if payload == "" {
		return "", nil, fmt.Errorf("%w: image data is empty", ErrInputRejected)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: invalid base64 image: %v", ErrInputRejected, err)
	}
	return mimeType, data, nil
}
