package studio

import (
	"fmt"
	"strings"
	"time"

	"github.com/shinyyama/headshot-studio/internal/style"
)

var extensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/webp": "webp",
	"image/gif":  "gif",
}

// DownloadName names the generated file by style and timestamp,
// e.g. headshot-corporate-1700000000000.png.
func DownloadName(id style.ID, mimeType string, t time.Time) string {
	ext, ok := extensions[strings.ToLower(strings.TrimSpace(mimeType))]
	if !ok {
		ext = "png"
	}
	return fmt.Sprintf("headshot-%s-%d.%s", id, t.UnixMilli(), ext)
}
