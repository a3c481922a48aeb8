package imaging

import (
	"encoding/base64"

	"loom/internal/archive"
)

// DataURL renders an asset as a data: URL suitable for embedding directly in
// stored instruction HTML and task image fields.
func DataURL(asset archive.Asset) string {
	return "data:" + asset.MimeType + ";base64," + base64.StdEncoding.EncodeToString(asset.Bytes)
}
