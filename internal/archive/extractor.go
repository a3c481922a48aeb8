package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"loom/internal/logging"
)

// ErrNoDocument indicates an archive contained zero document entries. There is
// nothing to flatten, so the import aborts.
var ErrNoDocument = errors.New("no document found in archive")

// Asset is a decoded image payload keyed by its archive path.
type Asset struct {
	Key      string
	MimeType string
	Bytes    []byte
}

// Extraction is the result of opening an archive: all document text joined in
// iteration order, plus the decoded image assets.
type Extraction struct {
	DocumentText string
	Assets       map[string]Asset
}

var documentExtensions = map[string]struct{}{
	".html":  {},
	".htm":   {},
	".xhtml": {},
}

var imageMimeTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".bmp":  "image/bmp",
}

// Extract opens raw zip bytes and partitions the entries. Entries that are
// neither documents nor images are ignored. A corrupt archive is the only
// hard failure besides the empty-document case.
func Extract(data []byte, logger *slog.Logger) (*Extraction, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	var docs []string
	assets := make(map[string]Asset)

	for _, file := range reader.File {
		if file.FileInfo().IsDir() {
			continue
		}
		key := normalizeKey(file.Name)
		ext := strings.ToLower(path.Ext(key))

		if _, ok := documentExtensions[ext]; ok {
			content, err := readEntry(file)
			if err != nil {
				return nil, fmt.Errorf("read document %s: %w", key, err)
			}
			docs = append(docs, strings.TrimSpace(string(content)))
			continue
		}

		mimeType, ok := imageMimeTypes[ext]
		if !ok {
			continue
		}
		content, err := readEntry(file)
		if err != nil {
			logger.Warn("skipping unreadable asset",
				logging.String(logging.FieldAsset, key),
				logging.Error(err),
			)
			continue
		}
		assets[key] = Asset{Key: key, MimeType: mimeType, Bytes: content}
	}

	if len(docs) == 0 {
		return nil, ErrNoDocument
	}

	logger.Debug("archive extracted",
		logging.Int("documents", len(docs)),
		logging.Int("assets", len(assets)),
	)

	return &Extraction{
		DocumentText: strings.Join(docs, "\n\n"),
		Assets:       assets,
	}, nil
}

func readEntry(file *zip.File) ([]byte, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func normalizeKey(name string) string {
	return path.Clean(strings.ReplaceAll(name, "\\", "/"))
}
