package receiptpdf

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// AssetResolver fetches product images from the external asset store.
// Implementations wrap whatever backs the store (object storage, CDN, local
// disk); the builder only needs the raw bytes.
type AssetResolver interface {
	Fetch(ctx context.Context, path string) ([]byte, error)
}

// fetchDataURI fetches an asset and encodes it as a data URI suitable for an
// img src attribute. The media type is sniffed from the content.
func fetchDataURI(ctx context.Context, resolver AssetResolver, path string) (string, error) {
	data, err := resolver.Fetch(ctx, path)
	if err != nil {
		return "", fmt.Errorf("fetching asset %q: %w", path, err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: %q", ErrAssetNotFound, path)
	}
	mediaType := http.DetectContentType(data)
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// DirResolver serves assets from a directory tree. Paths are resolved
// relative to the root; escapes outside it are rejected.
type DirResolver struct {
	Root string
}

// Fetch implements AssetResolver over the local filesystem.
func (r DirResolver) Fetch(_ context.Context, path string) ([]byte, error) {
	full := filepath.Join(r.Root, filepath.FromSlash(path))
	rel, err := filepath.Rel(r.Root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil, fmt.Errorf("%w: %q", ErrAssetNotFound, path)
	}
	data, err := os.ReadFile(full)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %q", ErrAssetNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading asset %q: %w", path, err)
	}
	return data, nil
}
