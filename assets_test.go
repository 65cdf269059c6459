package receiptpdf

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDirResolverFetch(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "products"), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "products", "gold.png"), pngBytes, 0o600); err != nil {
		t.Fatal(err)
	}

	r := DirResolver{Root: root}
	data, err := r.Fetch(context.Background(), "products/gold.png")
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if len(data) != len(pngBytes) {
		t.Errorf("Fetch() returned %d bytes, want %d", len(data), len(pngBytes))
	}
}

func TestDirResolverMissing(t *testing.T) {
	r := DirResolver{Root: t.TempDir()}
	_, err := r.Fetch(context.Background(), "products/absent.png")
	if !errors.Is(err, ErrAssetNotFound) {
		t.Errorf("Fetch() error = %v, want ErrAssetNotFound", err)
	}
}

func TestDirResolverRejectsTraversal(t *testing.T) {
	r := DirResolver{Root: filepath.Join(t.TempDir(), "store")}
	_, err := r.Fetch(context.Background(), "../outside.png")
	if !errors.Is(err, ErrAssetNotFound) {
		t.Errorf("Fetch() error = %v, want ErrAssetNotFound for escaping path", err)
	}
}

func TestFetchDataURI(t *testing.T) {
	store := &fakeAssets{files: map[string][]byte{"a.png": pngBytes}}

	uri, err := fetchDataURI(context.Background(), store, "a.png")
	if err != nil {
		t.Fatalf("fetchDataURI() error: %v", err)
	}
	if !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Errorf("fetchDataURI() = %q, want png data URI", uri)
	}
}

func TestFetchDataURIEmptyAsset(t *testing.T) {
	store := &fakeAssets{files: map[string][]byte{"empty.png": {}}}
	_, err := fetchDataURI(context.Background(), store, "empty.png")
	if !errors.Is(err, ErrAssetNotFound) {
		t.Errorf("fetchDataURI() error = %v, want ErrAssetNotFound", err)
	}
}
