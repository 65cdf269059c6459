package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
assets:
  basePath: /opt/receipt-assets
  imagesDir: /opt/receipt-assets/images
  stylesDir: /opt/receipt-assets/styles
output:
  dir: /tmp/receipts
render:
  timeoutSeconds: 90
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Assets.BasePath != "/opt/receipt-assets" {
		t.Errorf("BasePath = %q", cfg.Assets.BasePath)
	}
	if cfg.Output.Dir != "/tmp/receipts" {
		t.Errorf("Output.Dir = %q", cfg.Output.Dir)
	}
	if got := cfg.Timeout(); got != 90*time.Second {
		t.Errorf("Timeout() = %v, want 90s", got)
	}
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "assets:\n  imagesDir: ./images\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Render.TimeoutSeconds != DefaultTimeoutSeconds {
		t.Errorf("TimeoutSeconds = %d, want default %d", cfg.Render.TimeoutSeconds, DefaultTimeoutSeconds)
	}
	if cfg.Output.Dir != DefaultOutputDir {
		t.Errorf("Output.Dir = %q, want %q", cfg.Output.Dir, DefaultOutputDir)
	}
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("Load() error = %v, want ErrConfigNotFound", err)
	}
}

func TestLoadParseError(t *testing.T) {
	path := writeConfig(t, "assets: [not a mapping")
	if _, err := Load(path); !errors.Is(err, ErrConfigParse) {
		t.Errorf("Load() error = %v, want ErrConfigParse", err)
	}
}

func TestLoadInvalidTimeout(t *testing.T) {
	path := writeConfig(t, "render:\n  timeoutSeconds: -5\n")
	if _, err := Load(path); !errors.Is(err, ErrConfigInvalid) {
		t.Errorf("Load() error = %v, want ErrConfigInvalid", err)
	}
}
