package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_EnvOverridesSecret(t *testing.T) {
	t.Setenv("ORGCHART_UPLOAD_SECRET", "env-secret")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Upload.Secret != "env-secret" {
		t.Fatalf("secret = %q", cfg.Upload.Secret)
	}
	if cfg.Server.Port != 20280 {
		t.Fatalf("port = %d, want default", cfg.Server.Port)
	}
}

func TestEnsureDataDir_AbsolutePath(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Data.DataDir = filepath.Join(t.TempDir(), "data")

	dataDir, err := EnsureDataDir(cfg)
	if err != nil {
		t.Fatalf("EnsureDataDir: %v", err)
	}
	for _, sub := range []string{"uploads", "exports"} {
		if _, err := os.Stat(filepath.Join(dataDir, sub)); err != nil {
			t.Fatalf("subdir %s missing: %v", sub, err)
		}
	}
}
