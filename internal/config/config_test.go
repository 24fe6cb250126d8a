package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("STORAGE_BUCKET", "")
	t.Setenv("MAX_UPLOAD_BYTES", "")

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.AppEnv != "development" {
		t.Errorf("expected default env development, got %s", cfg.AppEnv)
	}
	if cfg.StorageBucket != "images" {
		t.Errorf("expected default bucket images, got %s", cfg.StorageBucket)
	}
	if cfg.MaxUploadBytes != 32<<20 {
		t.Errorf("expected default upload cap %d, got %d", int64(32<<20), cfg.MaxUploadBytes)
	}
	if cfg.IsProduction() {
		t.Error("expected development mode by default")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("APP_ENV", "production")
	t.Setenv("STORAGE_USE_SSL", "true")
	t.Setenv("MAX_UPLOAD_BYTES", "1048576")

	cfg := Load()

	if cfg.Port != "9999" {
		t.Errorf("expected port 9999, got %s", cfg.Port)
	}
	if !cfg.IsProduction() {
		t.Error("expected production mode")
	}
	if !cfg.StorageUseSSL {
		t.Error("expected SSL enabled")
	}
	if cfg.MaxUploadBytes != 1048576 {
		t.Errorf("expected upload cap 1048576, got %d", cfg.MaxUploadBytes)
	}
}

func TestLoad_InvalidUploadCapFallsBack(t *testing.T) {
	t.Setenv("MAX_UPLOAD_BYTES", "not-a-number")

	cfg := Load()
	if cfg.MaxUploadBytes != 32<<20 {
		t.Errorf("expected fallback upload cap, got %d", cfg.MaxUploadBytes)
	}
}
