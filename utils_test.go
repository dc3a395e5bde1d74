package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	want := defaultConfig()
	if cfg != want {
		t.Errorf("got %+v, want defaults", cfg)
	}
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	blob := `{"latitude":51.5072,"longitude":-0.1276,"swipe_threshold":60,"invert_y":true,"auth_user":"admin","auth_pass":"secret"}`
	if err := os.WriteFile(path, []byte(blob), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Latitude != 51.5072 || cfg.Longitude != -0.1276 {
		t.Errorf("coords = %v,%v", cfg.Latitude, cfg.Longitude)
	}
	if cfg.SwipeThreshold != 60 || !cfg.InvertY {
		t.Errorf("gesture overrides not applied: %+v", cfg)
	}
	if cfg.AuthUser != "admin" || cfg.AuthPass != "secret" {
		t.Errorf("auth overrides not applied")
	}
	// Untouched keys keep their defaults.
	if cfg.Width != DEFAULT_LCD_WIDTH || cfg.TapThreshold != 12 {
		t.Errorf("defaults lost: width=%d tap=%d", cfg.Width, cfg.TapThreshold)
	}
}

func TestLoadConfigMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadConfig(path); err == nil {
		t.Fatal("malformed config should error")
	}
}

func TestConfigHelpers(t *testing.T) {
	cfg := defaultConfig()
	if got := cfg.tapTimeout(); got != 400*time.Millisecond {
		t.Errorf("tapTimeout = %v, want 400ms", got)
	}

	tr := cfg.touchTransform()
	if tr.Width != cfg.Width || tr.Height != cfg.Height {
		t.Errorf("transform geometry %dx%d", tr.Width, tr.Height)
	}
	if !tr.SwapAxes || tr.InvertX || tr.InvertY || tr.Rotate180 {
		t.Errorf("transform flags = %+v, want only SwapAxes", tr)
	}
	if tr.RawMin != 0 || tr.RawMax != 4095 {
		t.Errorf("raw range [%d,%d]", tr.RawMin, tr.RawMax)
	}
}
