package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "3000" {
		t.Errorf("port = %q, want 3000", cfg.Server.Port)
	}
	if cfg.Display.SlideInterval != 5*time.Second {
		t.Errorf("slide interval = %s", cfg.Display.SlideInterval)
	}
	if cfg.Display.ProgressTick != 500*time.Millisecond {
		t.Errorf("tick = %s", cfg.Display.ProgressTick)
	}
	if cfg.Display.ContentRefresh != 5*time.Minute {
		t.Errorf("content refresh = %s", cfg.Display.ContentRefresh)
	}
	if cfg.News.MaxItems != 10 {
		t.Errorf("max items = %d", cfg.News.MaxItems)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DISPLAY_LITE", "true")
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("DISPLAY_SLIDE_INTERVAL", "8s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Display.Lite {
		t.Error("lite mode not picked up")
	}
	if cfg.Addr() != "0.0.0.0:8080" {
		t.Errorf("addr = %q", cfg.Addr())
	}
	if cfg.Display.SlideInterval != 8*time.Second {
		t.Errorf("slide interval = %s", cfg.Display.SlideInterval)
	}
}

func TestLoadRejectsTickLongerThanInterval(t *testing.T) {
	t.Setenv("DISPLAY_PROGRESS_TICK", "10s")
	t.Setenv("DISPLAY_SLIDE_INTERVAL", "5s")

	if _, err := Load(); err == nil {
		t.Fatal("expected validation error")
	}
}
