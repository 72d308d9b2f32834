package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("STATE_FILE", "")
	t.Setenv("REFRESH_INTERVAL", "")
	t.Setenv("DEFAULT_CONTEST_DAYS", "")

	cfg := Load()
	if cfg.BotToken != "123:abc" {
		t.Errorf("BotToken = %q", cfg.BotToken)
	}
	if cfg.StateFile != "contest_state.json" {
		t.Errorf("StateFile = %q, want contest_state.json", cfg.StateFile)
	}
	if cfg.RefreshInterval != time.Minute {
		t.Errorf("RefreshInterval = %v, want 1m", cfg.RefreshInterval)
	}
	if cfg.DeleteAfter != time.Minute {
		t.Errorf("DeleteAfter = %v, want 1m", cfg.DeleteAfter)
	}
	if cfg.DefaultDays != 7 {
		t.Errorf("DefaultDays = %d, want 7", cfg.DefaultDays)
	}
	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q, want 8080", cfg.ServerPort)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("REFRESH_INTERVAL", "30")
	t.Setenv("DELETE_AFTER", "180")
	t.Setenv("DEFAULT_CONTEST_DAYS", "14")

	cfg := Load()
	if cfg.RefreshInterval != 30*time.Second {
		t.Errorf("RefreshInterval = %v, want 30s", cfg.RefreshInterval)
	}
	if cfg.DeleteAfter != 180*time.Second {
		t.Errorf("DeleteAfter = %v, want 3m", cfg.DeleteAfter)
	}
	if cfg.DefaultDays != 14 {
		t.Errorf("DefaultDays = %d, want 14", cfg.DefaultDays)
	}
}

func TestLoadIgnoresInvalidNumbers(t *testing.T) {
	t.Setenv("DEFAULT_CONTEST_DAYS", "soon")
	t.Setenv("REFRESH_INTERVAL", "-5")

	cfg := Load()
	if cfg.DefaultDays != 7 {
		t.Errorf("DefaultDays = %d, want fallback 7", cfg.DefaultDays)
	}
	if cfg.RefreshInterval != time.Minute {
		t.Errorf("RefreshInterval = %v, want fallback 1m", cfg.RefreshInterval)
	}
}
