package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != 8760 {
		t.Errorf("Port = %d, want 8760", cfg.Port)
	}
	if cfg.ShareBaseURL != "https://mnemolog.app" {
		t.Errorf("ShareBaseURL = %q", cfg.ShareBaseURL)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if !cfg.Settings.RunPIIScan {
		t.Error("RunPIIScan should default to true")
	}
	if cfg.Settings.AlwaysRedact {
		t.Error("AlwaysRedact should default to false")
	}
	if cfg.Settings.DefaultVisibility != "private" {
		t.Errorf("DefaultVisibility = %q, want private", cfg.Settings.DefaultVisibility)
	}
	if cfg.Settings.DefaultShowAuthor {
		t.Error("DefaultShowAuthor should default to false")
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("MNEMOLOG_PORT", "9100")
	t.Setenv("DATABASE_URL", "postgres://localhost/mnemolog_test")
	t.Setenv("PII_SCAN_ENABLED", "false")
	t.Setenv("PII_ALWAYS_REDACT", "true")
	t.Setenv("DEFAULT_VISIBILITY", "unlisted")

	cfg := Load()

	if cfg.Port != 9100 {
		t.Errorf("Port = %d, want 9100", cfg.Port)
	}
	if cfg.DatabaseURL != "postgres://localhost/mnemolog_test" {
		t.Errorf("DatabaseURL = %q", cfg.DatabaseURL)
	}
	if cfg.Settings.RunPIIScan {
		t.Error("RunPIIScan should be false")
	}
	if !cfg.Settings.AlwaysRedact {
		t.Error("AlwaysRedact should be true")
	}
	if cfg.Settings.DefaultVisibility != "unlisted" {
		t.Errorf("DefaultVisibility = %q", cfg.Settings.DefaultVisibility)
	}
}

func TestLoad_BadValuesFallBack(t *testing.T) {
	t.Setenv("MNEMOLOG_PORT", "not-a-number")
	t.Setenv("PII_SCAN_ENABLED", "maybe")

	cfg := Load()

	if cfg.Port != 8760 {
		t.Errorf("Port = %d, want fallback 8760", cfg.Port)
	}
	if !cfg.Settings.RunPIIScan {
		t.Error("RunPIIScan should fall back to true")
	}
}
