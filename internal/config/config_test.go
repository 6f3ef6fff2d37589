package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("SESSION_TTL_HOURS", "")
	t.Setenv("MAX_LOGO_SIZE_KB", "")

	cfg := Load()
	if cfg.StoreBackend != StoreBackendXLSX {
		t.Errorf("StoreBackend = %q, want %q", cfg.StoreBackend, StoreBackendXLSX)
	}
	if cfg.SessionTTL != 12*time.Hour {
		t.Errorf("SessionTTL = %v", cfg.SessionTTL)
	}
	if cfg.MaxLogoBytes != 512*1024 {
		t.Errorf("MaxLogoBytes = %d", cfg.MaxLogoBytes)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", "Postgres")
	t.Setenv("STORE_TIMEOUT_SECONDS", "3")
	t.Setenv("APPEND_RATE_PER_MINUTE", "not-a-number")

	cfg := Load()
	if cfg.StoreBackend != StoreBackendPostgres {
		t.Errorf("StoreBackend = %q", cfg.StoreBackend)
	}
	if cfg.StoreTimeout != 3*time.Second {
		t.Errorf("StoreTimeout = %v", cfg.StoreTimeout)
	}
	if cfg.AppendRate != 30 {
		t.Errorf("AppendRate = %d, want fallback 30", cfg.AppendRate)
	}
}

func TestParseOrigins(t *testing.T) {
	if got := parseOrigins(""); got != nil {
		t.Errorf("parseOrigins(\"\") = %v, want nil", got)
	}
	got := parseOrigins(" http://a.test , ,http://b.test")
	if len(got) != 2 || got[0] != "http://a.test" || got[1] != "http://b.test" {
		t.Errorf("parseOrigins = %v", got)
	}
}

func TestRedisKeys(t *testing.T) {
	k := NewRedisKeys("qb")
	if got := k.Session("abc"); got != "qb:session:abc:state" {
		t.Errorf("Session = %q", got)
	}
	if got := k.AppendRate("10.0.0.1"); got != "qb:ratelimit:append:10.0.0.1" {
		t.Errorf("AppendRate = %q", got)
	}
	if got := NewRedisKeys("").ExportLogQueue(); got != "export_log_queue" {
		t.Errorf("ExportLogQueue without namespace = %q", got)
	}
}
