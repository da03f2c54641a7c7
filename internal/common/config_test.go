package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	if config.Server.Port != 8000 {
		t.Errorf("port = %d, want 8000", config.Server.Port)
	}
	if config.Reconcile.MaxAttempts != 3 {
		t.Errorf("max attempts = %d, want 3", config.Reconcile.MaxAttempts)
	}
	if config.Reconcile.GateCapacity != 1 {
		t.Errorf("gate capacity = %d, want 1", config.Reconcile.GateCapacity)
	}
	if got := config.Reconcile.GetBaseDelay(); got != time.Second {
		t.Errorf("base delay = %v, want 1s", got)
	}
	if got := config.Reconcile.GetJitter(); got != 500*time.Millisecond {
		t.Errorf("jitter = %v, want 500ms", got)
	}
	if got := config.Reconcile.GetTimeout(); got != 30*time.Second {
		t.Errorf("timeout = %v, want 30s", got)
	}
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stocknews.toml")
	content := `
environment = "production"

[server]
port = 9000

[reconcile]
max_attempts = 5
base_delay = "2s"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if !config.IsProduction() {
		t.Error("environment override not applied")
	}
	if config.Server.Port != 9000 {
		t.Errorf("port = %d, want 9000", config.Server.Port)
	}
	if config.Reconcile.MaxAttempts != 5 {
		t.Errorf("max attempts = %d, want 5", config.Reconcile.MaxAttempts)
	}
	if got := config.Reconcile.GetBaseDelay(); got != 2*time.Second {
		t.Errorf("base delay = %v, want 2s", got)
	}
	// Untouched sections keep their defaults.
	if config.Server.Host != "0.0.0.0" {
		t.Errorf("host = %s, want default", config.Server.Host)
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if config.Server.Port != 8000 {
		t.Errorf("port = %d, want default 8000", config.Server.Port)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("STOCKNEWS_PORT", "7777")
	t.Setenv("STOCKNEWS_LOG_LEVEL", "debug")
	t.Setenv("ALPHA_VANTAGE_API_KEY", "av-key")
	t.Setenv("STOCKNEWS_MAX_RETRIES", "6")

	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if config.Server.Port != 7777 {
		t.Errorf("port = %d, want 7777", config.Server.Port)
	}
	if config.Logging.Level != "debug" {
		t.Errorf("log level = %s, want debug", config.Logging.Level)
	}
	if config.Clients.AlphaVantage.APIKey != "av-key" {
		t.Errorf("api key = %s, want av-key", config.Clients.AlphaVantage.APIKey)
	}
	if config.Reconcile.MaxAttempts != 6 {
		t.Errorf("max attempts = %d, want 6", config.Reconcile.MaxAttempts)
	}
}

func TestReconcileConfig_BadDurationsFallBack(t *testing.T) {
	rc := ReconcileConfig{BaseDelay: "soon", Jitter: "", Timeout: "whenever"}

	if got := rc.GetBaseDelay(); got != time.Second {
		t.Errorf("base delay = %v, want 1s fallback", got)
	}
	if got := rc.GetJitter(); got != 500*time.Millisecond {
		t.Errorf("jitter = %v, want 500ms fallback", got)
	}
	if got := rc.GetTimeout(); got != 30*time.Second {
		t.Errorf("timeout = %v, want 30s fallback", got)
	}
}
