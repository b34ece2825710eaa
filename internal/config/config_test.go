package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.DifficultyMin != 0.1 || cfg.DifficultyMax != 1.0 {
		t.Errorf("bounds = [%f, %f], want [0.1, 1.0]", cfg.DifficultyMin, cfg.DifficultyMax)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DIFFICULTY_MIN", "0.2")
	t.Setenv("DEBUG", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Port)
	}
	if cfg.DifficultyMin != 0.2 {
		t.Errorf("DifficultyMin = %f, want 0.2", cfg.DifficultyMin)
	}
	if !cfg.Debug {
		t.Error("Debug should be true")
	}
}

func TestLoad_RejectsBadBounds(t *testing.T) {
	t.Setenv("DIFFICULTY_MIN", "0.9")
	t.Setenv("DIFFICULTY_MAX", "0.2")

	if _, err := Load(); err == nil {
		t.Error("Load() should reject inverted bounds")
	}
}

func TestConfig_Apply(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CATALOG_PATH", "/srv/pacer/catalog")
	t.Setenv("RABBITMQ_URL", "amqp://broker:5672/")
	t.Setenv("DIFFICULTY_MIN", "0.2")
	t.Setenv("DIFFICULTY_MAX", "0.9")

	srvCfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	local := DefaultLocalConfig()
	srvCfg.Apply(local)

	if local.Daemon.Port != 9090 {
		t.Errorf("Daemon.Port = %d, want 9090", local.Daemon.Port)
	}
	if local.Catalog.Path != "/srv/pacer/catalog" {
		t.Errorf("Catalog.Path = %q, want /srv/pacer/catalog", local.Catalog.Path)
	}
	if local.Adaptive.MinDifficulty != 0.2 || local.Adaptive.MaxDifficulty != 0.9 {
		t.Errorf("bounds = [%f, %f], want [0.2, 0.9]",
			local.Adaptive.MinDifficulty, local.Adaptive.MaxDifficulty)
	}
	if !local.Queue.Enabled || local.Queue.URL != "amqp://broker:5672/" {
		t.Errorf("queue = %+v, want enabled with broker URL", local.Queue)
	}
	// Log level stays untouched unless DEBUG is set.
	if local.Daemon.LogLevel != DefaultLocalConfig().Daemon.LogLevel {
		t.Errorf("LogLevel = %q, want default", local.Daemon.LogLevel)
	}
}

func TestLoad_IgnoresMalformedEnv(t *testing.T) {
	t.Setenv("PORT", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want default 8080 on malformed env", cfg.Port)
	}
}
