package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.MongoURI != "mongodb://localhost:27017" {
		t.Errorf("MongoURI = %q", cfg.MongoURI)
	}
	if cfg.MongoDBName != "finance_dashboard" {
		t.Errorf("MongoDBName = %q", cfg.MongoDBName)
	}
	if cfg.StaticDir != "web" {
		t.Errorf("StaticDir = %q", cfg.StaticDir)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MONGO_DB_NAME", "testdb")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.MongoDBName != "testdb" {
		t.Errorf("MongoDBName = %q, want testdb", cfg.MongoDBName)
	}
}

func TestHasGeminiKey(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"", false},
		{"YOUR_API_KEY_HERE", false},
		{"real-key-value", true},
	}

	for _, tt := range tests {
		cfg := &Config{GeminiAPIKey: tt.key}
		if got := cfg.HasGeminiKey(); got != tt.want {
			t.Errorf("HasGeminiKey(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}
