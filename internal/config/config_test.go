package config

import "testing"

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"ENV", "HOST", "PORT", "ALLOWED_ORIGINS", "FRONTEND_URL", "FRONTEND_URL_2", "FRONTEND_URL_3",
		"MONGODB_URI", "MONGO_URI", "GEMINI_API_KEY", "GEMINI_MODEL", "GEMINI_BASE_URL",
		"RABBITMQ_ADDR", "EVENTS_QUEUE",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("port = %s, want 8080", cfg.Port)
	}
	if cfg.IsProduction() {
		t.Error("expected development environment")
	}
	if cfg.AllowedHost != "" {
		t.Errorf("allowed host = %q, want empty outside production", cfg.AllowedHost)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "http://localhost:3000" {
		t.Errorf("origins = %v", cfg.AllowedOrigins)
	}
	if cfg.GeminiModel != DefaultGeminiModel {
		t.Errorf("model = %s", cfg.GeminiModel)
	}
	if cfg.CoachConfigured() {
		t.Error("coach should not be configured without a key")
	}
	if cfg.RabbitMQAddr != "" || cfg.EventsQueue != "fitify.events" {
		t.Errorf("events config = %q/%q", cfg.RabbitMQAddr, cfg.EventsQueue)
	}
}

func TestLoadProductionHost(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENV", "Production")
	t.Setenv("HOST", "https://api.fitify.app:443/v1")
	t.Setenv("ALLOWED_ORIGINS", "https://fitify.app, https://admin.fitify.app")

	cfg := Load()
	if !cfg.IsProduction() {
		t.Fatal("expected production")
	}
	if cfg.AllowedHost != "api.fitify.app" {
		t.Errorf("allowed host = %q", cfg.AllowedHost)
	}
	want := []string{"https://fitify.app", "https://admin.fitify.app", "https://www.fitify.app"}
	if len(cfg.AllowedOrigins) != len(want) {
		t.Fatalf("origins = %v, want %v", cfg.AllowedOrigins, want)
	}
	for i := range want {
		if cfg.AllowedOrigins[i] != want[i] {
			t.Errorf("origin[%d] = %s, want %s", i, cfg.AllowedOrigins[i], want[i])
		}
	}
}

func TestLoadGeminiSettings(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "  key-123 ")
	t.Setenv("GEMINI_BASE_URL", "http://localhost:9999/v1beta/")

	cfg := Load()
	if !cfg.CoachConfigured() || cfg.GeminiAPIKey != "key-123" {
		t.Errorf("api key = %q", cfg.GeminiAPIKey)
	}
	if cfg.GeminiBaseURL != "http://localhost:9999/v1beta" {
		t.Errorf("base url = %q", cfg.GeminiBaseURL)
	}
}
