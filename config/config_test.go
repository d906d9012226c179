package config

import (
	"os"
	"testing"
)

// unsetenv clears keys for the duration of a test. t.Setenv records the
// original value for cleanup; the follow-up Unsetenv leaves the key
// truly absent, since LoadConfig treats a set-but-empty key as a value.
func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	unsetenv(t,
		"ENV",
		"SERVER_PORT",
		"DB_HOST", "DB_PORT", "DB_SSL",
		"STORAGE_BACKEND", "UPLOAD_DIR",
		"MQ_BACKEND",
		"CORS_ALLOWED_ORIGINS",
	)

	cfg := LoadConfig()

	if cfg.ServerPort != 3000 {
		t.Fatalf("ServerPort = %d, want 3000", cfg.ServerPort)
	}
	if cfg.Database.Host != "localhost" || cfg.Database.Port != 5432 {
		t.Fatalf("database defaults = %+v", cfg.Database)
	}
	if cfg.Storage.Backend != StorageLocal || cfg.Storage.UploadDir != "uploads" {
		t.Fatalf("storage defaults = %+v", cfg.Storage)
	}
	if cfg.MQ.Backend != MQNone {
		t.Fatalf("mq default = %q, want none", cfg.MQ.Backend)
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		t.Fatalf("missing CORS default")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	unsetenv(t, "ENV")
	t.Setenv("SERVER_PORT", "8181")
	t.Setenv("JWT_SECRET", "topsecret")
	t.Setenv("BACKEND_URL", "http://courses:8080")
	t.Setenv("STORAGE_BACKEND", "minio")
	t.Setenv("MQ_BACKEND", "rabbitmq")
	t.Setenv("DB_SSL", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg := LoadConfig()

	if cfg.ServerPort != 8181 {
		t.Fatalf("ServerPort = %d", cfg.ServerPort)
	}
	if cfg.JWTSecret != "topsecret" {
		t.Fatalf("JWTSecret = %q", cfg.JWTSecret)
	}
	if cfg.BackendURL != "http://courses:8080" {
		t.Fatalf("BackendURL = %q", cfg.BackendURL)
	}
	if cfg.Storage.Backend != StorageMinio {
		t.Fatalf("storage backend = %q", cfg.Storage.Backend)
	}
	if cfg.MQ.Backend != MQRabbitMQ {
		t.Fatalf("mq backend = %q", cfg.MQ.Backend)
	}
	if !cfg.Database.UseSSL {
		t.Fatalf("DB_SSL not applied")
	}
	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.CORS.AllowedOrigins) != 2 ||
		cfg.CORS.AllowedOrigins[0] != want[0] ||
		cfg.CORS.AllowedOrigins[1] != want[1] {
		t.Fatalf("origins = %v", cfg.CORS.AllowedOrigins)
	}
}
