package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigs(t *testing.T, public, private string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "public.yaml"), []byte(public), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "private.yaml"), []byte(private), 0o600); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestMustLoad_Defaults(t *testing.T) {
	dir := writeConfigs(t,
		"api:\n  base_url: http://localhost:8080/v1\nsocket:\n  url: ws://localhost:8080/stream\n",
		"username: 'u'\npassword: 'p'\n")

	cfg := MustLoad(dir)
	if cfg.Public.ActivityPageSize != 15 {
		t.Fatalf("expected default activity_page_size 15, got %d", cfg.Public.ActivityPageSize)
	}
	if cfg.Public.RequestTimeout != 10*time.Second {
		t.Fatalf("expected default request_timeout 10s, got %v", cfg.Public.RequestTimeout)
	}
	if cfg.Username() != "u" || cfg.Password() != "p" {
		t.Fatalf("private credentials not loaded")
	}
}

func TestMustLoad_RequiredFields(t *testing.T) {
	// base_url is intentionally missing to ensure validation panics
	dir := writeConfigs(t,
		"socket:\n  url: ws://localhost:8080/stream\n",
		"username: 'u'\npassword: 'p'\n")

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic due to missing required field, got none")
		}
	}()

	_ = MustLoad(dir)
}
