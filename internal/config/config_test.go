package config

import "testing"

func TestValidate_InvalidPort(t *testing.T) {
	cfg := Config{
		HTTP: HTTPConfig{Port: 0},
		Redis: RedisConfig{
			Addrs: []string{"localhost:6379"},
		},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingRedisAddrs(t *testing.T) {
	cfg := Config{
		HTTP: HTTPConfig{Port: 8080},
		Redis: RedisConfig{
			Addrs: []string{},
		},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing redis addrs")
	}
}

func TestValidate_OK(t *testing.T) {
	cfg := Config{
		HTTP: HTTPConfig{Port: 8080},
		Redis: RedisConfig{
			Addrs: []string{"localhost:6379"},
		},
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 30 {
		t.Errorf("expected WriteTimeoutSec=30, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Redis.ReadinessTimeout != 10 {
		t.Errorf("expected ReadinessTimeout=10, got %d", cfg.Redis.ReadinessTimeout)
	}
	if cfg.Database.Path != "contactdex.db" {
		t.Errorf("expected Path='contactdex.db', got %q", cfg.Database.Path)
	}
	if cfg.OpenAI.EmbeddingModel != "text-embedding-ada-002" {
		t.Errorf("expected EmbeddingModel='text-embedding-ada-002', got %q", cfg.OpenAI.EmbeddingModel)
	}
	if cfg.OpenAI.ChatModel != "gpt-3.5-turbo" {
		t.Errorf("expected ChatModel='gpt-3.5-turbo', got %q", cfg.OpenAI.ChatModel)
	}
	if cfg.OpenAI.Dimensions != 1536 {
		t.Errorf("expected Dimensions=1536, got %d", cfg.OpenAI.Dimensions)
	}
	if cfg.Index.HNSWM != 16 {
		t.Errorf("expected HNSWM=16, got %d", cfg.Index.HNSWM)
	}
	if cfg.Index.HNSWEFConstruct != 200 {
		t.Errorf("expected HNSWEFConstruct=200, got %d", cfg.Index.HNSWEFConstruct)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Redis:    RedisConfig{ReadinessTimeout: 15},
		Database: DatabaseConfig{Path: "/var/lib/contactdex/data.db"},
		OpenAI:   OpenAIConfig{EmbeddingModel: "text-embedding-3-small", Dimensions: 512},
		Index:    IndexConfig{HNSWM: 32, HNSWEFConstruct: 400},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("expected WriteTimeoutSec=60, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Database.Path != "/var/lib/contactdex/data.db" {
		t.Errorf("expected Path='/var/lib/contactdex/data.db', got %q", cfg.Database.Path)
	}
	if cfg.OpenAI.EmbeddingModel != "text-embedding-3-small" {
		t.Errorf("expected EmbeddingModel='text-embedding-3-small', got %q", cfg.OpenAI.EmbeddingModel)
	}
	if cfg.OpenAI.Dimensions != 512 {
		t.Errorf("expected Dimensions=512, got %d", cfg.OpenAI.Dimensions)
	}
	if cfg.Index.HNSWM != 32 {
		t.Errorf("expected HNSWM=32, got %d", cfg.Index.HNSWM)
	}
}

func TestProviderConfigured(t *testing.T) {
	cfg := Config{}
	if cfg.ProviderConfigured() {
		t.Error("expected ProviderConfigured=false with empty api key")
	}

	cfg.OpenAI.APIKey = "sk-test"
	if !cfg.ProviderConfigured() {
		t.Error("expected ProviderConfigured=true with api key set")
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("CONTACTDEX_TEST_KEY", "secret")

	in := []byte("api_key: ${CONTACTDEX_TEST_KEY}\nmodel: ${CONTACTDEX_TEST_MODEL:-gpt-3.5-turbo}\n")
	out := string(expandEnvVars(in))

	want := "api_key: secret\nmodel: gpt-3.5-turbo\n"
	if out != want {
		t.Errorf("unexpected expansion:\ngot:  %q\nwant: %q", out, want)
	}
}
