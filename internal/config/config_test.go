package config

import (
	"testing"
	"time"
)

func baseConfig() *Config {
	return &Config{
		Port:           "8000",
		Env:            "development",
		DatabaseURL:    "postgres://localhost/clinicore",
		DBMaxConns:     20,
		DBMinConns:     5,
		AuditSink:      "log",
		RequestTimeout: 30 * time.Second,
	}
}

func TestValidate_DevWithoutAuth(t *testing.T) {
	cfg := baseConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("development mode should not require auth config: %v", err)
	}
}

func TestValidate_ProductionRequiresAuth(t *testing.T) {
	cfg := baseConfig()
	cfg.Env = "production"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error when production has no auth configuration")
	}

	cfg.AuthIssuer = "https://auth.example.com"
	if err := cfg.Validate(); err != nil {
		t.Errorf("issuer alone should satisfy auth config: %v", err)
	}

	cfg.AuthIssuer = ""
	cfg.AuthPublicKeyFile = "testdata/key.pem"
	if err := cfg.Validate(); err != nil {
		t.Errorf("public key file alone should satisfy auth config: %v", err)
	}
}

func TestValidate_AuditSink(t *testing.T) {
	cfg := baseConfig()
	cfg.AuditSink = "kafka"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown audit sink")
	}
	cfg.AuditSink = "postgres"
	if err := cfg.Validate(); err != nil {
		t.Errorf("postgres sink should be accepted: %v", err)
	}
}

func TestValidate_PoolBounds(t *testing.T) {
	cfg := baseConfig()
	cfg.DBMinConns = 50
	if err := cfg.Validate(); err == nil {
		t.Error("expected error when min conns exceed max conns")
	}
}

func TestValidate_RequestTimeout(t *testing.T) {
	cfg := baseConfig()
	cfg.RequestTimeout = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for non-positive request timeout")
	}
}

func TestIsDev(t *testing.T) {
	cfg := baseConfig()
	if !cfg.IsDev() {
		t.Error("expected IsDev for ENV=development")
	}
	cfg.Env = "production"
	if cfg.IsDev() {
		t.Error("did not expect IsDev for ENV=production")
	}
	if !cfg.IsProduction() {
		t.Error("expected IsProduction for ENV=production")
	}
}
