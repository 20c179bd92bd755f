package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Server:  ServerConfig{Port: 8080},
		Auth:    AuthConfig{JWTSecret: "0123456789abcdef-secret"},
		OTP:     OTPConfig{Length: 6},
		Mail:    MailConfig{Provider: "console"},
		Storage: StorageConfig{Driver: "local"},
	}
}

func TestValidate_OK(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidate_Rejects(t *testing.T) {
	cases := map[string]func(c *Config){
		"empty secret":     func(c *Config) { c.Auth.JWTSecret = "" },
		"short secret":     func(c *Config) { c.Auth.JWTSecret = "short" },
		"bad port":         func(c *Config) { c.Server.Port = 70000 },
		"unknown mail":     func(c *Config) { c.Mail.Provider = "pigeon" },
		"unknown storage":  func(c *Config) { c.Storage.Driver = "tape" },
		"otp length small": func(c *Config) { c.OTP.Length = 2 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := validConfig()
			mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("expected validation error")
			}
		})
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("server:\n  port: 9090\nauth:\n  jwt_secret: file-secret-1234567890\notp:\n  ttl: 10m\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("CLASSROOM_STORAGE_BUCKET", "from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.OTP.TTL != 10*time.Minute {
		t.Errorf("expected otp ttl 10m, got %v", cfg.OTP.TTL)
	}
	if cfg.OTP.Length != 6 {
		t.Errorf("expected default otp length 6, got %d", cfg.OTP.Length)
	}
	if cfg.Storage.Bucket != "from-env" {
		t.Errorf("expected bucket from env, got %s", cfg.Storage.Bucket)
	}
	if cfg.Auth.AccessTokenTTL != 15*time.Minute {
		t.Errorf("expected default access ttl 15m, got %v", cfg.Auth.AccessTokenTTL)
	}
}
