package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRead_DefaultsOnly(t *testing.T) {
	c, err := Read(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if c.JWT.TTLHours != 168 {
		t.Errorf("expected 7 day token ttl, got %d hours", c.JWT.TTLHours)
	}
	if c.App.HTTP.Port != 8000 {
		t.Errorf("expected default port 8000, got %d", c.App.HTTP.Port)
	}
	if c.DB.Driver != "sqlite" {
		t.Errorf("expected sqlite default driver, got %q", c.DB.Driver)
	}
	if len(c.CORS.AllowOrigins) != 1 || c.CORS.AllowOrigins[0] != "*" {
		t.Errorf("unexpected cors origins %v", c.CORS.AllowOrigins)
	}
}

func TestRead_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
app:
  http:
    port: 9090
jwt:
  secret: from-file
  issuer: tm-test
auth:
  adminInviteToken: invite-123
db:
  driver: postgres
  dsn: host=localhost
redis:
  addr: 127.0.0.1:6379
upload:
  driver: s3
  s3:
    bucket: avatars
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("APP_JWT_SECRET", "from-env")

	c, err := Read(path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if c.App.HTTP.Port != 9090 {
		t.Errorf("port = %d, want 9090", c.App.HTTP.Port)
	}
	if c.JWT.Secret != "from-env" {
		t.Errorf("env should override file, got %q", c.JWT.Secret)
	}
	if c.JWT.Issuer != "tm-test" {
		t.Errorf("issuer = %q", c.JWT.Issuer)
	}
	if c.Auth.AdminInviteToken != "invite-123" {
		t.Errorf("invite token = %q", c.Auth.AdminInviteToken)
	}
	if c.DB.Driver != "postgres" || c.DB.DSN != "host=localhost" {
		t.Errorf("db = %+v", c.DB)
	}
	if c.Redis.Addr != "127.0.0.1:6379" || c.Redis.TTLSec != 60 {
		t.Errorf("redis = %+v", c.Redis)
	}
	if c.Upload.Driver != "s3" || c.Upload.S3.Bucket != "avatars" || c.Upload.S3.Region != "auto" {
		t.Errorf("upload = %+v", c.Upload)
	}
}

func TestRead_SampleConfig(t *testing.T) {
	c, err := Read(filepath.Join("..", "..", "..", "configs", "config.local.yaml"))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if c.JWT.Secret == "" || c.Upload.Driver != "local" || c.DB.MaxOpenConns != 1 {
		t.Errorf("sample config not loaded: %+v", c)
	}
}
