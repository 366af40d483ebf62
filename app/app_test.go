package app

import (
	"testing"

	"reel-service/pkg/config"
)

func TestResolveConfigPath(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("CONFIG_ENV", "")
	if got := resolveConfigPath(); got != "configs/config.dev.yaml" {
		t.Errorf("default path = %s, want configs/config.dev.yaml", got)
	}

	t.Setenv("CONFIG_ENV", "prod")
	if got := resolveConfigPath(); got != "configs/config_prod.yaml" {
		t.Errorf("prod path = %s, want configs/config_prod.yaml", got)
	}

	t.Setenv("CONFIG_ENV", "staging")
	if got := resolveConfigPath(); got != "configs/config.staging.yaml" {
		t.Errorf("staging path = %s, want configs/config.staging.yaml", got)
	}

	t.Setenv("CONFIG_PATH", "/etc/reel/config.yaml")
	if got := resolveConfigPath(); got != "/etc/reel/config.yaml" {
		t.Errorf("CONFIG_PATH override = %s, want /etc/reel/config.yaml", got)
	}
}

func TestRegisterAddr(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 8080

	// 监听地址与注册地址不同：0.0.0.0不能对外注册
	if got := cfg.Server.GetServerAddr(); got != "0.0.0.0:8080" {
		t.Errorf("listen addr = %s, want 0.0.0.0:8080", got)
	}
	if got := registerAddr(cfg); got != "127.0.0.1:8080" {
		t.Errorf("register addr = %s, want 127.0.0.1:8080", got)
	}

	cfg.ServiceRegistry.RegisterHost = "10.0.0.5"
	if got := registerAddr(cfg); got != "10.0.0.5:8080" {
		t.Errorf("register addr = %s, want 10.0.0.5:8080", got)
	}
}
