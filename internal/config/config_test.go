package config_test

import (
	"strings"
	"testing"

	"github.com/ordervox/ordervox/internal/config"
)

const validYAML = `
server:
  listen_addr: ":8080"
  log_level: info
order:
  catalog_path: configs/menu.yaml
  default_language: tr
  mode: normal
  payment_methods: [card, cash]
  undo_depth: 10
`

func TestLoadFromReader_Valid(t *testing.T) {
	t.Parallel()
	cfg, err := config.LoadFromReader(strings.NewReader(validYAML))
	if err != nil {
		t.Fatalf("LoadFromReader returned error: %v", err)
	}
	if cfg.Server.ListenAddr != ":8080" {
		t.Errorf("listen_addr = %q, want %q", cfg.Server.ListenAddr, ":8080")
	}
	if cfg.Server.LogLevel != config.LogInfo {
		t.Errorf("log_level = %q, want info", cfg.Server.LogLevel)
	}
	if cfg.Order.CatalogPath != "configs/menu.yaml" {
		t.Errorf("catalog_path = %q", cfg.Order.CatalogPath)
	}
	if cfg.Order.DefaultLanguage != "tr" {
		t.Errorf("default_language = %q, want tr", cfg.Order.DefaultLanguage)
	}
	if cfg.Order.Mode != config.ModeNormal {
		t.Errorf("mode = %q, want normal", cfg.Order.Mode)
	}
	if cfg.Order.UndoDepth != 10 {
		t.Errorf("undo_depth = %d, want 10", cfg.Order.UndoDepth)
	}
}

func TestLoadFromReader_UnknownField(t *testing.T) {
	t.Parallel()
	yaml := validYAML + "\nextra_section:\n  foo: bar\n"
	if _, err := config.LoadFromReader(strings.NewReader(yaml)); err == nil {
		t.Fatal("expected error for unknown top-level field, got nil")
	}
}

func TestValidate_Errors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantSub string
	}{
		{
			name:    "bad log level",
			mutate:  func(c *config.Config) { c.Server.LogLevel = "bananas" },
			wantSub: "log_level",
		},
		{
			name:    "missing catalog",
			mutate:  func(c *config.Config) { c.Order.CatalogPath = "" },
			wantSub: "catalog_path",
		},
		{
			name:    "bad mode",
			mutate:  func(c *config.Config) { c.Order.Mode = "stealth" },
			wantSub: "mode",
		},
		{
			name:    "bad language",
			mutate:  func(c *config.Config) { c.Order.DefaultLanguage = "xx" },
			wantSub: "default_language",
		},
		{
			name:    "negative undo depth",
			mutate:  func(c *config.Config) { c.Order.UndoDepth = -1 },
			wantSub: "undo_depth",
		},
		{
			name: "duplicate payment methods",
			mutate: func(c *config.Config) {
				c.Order.PaymentMethods = []string{"card", "card"}
			},
			wantSub: "twice",
		},
		{
			name: "incomplete TLS",
			mutate: func(c *config.Config) {
				c.Server.TLS = &config.TLSConfig{CertFile: "server.crt"}
			},
			wantSub: "tls",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg, err := config.LoadFromReader(strings.NewReader(validYAML))
			if err != nil {
				t.Fatalf("base config should load: %v", err)
			}
			tt.mutate(cfg)
			err = config.Validate(cfg)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(strings.ToLower(err.Error()), tt.wantSub) {
				t.Errorf("error %q should mention %q", err, tt.wantSub)
			}
		})
	}
}

func TestValidate_UnknownPaymentMethodAllowed(t *testing.T) {
	t.Parallel()
	cfg, err := config.LoadFromReader(strings.NewReader(validYAML))
	if err != nil {
		t.Fatalf("base config should load: %v", err)
	}
	cfg.Order.PaymentMethods = []string{"card", "mealpass"}
	if err := config.Validate(cfg); err != nil {
		t.Errorf("unknown payment method should only warn, got error: %v", err)
	}
}
