package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/ordervox/ordervox/internal/lang"
)

// knownPaymentMethods lists the payment methods the recap flow can hint
// at. Used by [Validate] to warn about likely typos.
var knownPaymentMethods = []string{"card", "cash"}

// Load reads the YAML configuration file at path and returns a validated [Config].
// It is a convenience wrapper around [LoadFromReader] and [Validate].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r and validates the result.
// Useful in tests where configs are constructed from string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	// Server
	if cfg.Server.LogLevel != "" && !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}
	if cfg.Server.TLS != nil {
		if cfg.Server.TLS.CertFile == "" || cfg.Server.TLS.KeyFile == "" {
			errs = append(errs, errors.New("server.tls requires both cert_file and key_file"))
		}
	}

	// Order engine
	if cfg.Order.CatalogPath == "" {
		errs = append(errs, errors.New("order.catalog_path is required"))
	}
	if cfg.Order.Mode != "" && !cfg.Order.Mode.IsValid() {
		errs = append(errs, fmt.Errorf("order.mode %q is invalid; valid values: normal, noisy", cfg.Order.Mode))
	}
	if dl := cfg.Order.DefaultLanguage; dl != "" && !lang.Code(dl).IsValid() {
		errs = append(errs, fmt.Errorf("order.default_language %q is not supported; valid values: %v", dl, lang.Supported))
	}
	if cfg.Order.UndoDepth < 0 {
		errs = append(errs, fmt.Errorf("order.undo_depth %d must not be negative", cfg.Order.UndoDepth))
	}

	seen := make(map[string]struct{}, len(cfg.Order.PaymentMethods))
	for _, pm := range cfg.Order.PaymentMethods {
		if _, dup := seen[pm]; dup {
			errs = append(errs, fmt.Errorf("order.payment_methods lists %q twice", pm))
		}
		seen[pm] = struct{}{}
		if !slices.Contains(knownPaymentMethods, pm) {
			slog.Warn("unknown payment method — recap voice hints only cover card and cash", "method", pm)
		}
	}
	if len(cfg.Order.PaymentMethods) == 0 {
		slog.Warn("order.payment_methods is empty; orders cannot be confirmed until one is configured")
	}

	return errors.Join(errs...)
}
