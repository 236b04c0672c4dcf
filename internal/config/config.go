// Package config provides the configuration schema, loader, and file
// watcher for the ordervox voice-order server.
package config

// LogLevel controls log verbosity for the ordervox server.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Mode selects the matching strictness of the understanding engine.
type Mode string

const (
	// ModeNormal is the default open-mic operating mode.
	ModeNormal Mode = "normal"

	// ModeNoisy is the push-to-talk mode for loud environments; it
	// raises the auto-accept thresholds so fewer misheard names are
	// committed without asking.
	ModeNoisy Mode = "noisy"
)

// IsValid reports whether m is a recognised mode.
func (m Mode) IsValid() bool {
	return m == ModeNormal || m == ModeNoisy
}

// Config is the root configuration structure for ordervox.
// It is typically loaded from a YAML file using [Load] or [LoadFromReader].
type Config struct {
	Server ServerConfig `yaml:"server"`
	Order  OrderConfig  `yaml:"order"`
}

// ServerConfig holds network and logging settings for the server.
type ServerConfig struct {
	// ListenAddr is the TCP address the server listens on (e.g., ":8080").
	ListenAddr string `yaml:"listen_addr"`

	// LogLevel controls verbosity.
	LogLevel LogLevel `yaml:"log_level"`

	// TLS configures TLS for the server. When nil, the server runs plain HTTP.
	TLS *TLSConfig `yaml:"tls"`
}

// TLSConfig holds TLS certificate paths for enabling HTTPS.
type TLSConfig struct {
	// CertFile is the path to the PEM-encoded TLS certificate.
	CertFile string `yaml:"cert_file"`

	// KeyFile is the path to the PEM-encoded TLS private key.
	KeyFile string `yaml:"key_file"`
}

// OrderConfig holds the voice-order engine settings.
type OrderConfig struct {
	// CatalogPath is the YAML product catalog loaded at startup.
	CatalogPath string `yaml:"catalog_path"`

	// DefaultLanguage is the language assumed for a new session when
	// the client does not pick one ("en", "tr", "de", "fr").
	DefaultLanguage string `yaml:"default_language"`

	// Mode selects normal or noisy matching strictness.
	Mode Mode `yaml:"mode"`

	// PaymentMethods lists the methods offered at recap (e.g. "card",
	// "cash"). An order cannot be confirmed while this is empty.
	PaymentMethods []string `yaml:"payment_methods"`

	// UndoDepth overrides the draft's undo-history bound. Zero keeps
	// the built-in default.
	UndoDepth int `yaml:"undo_depth"`
}
