package config

// ConfigDiff describes what changed between two configs.
// Only fields that can be safely hot-reloaded are tracked; the listen
// address and TLS settings require a restart and are not covered.
type ConfigDiff struct {
	LogLevelChanged bool
	NewLogLevel     LogLevel

	CatalogChanged bool
	NewCatalogPath string

	ModeChanged bool
	NewMode     Mode

	PaymentMethodsChanged bool
	NewPaymentMethods     []string
}

// Changed reports whether any reloadable setting differs.
func (d ConfigDiff) Changed() bool {
	return d.LogLevelChanged || d.CatalogChanged || d.ModeChanged || d.PaymentMethodsChanged
}

// Diff compares old and new configs and returns what changed.
// Only tracks changes that are safe to apply without restart.
func Diff(old, new *Config) ConfigDiff {
	d := ConfigDiff{}

	if old.Server.LogLevel != new.Server.LogLevel {
		d.LogLevelChanged = true
		d.NewLogLevel = new.Server.LogLevel
	}

	if old.Order.CatalogPath != new.Order.CatalogPath {
		d.CatalogChanged = true
		d.NewCatalogPath = new.Order.CatalogPath
	}

	if old.Order.Mode != new.Order.Mode {
		d.ModeChanged = true
		d.NewMode = new.Order.Mode
	}

	if !equalStrings(old.Order.PaymentMethods, new.Order.PaymentMethods) {
		d.PaymentMethodsChanged = true
		d.NewPaymentMethods = new.Order.PaymentMethods
	}

	return d
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
