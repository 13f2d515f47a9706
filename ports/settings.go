package ports

import "context"

// Settings is the host-level configuration resolved before a run starts
type Settings struct {
	// LibreOfficeExec is the soffice binary used to convert legacy .xls
	// exports; empty disables conversion.
	LibreOfficeExec string `yaml:"libreoffice_exec"`
}

// Complete reports whether every setting has a value
func (s Settings) Complete() bool {
	return s.LibreOfficeExec != ""
}

// SettingsProvider resolves host settings. Implementations may read or
// bootstrap a settings file; the pipeline only sees the resolved value.
type SettingsProvider interface {
	Settings(ctx context.Context) (Settings, error)
}
