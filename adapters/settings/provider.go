package settings

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"scheintool/internal"
	"scheintool/internal/errors"
	"scheintool/ports"
)

// Well-known LibreOffice locations
const (
	macOSSoffice   = "/Applications/LibreOffice.app/Contents/MacOS/soffice"
	windowsSoffice = `C:\Program Files\LibreOffice\program\soffice.exe`
)

// DefaultPath returns the settings file location for the current platform
func DefaultPath() (string, error) {
	return defaultPath(runtime.GOOS, os.Getenv("APPDATA"), os.UserHomeDir)
}

func defaultPath(goos, appData string, home func() (string, error)) (string, error) {
	if goos == "windows" {
		if appData == "" {
			return "", errors.ConfigInvalid("APPDATA is not set")
		}
		return filepath.Join(appData, "scheintool", "scheintool.yaml"), nil
	}
	dir, err := home()
	if err != nil {
		return "", errors.Wrap(err, "cannot determine home directory")
	}
	return filepath.Join(dir, ".config", "scheintool.yaml"), nil
}

// FileProvider reads host settings from a YAML file. When the file is
// missing or incomplete the LibreOffice path is guessed and written back.
type FileProvider struct {
	path     string
	goos     string
	lookPath func(string) (string, error)
	stat     func(string) (os.FileInfo, error)
	logger   *internal.Logger
}

// NewFileProvider creates a provider for path
func NewFileProvider(path string, logger *internal.Logger) *FileProvider {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &FileProvider{
		path:     path,
		goos:     runtime.GOOS,
		lookPath: exec.LookPath,
		stat:     os.Stat,
		logger:   logger,
	}
}

// Path returns the settings file location
func (p *FileProvider) Path() string {
	return p.path
}

// Load reads the file without guessing. A missing or empty file yields
// zero settings.
func (p *FileProvider) Load() (ports.Settings, error) {
	var s ports.Settings
	data, err := os.ReadFile(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, errors.Wrapf(err, "failed to read settings %s", p.path)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, errors.WithCode(errors.CodeConfigInvalid, fmt.Errorf("parse settings %s: %w", p.path, err))
	}
	s.LibreOfficeExec = strings.TrimSpace(s.LibreOfficeExec)
	return s, nil
}

// Save writes s, creating the parent directory if needed
func (p *FileProvider) Save(s ports.Settings) error {
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return errors.WriteError("failed to create settings directory", err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "failed to encode settings")
	}
	if err := os.WriteFile(p.path, data, 0o644); err != nil {
		return errors.WriteError("failed to write settings "+p.path, err)
	}
	return nil
}

// Settings implements ports.SettingsProvider
func (p *FileProvider) Settings(ctx context.Context) (ports.Settings, error) {
	s, err := p.Load()
	if err != nil {
		return s, err
	}
	if s.Complete() {
		return s, nil
	}

	guess := p.Guess()
	if guess == "" {
		p.logger.Warn("[Settings] LibreOffice not found, legacy .xls files cannot be converted (set libreoffice_exec in %s)", p.path)
		return s, nil
	}
	s.LibreOfficeExec = guess
	if err := p.Save(s); err != nil {
		// the guess is still usable for this run
		p.logger.Warn("[Settings] Could not store settings: %v", err)
		return s, nil
	}
	p.logger.Info("[Settings] Found LibreOffice at %s, saved to %s", guess, p.path)
	return s, nil
}

// Guess returns the platform's usual soffice location if it exists
func (p *FileProvider) Guess() string {
	var candidate string
	switch p.goos {
	case "linux":
		found, err := p.lookPath("soffice")
		if err != nil {
			return ""
		}
		candidate = found
	case "darwin":
		candidate = macOSSoffice
	case "windows":
		candidate = windowsSoffice
	default:
		return ""
	}
	info, err := p.stat(candidate)
	if err != nil || !info.Mode().IsRegular() {
		return ""
	}
	return candidate
}
