package convert

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"scheintool/internal"
	"scheintool/internal/errors"
)

// SofficeConverter converts legacy workbooks with a headless LibreOffice
type SofficeConverter struct {
	executable string
	outDir     string
	logger     *internal.Logger
}

// NewSofficeConverter creates a converter. An empty outDir writes the
// converted file next to its source.
func NewSofficeConverter(executable, outDir string, logger *internal.Logger) *SofficeConverter {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &SofficeConverter{executable: executable, outDir: outDir, logger: logger}
}

// ToXLSX implements ports.Converter
func (c *SofficeConverter) ToXLSX(ctx context.Context, path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", errors.FileNotFound(path)
	}
	outDir := c.outDir
	if outDir == "" {
		outDir = filepath.Dir(path)
	}

	cmd := exec.CommandContext(ctx, c.executable,
		"--headless", "--convert-to", "xlsx", "--outdir", outDir, path)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	c.logger.Debug("[Converter] Running %s", strings.Join(cmd.Args, " "))
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", errors.ExternalServiceError("libreoffice", fmt.Errorf("conversion of %s failed: %s", path, msg))
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	converted := filepath.Join(outDir, base+".xlsx")
	if _, err := os.Stat(converted); err != nil {
		return "", errors.ExternalServiceError("libreoffice",
			fmt.Errorf("no output produced for %s: %s", path, strings.TrimSpace(stdout.String())))
	}
	c.logger.Info("[Converter] %s converted to %s", filepath.Base(path), converted)
	return converted, nil
}
