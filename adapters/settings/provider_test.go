package settings

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scheintool/internal"
	"scheintool/internal/errors"
	"scheintool/ports"
)

func newTestProvider(t *testing.T, goos string, soffice string) *FileProvider {
	t.Helper()
	p := NewFileProvider(filepath.Join(t.TempDir(), "cfg", "scheintool.yaml"), internal.NewNopLogger())
	p.goos = goos
	p.lookPath = func(name string) (string, error) {
		if soffice == "" {
			return "", os.ErrNotExist
		}
		return soffice, nil
	}
	return p
}

func fakeExecutable(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "soffice")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755))
	return path
}

func TestSettingsReadsExistingFile(t *testing.T) {
	p := newTestProvider(t, "linux", "")
	require.NoError(t, p.Save(ports.Settings{LibreOfficeExec: "/opt/lo/soffice"}))

	s, err := p.Settings(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "/opt/lo/soffice", s.LibreOfficeExec)
}

func TestSettingsGuessesAndWritesBack(t *testing.T) {
	exe := fakeExecutable(t)
	p := newTestProvider(t, "linux", exe)

	s, err := p.Settings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, exe, s.LibreOfficeExec)

	stored, err := p.Load()
	require.NoError(t, err)
	assert.Equal(t, exe, stored.LibreOfficeExec)
}

func TestSettingsWithoutLibreOffice(t *testing.T) {
	p := newTestProvider(t, "linux", "")

	s, err := p.Settings(context.Background())

	require.NoError(t, err)
	assert.False(t, s.Complete())
	_, statErr := os.Stat(p.Path())
	assert.True(t, os.IsNotExist(statErr), "nothing to write back")
}

func TestSettingsRejectsBrokenYAML(t *testing.T) {
	p := newTestProvider(t, "linux", "")
	require.NoError(t, os.MkdirAll(filepath.Dir(p.Path()), 0o755))
	require.NoError(t, os.WriteFile(p.Path(), []byte("libreoffice_exec: [unclosed"), 0o644))

	_, err := p.Settings(context.Background())

	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrConfigInvalid))
}

func TestGuessPerPlatform(t *testing.T) {
	exe := fakeExecutable(t)

	tests := []struct {
		goos    string
		exists  string
		want    string
		comment string
	}{
		{"darwin", macOSSoffice, macOSSoffice, "app bundle"},
		{"windows", windowsSoffice, windowsSoffice, "program files"},
		{"darwin", "", "", "not installed"},
		{"plan9", "", "", "unknown platform"},
	}

	for _, tt := range tests {
		t.Run(tt.goos+" "+tt.comment, func(t *testing.T) {
			p := newTestProvider(t, tt.goos, "")
			p.stat = func(name string) (os.FileInfo, error) {
				if name == tt.exists {
					return os.Stat(exe)
				}
				return nil, os.ErrNotExist
			}
			assert.Equal(t, tt.want, p.Guess())
		})
	}
}

func TestDefaultPath(t *testing.T) {
	home := func() (string, error) { return "/home/erika", nil }

	got, err := defaultPath("linux", "", home)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/erika", ".config", "scheintool.yaml"), got)

	got, err = defaultPath("windows", "/appdata", home)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/appdata", "scheintool", "scheintool.yaml"), got)

	_, err = defaultPath("windows", "", home)
	assert.Error(t, err)
}
