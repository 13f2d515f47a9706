package config

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scheintool/internal/errors"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"SCHEINTOOL_SETTINGS", "SCHEINTOOL_TEMPLATE_DIR", "SCHEINTOOL_LAYOUT_DIR",
		"SCHEINTOOL_LOCATION", "SCHEINTOOL_BIRTH_MARKER", "SCHEINTOOL_JOIN_POLICY", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultTemplateDir, cfg.Paths.TemplateDir)
	assert.Equal(t, DefaultLocation, cfg.Pipeline.Location)
	assert.Equal(t, " in ", cfg.Pipeline.BirthMarker)
	assert.Equal(t, "strict", cfg.Pipeline.JoinPolicy)
	assert.Equal(t, "INFO", cfg.Logging.Level)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SCHEINTOOL_TEMPLATE_DIR", "/opt/scheine")
	t.Setenv("SCHEINTOOL_LOCATION", "Garching")
	t.Setenv("SCHEINTOOL_BIRTH_MARKER", " / ")
	t.Setenv("SCHEINTOOL_JOIN_POLICY", "LENIENT")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/opt/scheine", cfg.Paths.TemplateDir)
	assert.Equal(t, "Garching", cfg.Pipeline.Location)
	assert.Equal(t, " / ", cfg.Pipeline.BirthMarker)
	assert.Equal(t, "lenient", cfg.Pipeline.JoinPolicy)
}

func TestLoadRejectsUnknownJoinPolicy(t *testing.T) {
	t.Setenv("SCHEINTOOL_JOIN_POLICY", "fuzzy")

	_, err := Load()
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrConfigInvalid))
}
