package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scheintool/adapters/pdf"
	"scheintool/domain/course"
)

func TestFlagName(t *testing.T) {
	assert.Equal(t, "title-en", flagName(course.FieldTitleEN))
	assert.Equal(t, "ects", flagName(course.FieldECTS))
	assert.Equal(t, "beisitzer", flagName(course.FieldSupervisor))
}

func TestGenerateHelpNamesStrictDefault(t *testing.T) {
	cmd := newGenerateCmd()

	assert.Contains(t, cmd.Long, "strict by default")
	assert.Contains(t, cmd.Flags().Lookup("policy").Usage, "strict (default)")
}

func TestCourseInitAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kurs.yaml")

	initCmd := newCourseCmd()
	initCmd.SetArgs([]string{"init", path, "--degree", "bachelor"})
	initCmd.SetOut(&bytes.Buffer{})
	require.NoError(t, initCmd.Execute())

	var out bytes.Buffer
	showCmd := newCourseCmd()
	showCmd.SetArgs([]string{"show", path})
	showCmd.SetOut(&out)
	require.NoError(t, showCmd.Execute())

	assert.Contains(t, out.String(), "bachelor")
	assert.Contains(t, out.String(), "Vorlesung mit Übungen")
}

func TestLayoutDump(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "layouts")

	cmd := newLayoutCmd()
	cmd.SetArgs([]string{"dump", dir})
	cmd.SetOut(&bytes.Buffer{})
	require.NoError(t, cmd.Execute())

	l, err := pdf.LoadLayout(filepath.Join(dir, "master.yaml"))
	require.NoError(t, err)
	assert.Equal(t, pdf.DefaultLayouts()[course.DegreeMaster].Template, l.Template)
}
