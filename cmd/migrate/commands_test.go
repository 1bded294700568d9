package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMigrator struct {
	calls   []string
	steps   int
	target  uint
	forced  int
	version uint
	dirty   bool
	err     error
}

func (f *fakeMigrator) Up() error   { f.calls = append(f.calls, "up"); return f.err }
func (f *fakeMigrator) Down() error { f.calls = append(f.calls, "down"); return f.err }
func (f *fakeMigrator) Drop() error { f.calls = append(f.calls, "drop"); return f.err }

func (f *fakeMigrator) Steps(n int) error {
	f.calls = append(f.calls, "steps")
	f.steps = n
	return f.err
}

func (f *fakeMigrator) GoTo(v uint) error {
	f.calls = append(f.calls, "goto")
	f.target = v
	return f.err
}

func (f *fakeMigrator) Force(v int) error {
	f.calls = append(f.calls, "force")
	f.forced = v
	return f.err
}

func (f *fakeMigrator) Version() (uint, bool, error) { return f.version, f.dirty, f.err }

func TestNeedsDatabase(t *testing.T) {
	for _, cmd := range []string{"up", "down", "step", "goto", "version", "force", "drop"} {
		assert.True(t, needsDatabase(cmd), cmd)
	}
	for _, cmd := range []string{"create", "list", "verify"} {
		assert.False(t, needsDatabase(cmd), cmd)
	}
}

func TestRunSchemaCommand(t *testing.T) {
	t.Run("step down one", func(t *testing.T) {
		m := &fakeMigrator{}
		require.NoError(t, runSchemaCommand([]string{"step", "-1"}, m, &bytes.Buffer{}))
		assert.Equal(t, -1, m.steps)
	})

	t.Run("goto and force", func(t *testing.T) {
		m := &fakeMigrator{}
		require.NoError(t, runSchemaCommand([]string{"goto", "4"}, m, &bytes.Buffer{}))
		require.NoError(t, runSchemaCommand([]string{"force", "3"}, m, &bytes.Buffer{}))
		assert.Equal(t, uint(4), m.target)
		assert.Equal(t, 3, m.forced)
	})

	t.Run("version", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, runSchemaCommand([]string{"version"}, &fakeMigrator{version: 7, dirty: true}, &out))
		assert.Equal(t, "version=7 dirty=true\n", out.String())

		out.Reset()
		require.NoError(t, runSchemaCommand([]string{"version"}, &fakeMigrator{}, &out))
		assert.Equal(t, "version=none\n", out.String())
	})

	t.Run("drop needs confirmation", func(t *testing.T) {
		m := &fakeMigrator{}
		assert.Error(t, runSchemaCommand([]string{"drop"}, m, &bytes.Buffer{}))
		assert.Empty(t, m.calls)
		require.NoError(t, runSchemaCommand([]string{"drop", "-confirm"}, m, &bytes.Buffer{}))
		assert.Equal(t, []string{"drop"}, m.calls)
	})

	t.Run("migrator errors pass through", func(t *testing.T) {
		boom := errors.New("dirty database version 5")
		assert.ErrorIs(t, runSchemaCommand([]string{"up"}, &fakeMigrator{err: boom}, &bytes.Buffer{}), boom)
	})

	t.Run("bad arguments", func(t *testing.T) {
		m := &fakeMigrator{}
		assert.ErrorIs(t, runSchemaCommand([]string{"step"}, m, &bytes.Buffer{}), errUsage)
		assert.ErrorIs(t, runSchemaCommand([]string{"sideways"}, m, &bytes.Buffer{}), errUsage)
		assert.ErrorContains(t, runSchemaCommand([]string{"goto", "x"}, m, &bytes.Buffer{}), "invalid number")
		assert.Error(t, runSchemaCommand([]string{"goto", "0"}, m, &bytes.Buffer{}))
		assert.Error(t, runSchemaCommand([]string{"step", "0"}, m, &bytes.Buffer{}))
		assert.Empty(t, m.calls)
	})
}

func TestRunFileCommand_CreateThenList(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "migrations")
	src := source{dir: dir}

	var out bytes.Buffer
	require.NoError(t, runFileCommand([]string{"list"}, src, &out))
	assert.Equal(t, "no migrations found\n", out.String())

	out.Reset()
	require.NoError(t, runFileCommand([]string{"create", "Add lockers", "Lockers rented to members"}, src, &out))
	assert.Contains(t, out.String(), "000001")

	out.Reset()
	require.NoError(t, runFileCommand([]string{"list"}, src, &out))
	assert.Equal(t, "000001_add_lockers\n", out.String())

	require.NoError(t, runFileCommand([]string{"verify"}, src, &bytes.Buffer{}))
	require.NoError(t, os.Remove(filepath.Join(dir, "000001_add_lockers.down.sql")))
	assert.ErrorContains(t, runFileCommand([]string{"verify"}, src, &bytes.Buffer{}), "no down file")
}

func TestRunFileCommand_Embedded(t *testing.T) {
	src := source{embedded: true}

	var out bytes.Buffer
	require.NoError(t, runFileCommand([]string{"list"}, src, &out))
	assert.Contains(t, out.String(), "000004_dues\n")
	require.NoError(t, runFileCommand([]string{"verify"}, src, &bytes.Buffer{}))

	assert.Error(t, runFileCommand([]string{"create", "x"}, src, &bytes.Buffer{}))
	assert.ErrorIs(t, runFileCommand([]string{"create"}, source{dir: t.TempDir()}, &bytes.Buffer{}), errUsage)
}
