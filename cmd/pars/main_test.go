package main_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/IDGORRU/pars"
	main "github.com/IDGORRU/pars/cmd/pars"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints help with no arguments", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		m := main.NewMain()

		err := m.Run(context.Background(), nil, stdout, &bytes.Buffer{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no command specified")
		assert.Contains(t, stdout.String(), "Usage: pars")
	})

	t.Run("help lists commands", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		m := main.NewMain()

		err := m.Run(context.Background(), []string{"help"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		output := stdout.String()
		assert.Contains(t, output, "run")
		assert.Contains(t, output, "serve")
		assert.Contains(t, output, "history")
		assert.Contains(t, output, "show")
	})

	t.Run("rejects unknown mode at parse time", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		m.DBPath = filepath.Join(t.TempDir(), "pars.db")

		err := m.Run(context.Background(), []string{"run", "https://example.com", "--mode", "phones"}, &bytes.Buffer{}, &bytes.Buffer{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "--mode")
	})

	t.Run("history on a fresh database", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		m := main.NewMain()
		dbPath := filepath.Join(t.TempDir(), "nested", "pars.db")

		err := m.Run(context.Background(), []string{"--db", dbPath, "history"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Equal(t, dbPath, m.DBPath)
		assert.Equal(t, "No runs found.\n", stdout.String())
	})

	t.Run("show reports unknown run", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		m := main.NewMain()
		m.DBPath = filepath.Join(t.TempDir(), "pars.db")

		err := m.Run(context.Background(), []string{"show", "missing"}, &bytes.Buffer{}, stderr)

		require.Error(t, err)
		assert.Equal(t, pars.ENOTFOUND, pars.ErrorCode(err))
		assert.Contains(t, stderr.String(), "error:")
	})

	t.Run("rejects malformed proxy", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		m.DBPath = filepath.Join(t.TempDir(), "pars.db")

		err := m.Run(context.Background(), []string{"run", "https://example.com", "--proxy", "://bad"}, &bytes.Buffer{}, &bytes.Buffer{})

		require.Error(t, err)
		assert.Equal(t, pars.EINVALID, pars.ErrorCode(err))
	})

	t.Run("reports database open failure", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		m := main.NewMain()
		m.DBPath = t.TempDir()

		err := m.Run(context.Background(), []string{"history"}, &bytes.Buffer{}, stderr)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to open database")
		assert.Contains(t, stderr.String(), "PARS_DB")
	})
}
