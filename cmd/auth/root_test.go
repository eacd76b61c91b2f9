package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasExpectedSubcommands(t *testing.T) {
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())

	for _, sub := range []string{"serve", "migrate"} {
		assert.Contains(t, buf.String(), sub, "Help missing %q command", sub)
	}
}

func TestMigrateCommand_SQLite(t *testing.T) {
	t.Setenv("AUTH_DATABASE_FILE", filepath.Join(t.TempDir(), "auth.db"))
	t.Setenv("LOG_LEVEL", "error")

	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"migrate"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "Migrations completed successfully")
}

func TestMigrateCommand_BadConfig(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")

	cmd := NewRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"migrate"})

	require.Error(t, cmd.Execute())
}
