package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_HasCommands(t *testing.T) {
	cmd := rootCmd()

	want := []string{
		"init", "validate", "freeze", "status", "report", "priority",
		"claim", "verify", "reject", "accept-risk", "discover", "dispose",
		"version",
	}
	got := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		got[sub.Name()] = true
	}

	for _, name := range want {
		assert.True(t, got[name], "missing command %s", name)
	}
}

func run(t *testing.T, args ...string) error {
	t.Helper()

	cmd := rootCmd()
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestInitAndValidate(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "failspec.yaml")
	ledger := filepath.Join(dir, "ledger.yaml")

	err := run(t,
		"init", "--feature", "checkout", "--created-by", "adversary@example.com",
		"--file", file, "--ledger", ledger)
	require.NoError(t, err)

	// Init refuses to overwrite.
	err = run(t, "init", "--feature", "checkout", "--file", file, "--ledger", ledger)
	require.Error(t, err)

	err = run(t, "validate", "--file", file, "--ledger", ledger)
	require.NoError(t, err)
}

func TestDiscoverAndDispose(t *testing.T) {
	dir := t.TempDir()
	ledger := filepath.Join(dir, "ledger.yaml")

	err := run(t, "discover", "race in refund path", "--by", "verifier@example.com", "--ledger", ledger)
	require.NoError(t, err)

	err = run(t, "dispose", "D001", "duplicate", "--ledger", ledger)
	require.NoError(t, err)

	err = run(t, "dispose", "D001", "promote", "--ledger", ledger)
	require.Error(t, err, "unknown disposition must be rejected")
}
