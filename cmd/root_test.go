package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repoforge/repoctl/internal/cmd"
)

func TestNewRootCmd(t *testing.T) {
	rootCmd, err := NewRootCmd(&cmd.BaseCmd{})
	require.NoError(t, err)
	require.NotNil(t, rootCmd)

	var names []string
	for _, sub := range rootCmd.Commands() {
		names = append(names, sub.Name())
	}

	for _, expected := range []string{"init", "update", "fetch", "list", "icons", "serve"} {
		assert.Contains(t, names, expected)
	}

	// Global flags registered.
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config-file"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("log-level"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("log-path"))
}
