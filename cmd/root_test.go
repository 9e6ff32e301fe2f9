package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	cmds := rootCmd.Commands()

	names := make(map[string]bool)
	for _, c := range cmds {
		names[c.Name()] = true
	}

	expected := []string{"relations", "analyze", "compare", "serve"}
	for _, name := range expected {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "compass-cli", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestRelationsCommand_Flags(t *testing.T) {
	for _, name := range []string{"shapefile", "data-dir", "partitions", "concurrency", "store"} {
		require.NotNil(t, relationsCmd.Flags().Lookup(name), "relations command should have --%s flag", name)
	}
	assert.Equal(t, "0", relationsCmd.Flags().Lookup("partitions").DefValue)
}

func TestAnalyzeCommand_Flags(t *testing.T) {
	require.NotNil(t, analyzeCmd.Flags().Lookup("data-dir"))
	require.NotNil(t, analyzeCmd.Flags().Lookup("store"))
}

func TestCompareCommand_Flags(t *testing.T) {
	for _, name := range []string{"wiki", "match", "shapefile", "output", "xlsx"} {
		require.NotNil(t, compareCmd.Flags().Lookup(name), "compare command should have --%s flag", name)
	}
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)
}
