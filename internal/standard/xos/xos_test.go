// Copyright 2026 Peter Edge
//
// All rights reserved.

package xos

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("IBREPORT_TEST_DIR", "/tmp/reports")

	path, err := ExpandPath("~/statements/2025.csv")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(homeDir, "statements", "2025.csv"), path)

	path, err = ExpandPath("$IBREPORT_TEST_DIR/./2025.csv")
	require.NoError(t, err)
	require.Equal(t, "/tmp/reports/2025.csv", path)

	path, err = ExpandPath("~other/file.csv")
	require.NoError(t, err)
	require.Equal(t, "~other/file.csv", path)

	path, err = ExpandPath("")
	require.NoError(t, err)
	require.Equal(t, "", path)
}
