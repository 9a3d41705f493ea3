// Copyright © 2018 The ELPS authors

package repl

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/luthersystems/kurt/diagnostic"
	"github.com/luthersystems/kurt/kurt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runReplWithString(t *testing.T, input string) string {
	t.Helper()
	inR, inW := io.Pipe()
	outR, outW := io.Pipe()

	go func() {
		defer inW.Close() //nolint:errcheck // test cleanup
		_, _ = io.WriteString(inW, input)
	}()

	errc := make(chan error, 1)
	go func() {
		errc <- RunRepl("kurt> ",
			WithStdin(inR),
			WithStderr(outW),
			WithHistory(false),
			WithInterpreterConfig(kurt.WithColor(diagnostic.ColorNever)))
		inR.Close()  //nolint:errcheck,gosec // test cleanup
		outW.Close() //nolint:errcheck,gosec // test cleanup
	}()

	var output bytes.Buffer
	_, _ = io.Copy(&output, outR)
	outR.Close() //nolint:errcheck,gosec // test cleanup
	require.NoError(t, <-errc)
	return output.String()
}

func TestRunRepl(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple addition", "(+ 1 1)\n", "2\n"},
		{"string result", "\"hi\"\n", "\"hi\"\n"},
		{"error", "nosuch\n", "error: name not found: nosuch"},
		{"help note", "(nosuch)\n", "= note: " + helpNote},
		{"parse error", ")\n", "error: unexpected token: )"},
		{"persistent scope", "(def x 41)\n(inc x)\n", "42\n"},
		{"multiple lines", "(+ 1\n2)\n", "3\n"},
		{"print", "(print \"out\")\n", "out\nnil\n"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Contains(t, runReplWithString(t, tc.input), tc.expected)
		})
	}
}

func TestRunEnvRequiresDict(t *testing.T) {
	k, err := kurt.New()
	require.NoError(t, err)
	assert.Error(t, RunEnv(k, kurt.Num(1), "> ", "  "))
}

func TestLineTokens(t *testing.T) {
	assert.Empty(t, lineTokens([]byte("   ")))
	toks := lineTokens([]byte("(a 1)"))
	require.Len(t, toks, 4)
	assert.Equal(t, "a", toks[1].Text)
}

func TestEnsureHistoryFilePermissionsCreatesWithRestrictedMode(t *testing.T) {
	histFile := filepath.Join(t.TempDir(), HistoryFile)
	ensureHistoryFilePermissions(histFile)
	info, err := os.Stat(histFile)
	require.NoError(t, err, "history file should be created")
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestEnsureHistoryFilePermissionsRestrictsExistingFile(t *testing.T) {
	histFile := filepath.Join(t.TempDir(), HistoryFile)
	require.NoError(t, os.WriteFile(histFile, []byte("some history"), 0644)) //#nosec G306
	ensureHistoryFilePermissions(histFile)

	info, err := os.Stat(histFile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	data, err := os.ReadFile(histFile) //#nosec G304
	require.NoError(t, err)
	assert.Equal(t, "some history", string(data))
}

func TestEnsureHistoryFilePermissionsEmptyPath(t *testing.T) {
	ensureHistoryFilePermissions("")
}
