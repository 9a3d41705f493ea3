// Copyright © 2024 The ELPS authors

package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/luthersystems/kurt/docs"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetFlags(flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
}

// execute runs the root command with args and returns what it wrote.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	resetFlags(rootCmd.PersistentFlags())
	resetFlags(runCmd.Flags())
	resetFlags(docCmd.Flags())
	t.Cleanup(func() {
		resetFlags(rootCmd.PersistentFlags())
		resetFlags(runCmd.Flags())
		resetFlags(docCmd.Flags())
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRunExpression(t *testing.T) {
	stdout, stderr, err := execute(t, "run", "-e", "-p", "(+ 1 2)", `(print "hi")`)
	require.NoError(t, err)
	assert.Equal(t, "3\nhi\nnil\n", stdout)
	assert.Empty(t, stderr)
}

func TestRunSharedScope(t *testing.T) {
	stdout, _, err := execute(t, "run", "-e", "-p", "(def x 2)", "(* x 21)")
	require.NoError(t, err)
	assert.Equal(t, "{:x 2}\n42\n", stdout)
}

func TestRunFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.kurt")
	require.NoError(t, os.WriteFile(path, []byte(`
(def greet (name | print "hello" name))
(greet "kurt")
`), 0600))
	stdout, _, err := execute(t, "run", path)
	require.NoError(t, err)
	assert.Equal(t, "hello kurt\n", stdout)

	_, _, err = execute(t, "run", filepath.Join(dir, "missing.kurt"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, errReported)
}

func TestRunException(t *testing.T) {
	stdout, stderr, err := execute(t, "run", "-e", `(throw "boom")`)
	assert.ErrorIs(t, err, errReported)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "error: boom")
}

func TestRunParseError(t *testing.T) {
	_, stderr, err := execute(t, "run", "-e", "(+ 1")
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, stderr, "error: unmatched (")
	assert.Contains(t, stderr, "--> -e:1:1")
}

func TestRunSettings(t *testing.T) {
	stdout, _, err := execute(t, "--parser", "regex", "run", "-e", "-p", "(+ 1 2)")
	require.NoError(t, err)
	assert.Equal(t, "3\n", stdout)

	_, _, err = execute(t, "--parser", "nope", "run", "-e", "1")
	assert.ErrorContains(t, err, `unknown parser "nope"`)

	_, _, err = execute(t, "--color", "sometimes", "run", "-e", "1")
	assert.ErrorContains(t, err, "invalid color mode")

	_, _, err = execute(t, "--trace", "carrier-pigeon", "run", "-e", "1")
	assert.ErrorContains(t, err, "unknown trace mode")

	_, stderr, err := execute(t, "--debug", "run", "-e", "(+ 1 2)")
	require.NoError(t, err)
	assert.Contains(t, stderr, "op=apply")
}

func TestRunEnvironment(t *testing.T) {
	t.Setenv("KURT_MAX_STACK", "20")
	_, stderr, err := execute(t, "run", "-e", "(def f (| (f)))", "(f)")
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, stderr, "maximum stack height 20 exceeded")
}

func TestRunTraceCallgrind(t *testing.T) {
	path := filepath.Join(t.TempDir(), "callgrind.out")
	_, _, err := execute(t, "--trace", "callgrind", "--profile-file", path,
		"run", "-e", "(def f (| 1))", "(f)")
	require.NoError(t, err)
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(b)
	assert.Contains(t, out, "creator: kurt")
	assert.Contains(t, out, "events: Time_(ns) Memory_(bytes)")
	assert.Contains(t, out, "f@-e:1")
}

func TestRunTraceSpans(t *testing.T) {
	for _, mode := range []string{traceOTel, traceOpenCensus} {
		t.Run(mode, func(t *testing.T) {
			_, stderr, err := execute(t, "--trace", mode, "run", "-e", "(def f (| 1))", "(f)")
			require.NoError(t, err)
			assert.Contains(t, stderr, "msg=trace")
			assert.Contains(t, stderr, "span=f")
		})
	}
}

func TestDocCommand(t *testing.T) {
	stdout, _, err := execute(t, "doc")
	require.NoError(t, err)
	assert.Contains(t, stdout, "list.for-each")
	assert.Contains(t, stdout, "str.split")

	stdout, _, err = execute(t, "doc", "+")
	require.NoError(t, err)
	assert.Equal(t, "(+ vals...)\n  Returns the sum of its arguments, 0 when there are none.\n", stdout)

	_, _, err = execute(t, "doc", "nosuch")
	assert.EqualError(t, err, "no documentation for nosuch")

	stdout, _, err = execute(t, "doc", "--guide")
	require.NoError(t, err)
	assert.Equal(t, docs.LangGuide, stdout)
	assert.Contains(t, stdout, "# Kurt Language Guide")
}

func TestNewProfilerNone(t *testing.T) {
	p, finish, err := newProfiler(context.Background(), traceNone, "", nil)
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.Nil(t, finish)
	assert.Equal(t, "cpu.pprof", defaultProfileFile(tracePprof))
	assert.Equal(t, "callgrind.out", defaultProfileFile(traceCallgrind))
}
