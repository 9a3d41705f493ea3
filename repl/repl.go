// Copyright © 2018 The ELPS authors

// Package repl implements an interactive read-eval-print loop for kurt.
package repl

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"
	"github.com/luthersystems/kurt/kurt"
	"github.com/luthersystems/kurt/kurt/lib"
	"github.com/luthersystems/kurt/parser/lexer"
	"github.com/luthersystems/kurt/parser/rdparser"
	"github.com/luthersystems/kurt/parser/token"
)

// HistoryFile is the name of the file in the user's home directory holding
// REPL history.
const HistoryFile = ".kurt_history"

type config struct {
	stdin   io.ReadCloser
	stderr  io.Writer
	history bool
	kconfig []kurt.Config
}

func newConfig(opts ...Option) *config {
	c := &config{history: true}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Option configures a REPL.
type Option func(*config)

// WithStdin allows overriding the input to the REPL.
func WithStdin(stdin io.ReadCloser) Option {
	return func(c *config) {
		c.stdin = stdin
	}
}

// WithStderr allows overriding the output of the REPL.  Results, errors and
// prompts are all written to stderr.
func WithStderr(stderr io.Writer) Option {
	return func(c *config) {
		c.stderr = stderr
	}
}

// WithHistory controls whether input is saved to the history file.
func WithHistory(enabled bool) Option {
	return func(c *config) {
		c.history = enabled
	}
}

// WithInterpreterConfig passes config through to the interpreter created by
// RunRepl.
func WithInterpreterConfig(kconfig ...kurt.Config) Option {
	return func(c *config) {
		c.kconfig = append(c.kconfig, kconfig...)
	}
}

// RunRepl runs a repl on a new interpreter with the standard library loaded.
func RunRepl(prompt string, opts ...Option) error {
	cfg := newConfig(opts...)
	kconfig := cfg.kconfig
	if cfg.stderr != nil {
		kconfig = append(kconfig, kurt.WithStdout(cfg.stderr), kurt.WithStderr(cfg.stderr))
	}
	k, err := lib.New(kconfig...)
	if err != nil {
		return fmt.Errorf("language initialization failure: %w", err)
	}
	return RunEnv(k, k.NewScope(), prompt, strings.Repeat(" ", len(prompt)), opts...)
}

// RunEnv runs a repl evaluating input in env, a scope of k.  The loop ends
// when input is exhausted.
func RunEnv(k *kurt.Interpreter, env kurt.Expr, prompt, cont string, opts ...Option) error {
	if env.Kind != kurt.KDict {
		return errors.New("REPL environment is not a dict")
	}
	cfg := newConfig(opts...)
	if cfg.stderr != nil {
		k.Stderr = cfg.stderr
	}

	p := rdparser.NewInteractive(nil)
	p.SetPrompts(prompt, cont)

	rlCfg := &readline.Config{
		Stdout:            k.Stderr,
		Stderr:            k.Stderr,
		Prompt:            p.Prompt(),
		HistorySearchFold: true,
		AutoComplete:      &nameCompleter{k: k, env: env},
	}
	if cfg.history {
		rlCfg.HistoryFile = historyPath()
		ensureHistoryFilePermissions(rlCfg.HistoryFile)
	}
	if cfg.stdin != nil {
		rlCfg.Stdin = cfg.stdin
	}
	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		return err
	}
	defer rl.Close() //nolint:errcheck // best-effort cleanup

	p.Read = func() []*token.Token {
		rl.SetPrompt(p.Prompt())
		for {
			line, err := rl.ReadSlice()
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			if err != nil {
				return []*token.Token{{Type: token.EOF}}
			}
			return lineTokens(line)
		}
	}

	for {
		expr, err := p.Parse()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			renderError(k, err)
			continue
		}
		v, err := k.Eval(env, expr)
		if err != nil {
			renderError(k, err)
			continue
		}
		fmt.Fprintln(k.Stderr, v.Repr()) //nolint:errcheck // best-effort REPL output
	}
}

// lineTokens lexes one line of input.  An empty result makes the parser ask
// for another line.
func lineTokens(line []byte) []*token.Token {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return nil
	}
	lex := lexer.New(token.NewScanner("stdin", bytes.NewReader(line)))
	var tokens []*token.Token
	for {
		tok := lex.ReadToken()
		if tok.Type == token.EOF {
			return tokens
		}
		tokens = append(tokens, tok)
		if tok.Type == token.ERROR {
			return tokens
		}
	}
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, HistoryFile)
}

// ensureHistoryFilePermissions creates path if needed and restricts it to
// the owner, since history may contain secrets typed at the prompt.
func ensureHistoryFilePermissions(path string) {
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDONLY, 0600) //#nosec G304
	if err != nil {
		return
	}
	_ = f.Close()
	_ = os.Chmod(path, 0600)
}
