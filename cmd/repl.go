// Copyright © 2018 The ELPS authors

package cmd

import (
	"os"
	"path/filepath"

	"github.com/luthersystems/kurt/repl"
	"github.com/spf13/cobra"
)

// replCmd represents the repl command
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive kurt REPL",
	Long: `Start an interactive read-eval-print loop for kurt.

The standard library is loaded automatically.  Unbalanced input continues on
the next line.  Command history is kept in ~/.kurt_history.  Use Ctrl-D to
exit.

Example REPL session:
  kurt> (def square (x | (* x x)))
  {:square (x | ...)}
  kurt> (square 5)
  25
  kurt> ((["a" "b"] :len))
  2
  kurt> (help list.map)
  ...`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd.Context(), os.Stderr, os.Stderr)
		if err != nil {
			return err
		}
		defer s.Close()
		return repl.RunRepl(filepath.Base(os.Args[0])+"> ", repl.WithInterpreterConfig(s.config...))
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}
