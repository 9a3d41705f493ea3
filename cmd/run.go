// Copyright © 2018 The ELPS authors

package cmd

import (
	"fmt"
	"os"

	"github.com/luthersystems/kurt/kurt/lib"
	"github.com/spf13/cobra"
)

var (
	runExpression bool
	runPrint      bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [flags] FILE...",
	Short: "Run kurt code",
	Long: `Run kurt code supplied via the command line or a file.  Every argument
is evaluated in one scope, in order.  The command exits with status 1 after
reporting the first parse error or uncaught exception.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer s.Close()
		k, err := lib.New(s.config...)
		if err != nil {
			return fmt.Errorf("language initialization failure: %w", err)
		}
		srcs, err := runReadExpressions(args)
		if err != nil {
			return err
		}
		scope := k.NewScope()
		for i, src := range srcs {
			name := args[i]
			if runExpression {
				name = "-e"
			}
			v, err := k.EvalSource(scope, name, string(src))
			if err != nil {
				k.Report(err)
				return errReported
			}
			if runPrint {
				fmt.Fprintln(cmd.OutOrStdout(), v.Repr())
			}
		}
		return nil
	},
}

func runReadExpressions(args []string) ([][]byte, error) {
	exprs := make([][]byte, len(args))
	if runExpression {
		for i := range args {
			exprs[i] = []byte(args[i])
		}
		return exprs, nil
	}
	for i, path := range args {
		b, err := os.ReadFile(path) //#nosec G304
		if err != nil {
			return nil, err
		}
		exprs[i] = b
	}
	return exprs, nil
}

func init() {
	rootCmd.AddCommand(runCmd)

	// Here flags for the run command are defined
	runCmd.Flags().BoolVarP(&runExpression, "expression", "e", false,
		"Interpret arguments as kurt expressions")
	runCmd.Flags().BoolVarP(&runPrint, "print", "p", false,
		"Print expression values to stdout")
}
