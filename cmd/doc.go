// Copyright © 2021 The ELPS authors

package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/luthersystems/kurt/docs"
	"github.com/luthersystems/kurt/kurt"
	"github.com/luthersystems/kurt/kurt/lib"
	"github.com/spf13/cobra"
)

var docGuide bool

// docCmd represents the doc command
var docCmd = &cobra.Command{
	Use:   "doc [NAME]",
	Short: "Show documentation for builtins",
	Long: `Show documentation for a builtin.  Without a name every documented
builtin is listed.  Methods are named after their receiver kind, as in
list.map or str.split.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if docGuide {
			_, err := io.WriteString(cmd.OutOrStdout(), docs.LangGuide)
			return err
		}
		k, err := docInterpreter()
		if err != nil {
			return err
		}
		out := bufio.NewWriter(cmd.OutOrStdout())
		defer out.Flush() //nolint:errcheck // best-effort flush on exit
		if len(args) == 0 {
			return lib.RenderIndex(out, k)
		}
		return docExec(out, k, args[0])
	},
}

// docInterpreter returns an interpreter with the standard library loaded.
func docInterpreter() (*kurt.Interpreter, error) {
	k, err := lib.New(kurt.WithStdout(io.Discard), kurt.WithStderr(os.Stderr))
	if err != nil {
		return nil, fmt.Errorf("language initialization failure: %w", err)
	}
	return k, nil
}

func docExec(w io.Writer, k *kurt.Interpreter, name string) error {
	if _, ok := k.Doc(name); !ok {
		return fmt.Errorf("no documentation for %s", name)
	}
	return lib.RenderDoc(w, k, name)
}

func init() {
	rootCmd.AddCommand(docCmd)

	docCmd.Flags().BoolVar(&docGuide, "guide", false, "Print the language guide.")
}
