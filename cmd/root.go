// Copyright © 2018 The ELPS authors

package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/luthersystems/kurt/kurt"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// errReported is returned by commands that have already rendered their
// failure to stderr.
var errReported = errors.New("error reported")

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "kurt",
	Short: "Kurt, a tiny prototype-based language",
	Long: `Kurt is a small interpreted language with one evaluation rule: a
parenthesized form applies its first element to the rest.  Scopes, objects
and argument frames are all dicts, and blocks are the only kind of function.

Getting started:
  kurt run file.kurt           Run a source file
  kurt run -e '(+ 1 2)' -p     Evaluate an expression and print its value
  kurt repl                    Start an interactive REPL
  kurt doc                     List documented builtins
  kurt doc list.map            Show documentation for a builtin

Settings may also come from $HOME/.kurt.yaml or KURT_* environment variables,
for example KURT_MAX_STACK=500 or KURT_TRACE=otel.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.kurt.yaml)")
	flags.Bool("debug", false, "Log every eval, apply and invoke at trace level")
	flags.String("parser", "rd", `Source reader: "rd" or "regex".`)
	flags.Int("max-stack", kurt.DefaultMaxStackHeight, "Maximum block frame depth (0 removes the limit)")
	flags.String("color", "auto", `Control colored output: "auto", "always", or "never".`)
	flags.String("trace", "none", `Profile block invocations: "none", "otel", "opencensus", "pprof" or "callgrind".`)
	flags.String("profile-file", "", "Output path of the pprof or callgrind profile (default cpu.pprof or callgrind.out)")
	for _, name := range []string{"debug", "parser", "max-stack", "color", "trace", "profile-file"} {
		if err := viper.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		// Search config in home directory with name ".kurt" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".kurt")
	}

	viper.SetEnvPrefix("kurt")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil && viper.GetBool("debug") {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
