// Package cmd provides the command-line interface of handshakesim.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/tebeka/atexit"
)

const envPrefix = "HANDSHAKESIM_"

// NewRootCmd creates the root command with all its subcommands.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use: "handshakesim",
		Short: "handshakesim feeds items from a queue into a valid/ready " +
			"handshake and reports the transfers.",
		Long: `handshakesim feeds items from a queue into a valid/ready ` +
			`handshake through an adapter and lets a sink accept them ` +
			`according to a ready pattern. Every flag can also be set with ` +
			`an environment variable, for example HANDSHAKESIM_CYCLES for ` +
			`--cycles. Variables can be loaded from an env file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			envFile, err := cmd.Flags().GetString("env-file")
			if err != nil {
				return err
			}

			err = loadEnvFile(envFile, cmd.Flags().Changed("env-file"))
			if err != nil {
				return err
			}

			return applyEnv(cmd.Flags())
		},
	}

	rootCmd.PersistentFlags().String("env-file", ".env",
		"File that holds environment variables.")

	rootCmd.AddCommand(newRunCmd())

	return rootCmd
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := NewRootCmd().Execute()
	if err != nil {
		atexit.Exit(1)
	}
}

// loadEnvFile loads variables from a file. Variables that are already set are
// not overwritten. A missing file is only an error if it is requested
// explicitly.
func loadEnvFile(filename string, required bool) error {
	_, err := os.Stat(filename)
	if os.IsNotExist(err) && !required {
		return nil
	}

	err = godotenv.Load(filename)
	if err != nil {
		return errors.Wrapf(err, "loading env file %s", filename)
	}

	return nil
}

func envName(flagName string) string {
	return envPrefix + strings.ToUpper(strings.ReplaceAll(flagName, "-", "_"))
}

// applyEnv sets the flags that are not given on the command line from their
// environment variables.
func applyEnv(flags *pflag.FlagSet) error {
	var err error

	flags.VisitAll(func(f *pflag.Flag) {
		if err != nil || f.Changed || f.Name == "env-file" {
			return
		}

		value, found := os.LookupEnv(envName(f.Name))
		if !found {
			return
		}

		setErr := flags.Set(f.Name, value)
		if setErr != nil {
			err = errors.Wrapf(setErr,
				"invalid value %q in %s", value, envName(f.Name))
		}
	})

	return err
}

func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
