// Package cli implements newsctl, the admin tool for the publishing code and stored content
package cli

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	verbose bool
	noColor bool
}

// NewRootCmd builds the newsctl command tree. open is called once per invocation.
func NewRootCmd(open Opener, version string) *cobra.Command {
	opts := &rootOptions{}
	var app *App

	root := &cobra.Command{
		Use:   "newsctl",
		Short: "School news site administration",
		Long: `newsctl manages the school news site database.

Example usage:
  newsctl migrate              # Create or upgrade the schema and seed the code
  newsctl code show            # Print the active publishing code
  newsctl code verify 4242     # Check a code a writer was given
  newsctl code rotate          # Replace the code and post it to the webhook
  newsctl hook set <url>       # Set where new codes are announced
  newsctl articles --paper gazette --issue 3`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := zerolog.WarnLevel
			if opts.verbose {
				level = zerolog.DebugLevel
			}
			log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
				Level(level).
				With().
				Timestamp().
				Str("service", "newsctl").
				Logger()

			var err error
			app, err = open(cmd.Context(), log)
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app == nil {
				return nil
			}
			return app.finish()
		},
	}

	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")
	root.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	current := func() *App { return app }
	printer := func(cmd *cobra.Command) *Printer {
		return NewPrinter(cmd.OutOrStdout(), !opts.noColor)
	}

	root.AddCommand(
		newMigrateCmd(current, printer),
		newCodeCmd(current, printer),
		newHookCmd(current, printer),
		newStatusCmd(current, printer),
		newPapersCmd(current),
		newArticlesCmd(current),
	)
	return root
}
