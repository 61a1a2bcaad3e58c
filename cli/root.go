// Package cli implements the storefront command line.
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"storefront/config"
)

// RootOptions holds the configuration shared by all commands. Environment
// values are loaded first; flags override them.
type RootOptions struct {
	Config   config.Config
	logLevel string
}

// NewRootCommand creates the root command for the storefront CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{Config: config.Load()}
	opts.logLevel = opts.Config.LogLevel.String()

	cmd := &cobra.Command{
		Use:           "storefront",
		Short:         "Single-session storefront with stock reservation and checkout",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.Config.LogLevel.UnmarshalText([]byte(opts.logLevel)); err != nil {
				return fmt.Errorf("invalid log level %q", opts.logLevel)
			}
			opts.Config.StoreKind = strings.ToLower(opts.Config.StoreKind)
			opts.Config.LogFormat = strings.ToLower(opts.Config.LogFormat)
			return opts.Config.Validate()
		},
	}

	// Global flags
	f := cmd.PersistentFlags()
	f.StringVar(&opts.Config.StoreKind, "store", opts.Config.StoreKind, "catalog store (file|postgres|sqlite3)")
	f.StringVar(&opts.Config.CatalogPath, "catalog", opts.Config.CatalogPath, "catalog file for the file store (.json, .yaml)")
	f.StringVar(&opts.Config.DSN, "dsn", opts.Config.DSN, "database DSN for the postgres and sqlite3 stores")
	f.StringVar(&opts.Config.LogFormat, "log-format", opts.Config.LogFormat, "log format (json|text)")
	f.StringVar(&opts.logLevel, "log-level", opts.logLevel, "log level (debug|info|warn|error)")

	cmd.AddCommand(NewShopCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewCatalogCommand(opts))

	return cmd
}
