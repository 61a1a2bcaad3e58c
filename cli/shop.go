package cli

import (
	"context"

	"github.com/spf13/cobra"

	"storefront/model"
)

// NewShopCommand runs the interactive console session.
func NewShopCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "shop",
		Short: "Start an interactive shopping session",
		Long: "Start an interactive shopping session on standard input. Reserved stock is\n" +
			"saved after every completed checkout and when the session ends.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := openSession(ctx, cmd, opts)
			if err != nil {
				return err
			}
			defer sess.Close(context.WithoutCancel(ctx))

			catalog, err := sess.loadCatalog(ctx)
			if err != nil {
				return err
			}

			con := newConsole(cmd.InOrStdin(), cmd.OutOrStdout())
			con.header()
			if catalog.Len() == 0 {
				con.println("[ERROR] No products could be loaded!")
				return NewExitError(ExitCommandError, "catalog is empty")
			}

			name, taxID := opts.Config.CustomerName, opts.Config.CustomerTaxID
			if name == "" || taxID == "" {
				con.println()
				con.println("[SIGN UP]")
			}
			if name == "" {
				if name, _ = con.prompt("Name: "); name == "" {
					name = "guest"
				}
			}
			if taxID == "" {
				taxID, _ = con.prompt("Tax ID: ")
			}
			con.println()
			con.printf("[WELCOME] Hello, %s!\n", name)

			con.svc = sess.newService(catalog, model.NewCustomer(name, taxID))
			return con.run(ctx)
		},
	}
}
