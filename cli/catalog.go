package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"storefront/model"
	"storefront/query"
	"storefront/store"
)

// NewCatalogCommand groups the catalog maintenance commands.
func NewCatalogCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect and maintain the catalog",
	}
	cmd.AddCommand(newCatalogListCommand(opts))
	cmd.AddCommand(newCatalogRestockCommand(opts))
	return cmd
}

func newCatalogListCommand(opts *RootOptions) *cobra.Command {
	var kind string
	var sortBy string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var c query.Criteria
			if kind != "" {
				k, err := model.ParseKind(kind)
				if err != nil {
					return WrapExitError(ExitCommandError, "invalid --kind", err)
				}
				c.Kind = k
			}
			c.Sort = query.SortOrder(sortBy)
			if !query.ValidSort(c.Sort) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid --sort %q", sortBy))
			}

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

			out := cmd.OutOrStdout()
			ps := c.Apply(catalog.Products())
			for i, p := range ps {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintln(out, p.Describe())
			}
			fmt.Fprintf(out, "\n%d product(s), average price $ %s\n", len(ps), model.Money(query.AveragePrice(ps)))
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "only list this kind (book|electronic)")
	cmd.Flags().StringVar(&sortBy, "sort", "", "order by price, -price or name")
	return cmd
}

func newCatalogRestockCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "restock <id> <stock>",
		Short: "Set the stock of one product",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid product id %q", args[0]))
			}
			stock, err := strconv.Atoi(args[1])
			if err != nil || stock < 0 {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid stock %q", args[1]))
			}

			ctx := cmd.Context()
			sess, err := openSession(ctx, cmd, opts)
			if err != nil {
				return err
			}
			defer sess.Close(context.WithoutCancel(ctx))

			previous, err := sess.store.GetStock(ctx, id)
			if err == nil {
				err = sess.store.UpdateStock(ctx, id, stock)
			}
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return WrapExitError(ExitCommandError, "restock", err)
				}
				return WrapExitError(ExitFailure, "restock", err)
			}
			sess.logger().InfoContext(ctx, "stock_set", "product_id", id, "previous", previous, "stock", stock)
			fmt.Fprintf(cmd.OutOrStdout(), "[OK] product %d stock set from %d to %d\n", id, previous, stock)
			return nil
		},
	}
}
