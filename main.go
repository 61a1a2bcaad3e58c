package main

// storefront shop                     - interactive console session
// storefront serve                    - the same session over HTTP
// storefront catalog list [--kind]    - print the catalog
// storefront catalog restock <id> <n> - set one product's stock

import (
	"context"
	"fmt"
	"os"

	"storefront/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
