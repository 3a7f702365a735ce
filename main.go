package main

// shop            - interactive menu (default when no command is given)
// shop products   - print the catalog
// shop history    - print a user's completed purchases
// shop serve      - JSON HTTP API:
//   POST /users           - log in or create a user
//   GET  /products/list   - list products
//   POST /cart/add        - add a product to a cart
//   POST /cart/remove     - remove a product from a cart
//   POST /cart/clear      - empty a cart
//   GET  /cart/list       - list a cart
//   POST /checkout/order  - check out
//   GET  /orders/list     - list completed purchases

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"

	"shop-simulator/cli"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cli.Register(commander)

	flag.Parse()
	if flag.NArg() == 0 {
		// the interactive shop is the default
		if err := flag.CommandLine.Parse(append(os.Args[1:], "shop")); err != nil {
			os.Exit(int(subcommands.ExitUsageError))
		}
	}
	os.Exit(int(commander.Execute(context.Background())))
}
