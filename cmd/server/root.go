package main

import "github.com/spf13/cobra"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "storefront",
		Short: "Storefront API server",
		Long: `storefront serves the shop API: accounts, catalog, orders, carts and reviews,
guarded by signed session credentials and per-resource ownership checks.`,
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newMintTokenCmd())
	return root
}
