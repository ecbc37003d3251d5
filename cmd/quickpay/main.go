package main

import (
	"os"

	"github.com/spf13/cobra"

	"quickpay/internal/interfaces/cli/pay"
	"quickpay/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "quickpay",
		Short: "quickpay - Razorpay order server and terminal checkout",
		Long:  `quickpay creates Razorpay payment orders over HTTP and drives a checkout session from the terminal.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		pay.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
