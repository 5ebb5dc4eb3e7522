package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	var environment string

	var root = &cobra.Command{
		Use:          "docqa",
		Short:        "Ask questions about your PDF documents",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&environment, "env", "local", "environment, selects the .env.<env> file (local, prod, ...)")

	root.AddCommand(chatCMD(&environment), telegramCMD(&environment), stubBackendCMD(&environment))
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
