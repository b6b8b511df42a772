package main

import (
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "jira-gateway",
		Short:         "MCP gateway exposing Jira tools over stdio or HTTP",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "", "optional YAML config file; environment variables take precedence")

	root.AddCommand(newServeCmd(), newTokenCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		// stdout carries the stdio transport
		os.Stderr.WriteString("jira-gateway: " + err.Error() + "\n")
		os.Exit(1)
	}
}
