package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shaharia-lab/stockroom/internal/config"
)

// NewRootCmd builds the stockroom command tree.
func NewRootCmd(cfg *config.AppConfig) *cobra.Command {
	root := &cobra.Command{
		Use:           "stockroom",
		Short:         "Event-driven inventory demo",
		Long:          "Stockroom runs small inventory agents that talk to each other through a synchronous in-process event bus.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(NewWebCmd(cfg))
	root.AddCommand(NewDemoCmd())
	root.AddCommand(NewUpdateCmd())
	root.AddCommand(NewVersionCmd())
	return root
}

// Execute loads configuration and runs the root command.
func Execute() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := NewRootCmd(cfg).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
