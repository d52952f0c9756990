package config

import (
	"github.com/spf13/cobra"

	"github.com/schmitthub/relpub/internal/cmd/config/check"
	initcmd "github.com/schmitthub/relpub/internal/cmd/config/init"
	"github.com/schmitthub/relpub/internal/cmdutil"
)

// NewCmdConfig creates the config command.
func NewCmdConfig(f *cmdutil.Factory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management commands",
		Long:  `Commands for creating and validating relpub configuration.`,
	}

	cmd.AddCommand(check.NewCmdCheck(f, nil))
	cmd.AddCommand(initcmd.NewCmdInit(f, nil))

	return cmd
}
