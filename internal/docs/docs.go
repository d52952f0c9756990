// Package docs renders reference documentation for the relpub command tree.
package docs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

// genTree writes one file per visible command in the tree rooted at cmd.
func genTree(cmd *cobra.Command, dir string, filename func(*cobra.Command) string, gen func(*cobra.Command, io.Writer) error) error {
	for _, c := range nonHiddenCommands(cmd) {
		if err := genTree(c, dir, filename, gen); err != nil {
			return err
		}
	}

	path := filepath.Join(dir, filename(cmd))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer f.Close()

	return gen(cmd, f)
}

// nonHiddenCommands returns the documented subcommands of cmd.
func nonHiddenCommands(cmd *cobra.Command) []*cobra.Command {
	var cmds []*cobra.Command
	for _, c := range cmd.Commands() {
		if c.Hidden || !c.IsAvailableCommand() || c.Name() == "help" {
			continue
		}
		cmds = append(cmds, c)
	}
	return cmds
}

// versionInfo reads the version line the root command carries in its
// "versionInfo" annotation.
func versionInfo(cmd *cobra.Command) string {
	return strings.TrimSpace(cmd.Root().Annotations["versionInfo"])
}

func joinedPath(cmd *cobra.Command, sep string) string {
	return strings.ReplaceAll(cmd.CommandPath(), " ", sep)
}
