package docs

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

// newTestRootCmd builds a small tree shaped like the relpub CLI.
func newTestRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:         "relpub",
		Short:       "Publish service container images under a release tag",
		Long:        "relpub tags and pushes every configured service image.",
		Annotations: map[string]string{"versionInfo": "relpub version 1.2.0 (2026-01-02)\n"},
	}
	root.PersistentFlags().BoolP("debug", "D", false, "Enable debug logging")
	root.PersistentFlags().StringP("config", "c", "", "Path to the configuration file")

	publish := &cobra.Command{
		Use:   "publish [RELEASE_TAG]",
		Short: "Tag and push every service image under a release tag",
		Long:  "For each configured service, tags and pushes the standard and debug images.",
		Example: `  # Publish release v0.12.0
  relpub publish v0.12.0`,
		Run: func(*cobra.Command, []string) {},
	}
	publish.Flags().Bool("dry-run", false, "Print the steps without tagging or pushing")
	publish.Flags().String("backend", "engine", "Image store")

	config := &cobra.Command{Use: "config", Short: "Manage configuration"}
	config.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Validate the configuration",
		Run:   func(*cobra.Command, []string) {},
	})

	hidden := &cobra.Command{
		Use:    "internal",
		Short:  "Not documented",
		Hidden: true,
		Run:    func(*cobra.Command, []string) {},
	}

	root.AddCommand(publish, config, hidden)
	return root
}

func findCmd(t *testing.T, root *cobra.Command, args ...string) *cobra.Command {
	t.Helper()
	cmd, _, err := root.Find(args)
	if err != nil {
		t.Fatalf("finding %v: %v", args, err)
	}
	return cmd
}

func TestNonHiddenCommands(t *testing.T) {
	root := newTestRootCmd()

	var names []string
	for _, c := range nonHiddenCommands(root) {
		names = append(names, c.Name())
	}
	assert.Equal(t, []string{"config", "publish"}, names)
}

func TestVersionInfo(t *testing.T) {
	root := newTestRootCmd()
	check := findCmd(t, root, "config", "check")

	assert.Equal(t, "relpub version 1.2.0 (2026-01-02)", versionInfo(check))
}

func TestJoinedPath(t *testing.T) {
	root := newTestRootCmd()
	check := findCmd(t, root, "config", "check")

	assert.Equal(t, "relpub-config-check", joinedPath(check, "-"))
	assert.Equal(t, "relpub_config_check", joinedPath(check, "_"))
}
