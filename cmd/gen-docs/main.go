// gen-docs generates the relpub reference documentation (man pages and YAML)
// from the command tree, without needing a configured workspace.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/schmitthub/relpub/internal/cmd/root"
	"github.com/schmitthub/relpub/internal/cmdutil"
	"github.com/schmitthub/relpub/internal/docs"
	"github.com/schmitthub/relpub/internal/iostreams"
)

// Build-time variables set by ldflags.
var (
	Version   = "dev"
	BuildDate = ""
)

func main() {
	if err := run(os.Args, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, stderr io.Writer) error {
	flags := pflag.NewFlagSet("gen-docs", pflag.ContinueOnError)
	flags.SetOutput(stderr)

	var (
		flagDocPath string
		flagManPage bool
		flagYAML    bool
	)

	flags.StringVar(&flagDocPath, "doc-path", "", "Output directory for generated docs (required)")
	flags.BoolVar(&flagManPage, "man-page", false, "Generate man pages")
	flags.BoolVar(&flagYAML, "yaml", false, "Generate YAML reference")

	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage of %s:\n\n%s", filepath.Base(args[0]), flags.FlagUsages())
	}

	if err := flags.Parse(args[1:]); err != nil {
		return err
	}

	if flagDocPath == "" {
		return fmt.Errorf("--doc-path is required")
	}
	if !flagManPage && !flagYAML {
		return fmt.Errorf("at least one format must be specified (--man-page, --yaml)")
	}

	f := &cmdutil.Factory{Version: Version, IOStreams: iostreams.NewIOStreams()}
	rootCmd, err := root.NewCmdRoot(f, Version, BuildDate)
	if err != nil {
		return fmt.Errorf("building command tree: %w", err)
	}

	formats := []struct {
		enabled bool
		subdir  string
		label   string
		gen     func(dir string) error
	}{
		{flagManPage, "man", "man pages", func(dir string) error { return docs.GenManTree(rootCmd, dir) }},
		{flagYAML, "yaml", "YAML documentation", func(dir string) error { return docs.GenYamlTree(rootCmd, dir) }},
	}

	for _, format := range formats {
		if !format.enabled {
			continue
		}
		dir := filepath.Join(flagDocPath, format.subdir)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s directory: %w", format.subdir, err)
		}
		if err := format.gen(dir); err != nil {
			return fmt.Errorf("failed to generate %s: %w", format.label, err)
		}
		fmt.Fprintf(stderr, "Generated %s in %s\n", format.label, dir)
	}

	return nil
}
