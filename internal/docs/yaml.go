package docs

import (
	"io"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// CommandDoc represents YAML documentation structure for a command.
type CommandDoc struct {
	Name             string       `yaml:"name"`
	Version          string       `yaml:"version,omitempty"`
	Synopsis         string       `yaml:"synopsis,omitempty"`
	Description      string       `yaml:"description,omitempty"`
	Usage            string       `yaml:"usage,omitempty"`
	Options          []OptionDoc  `yaml:"options,omitempty"`
	InheritedOptions []OptionDoc  `yaml:"inherited_options,omitempty"`
	Commands         []CommandDoc `yaml:"commands,omitempty"`
	Examples         string       `yaml:"examples,omitempty"`
}

// OptionDoc represents YAML documentation for a command flag.
type OptionDoc struct {
	Name         string `yaml:"name"`
	Shorthand    string `yaml:"shorthand,omitempty"`
	DefaultValue string `yaml:"default_value,omitempty"`
	Usage        string `yaml:"usage"`
	Type         string `yaml:"type,omitempty"`
}

// GenYamlTree writes <command_path>.yaml for cmd and all its subcommands.
func GenYamlTree(cmd *cobra.Command, dir string) error {
	return genTree(cmd, dir,
		func(c *cobra.Command) string { return joinedPath(c, "_") + ".yaml" },
		GenYaml)
}

// GenYaml generates YAML documentation for a single command.
func GenYaml(cmd *cobra.Command, w io.Writer) error {
	cmd.InitDefaultHelpFlag()

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(buildCommandDoc(cmd)); err != nil {
		return err
	}
	return enc.Close()
}

func buildCommandDoc(cmd *cobra.Command) CommandDoc {
	doc := CommandDoc{
		Name:             cmd.CommandPath(),
		Synopsis:         cmd.Short,
		Description:      cmd.Long,
		Examples:         cmd.Example,
		Options:          collectFlags(cmd.NonInheritedFlags()),
		InheritedOptions: collectFlags(cmd.InheritedFlags()),
	}
	if !cmd.HasParent() {
		doc.Version = versionInfo(cmd)
	}
	if cmd.Runnable() {
		doc.Usage = cmd.UseLine()
	}

	for _, c := range nonHiddenCommands(cmd) {
		doc.Commands = append(doc.Commands, CommandDoc{Name: c.Name(), Synopsis: c.Short})
	}
	return doc
}

func collectFlags(fs *pflag.FlagSet) []OptionDoc {
	var opts []OptionDoc
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		opt := OptionDoc{
			Name:      f.Name,
			Shorthand: f.Shorthand,
			Usage:     f.Usage,
			Type:      f.Value.Type(),
		}
		if hasDefault(f.DefValue) {
			opt.DefaultValue = f.DefValue
		}
		opts = append(opts, opt)
	})

	sort.Slice(opts, func(i, j int) bool { return opts[i].Name < opts[j].Name })
	return opts
}
