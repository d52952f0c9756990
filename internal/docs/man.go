package docs

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/cpuguy83/go-md2man/v2/md2man"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// GenManHeader contains man page metadata
type GenManHeader struct {
	Title   string
	Section string
	Date    *time.Time
	Source  string
	Manual  string
}

// GenManTree generates section 1 man pages for cmd and all subcommands.
func GenManTree(cmd *cobra.Command, dir string) error {
	header := &GenManHeader{
		Section: "1",
		Source:  versionInfo(cmd),
		Manual:  "relpub Manual",
	}
	return genTree(cmd, dir,
		func(c *cobra.Command) string { return joinedPath(c, "-") + "." + header.Section },
		func(c *cobra.Command, w io.Writer) error { return GenMan(c, header, w) })
}

// GenMan generates a man page for a single command.
func GenMan(cmd *cobra.Command, header *GenManHeader, w io.Writer) error {
	if header == nil {
		header = &GenManHeader{}
	}
	if header.Section == "" {
		header.Section = "1"
	}

	_, err := w.Write(md2man.Render(genMan(cmd, header)))
	return err
}

func genMan(cmd *cobra.Command, header *GenManHeader) []byte {
	cmd.InitDefaultHelpFlag()

	buf := new(bytes.Buffer)
	name := cmd.CommandPath()

	title := header.Title
	if title == "" {
		title = strings.ToUpper(joinedPath(cmd, "-"))
	}
	date := ""
	if header.Date != nil {
		date = header.Date.Format("Jan 2006")
	}
	fmt.Fprintf(buf, "%% %s(%s) %s | %s\n\n", title, header.Section, date, header.Manual)

	buf.WriteString("# NAME\n")
	fmt.Fprintf(buf, "%s \\- %s\n\n", name, cmd.Short)

	buf.WriteString("# SYNOPSIS\n")
	fmt.Fprintf(buf, "**%s**\n\n", cmd.UseLine())

	if cmd.Long != "" {
		buf.WriteString("# DESCRIPTION\n")
		buf.WriteString(cmd.Long + "\n\n")
	}

	if subs := nonHiddenCommands(cmd); len(subs) > 0 {
		buf.WriteString("# COMMANDS\n")
		for _, c := range subs {
			fmt.Fprintf(buf, "**%s**\n: %s\n\n", c.Name(), c.Short)
		}
	}

	flags, inherited := cmd.NonInheritedFlags(), cmd.InheritedFlags()
	if flags.HasAvailableFlags() {
		buf.WriteString("# OPTIONS\n")
		manPrintFlags(buf, flags)
	}
	if inherited.HasAvailableFlags() {
		buf.WriteString("# GLOBAL OPTIONS\n")
		manPrintFlags(buf, inherited)
	}

	if cmd.Example != "" {
		buf.WriteString("# EXAMPLES\n")
		buf.WriteString("```\n" + cmd.Example + "\n```\n\n")
	}

	manPrintSeeAlso(buf, cmd, header.Section)

	if header.Source != "" {
		buf.WriteString("# VERSION\n")
		buf.WriteString(header.Source + "\n")
	}
	return buf.Bytes()
}

func manPrintFlags(buf *bytes.Buffer, flags *pflag.FlagSet) {
	var list []*pflag.Flag
	flags.VisitAll(func(f *pflag.Flag) {
		if !f.Hidden {
			list = append(list, f)
		}
	})
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })

	for _, f := range list {
		if f.Shorthand != "" {
			fmt.Fprintf(buf, "**-%s**, **--%s**", f.Shorthand, f.Name)
		} else {
			fmt.Fprintf(buf, "**--%s**", f.Name)
		}
		if t := f.Value.Type(); t != "bool" {
			fmt.Fprintf(buf, " <%s>", t)
		}
		buf.WriteString("\n: " + f.Usage)
		if hasDefault(f.DefValue) {
			fmt.Fprintf(buf, " (default: %s)", f.DefValue)
		}
		buf.WriteString("\n\n")
	}
}

func manPrintSeeAlso(buf *bytes.Buffer, cmd *cobra.Command, section string) {
	var refs []string
	if cmd.HasParent() {
		refs = append(refs, fmt.Sprintf("**%s(%s)**", joinedPath(cmd.Parent(), "-"), section))
	}
	for _, c := range nonHiddenCommands(cmd) {
		refs = append(refs, fmt.Sprintf("**%s(%s)**", joinedPath(c, "-"), section))
	}
	if len(refs) == 0 {
		return
	}
	buf.WriteString("# SEE ALSO\n")
	buf.WriteString(strings.Join(refs, ", ") + "\n\n")
}

func hasDefault(v string) bool {
	switch v {
	case "", "false", "0", "[]":
		return false
	}
	return true
}
