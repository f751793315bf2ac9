package cli

import (
	"flag"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"logship/internal/global"
)

const (
	RootCLICommand  string = "root"
	baseIndent      int    = 2
	helpMenuTrailer string = `
Exit status is 1 when startup fails or the source ends with a read error.
`
)

// Usage line, description, subcommands and deduplicated options for one command
func PrintHelpMenu(fs *flag.FlagSet, command string, rootCmd *global.CommandSet) {
	out := fs.Output()

	cmdSet := rootCmd
	if command != "" && command != RootCLICommand {
		var found bool
		cmdSet, found = rootCmd.ChildCommands[command]
		if !found {
			fmt.Fprintf(out, "Unknown command: %s\n", command)
			return
		}
	}

	usage := []string{os.Args[0]}
	if cmdSet != rootCmd {
		usage = append(usage, cmdSet.CommandName)
	}
	if len(cmdSet.ChildCommands) > 0 {
		usage = append(usage, "[subcommand]")
	}
	if cmdSet.UsageOption != "" {
		usage = append(usage, cmdSet.UsageOption)
	}
	fmt.Fprintf(out, "Usage: %s\n\n", strings.Join(usage, " "))

	if cmdSet == rootCmd {
		fmt.Fprintf(out, "%s\n%s\n\n", cmdSet.Description, cmdSet.FullDescription)
	} else if cmdSet.FullDescription != "" {
		fmt.Fprintf(out, "  Description:\n    %s\n\n", cmdSet.FullDescription)
	}

	if len(cmdSet.ChildCommands) > 0 {
		names := slices.Sorted(maps.Keys(cmdSet.ChildCommands))
		width := 0
		for _, name := range names {
			width = max(width, len(name))
		}

		fmt.Fprintf(out, "%sSubcommands:\n", strings.Repeat(" ", baseIndent))
		for _, name := range names {
			fmt.Fprintf(out, "%s%-*s  - %s\n", strings.Repeat(" ", baseIndent+2), width, name, cmdSet.ChildCommands[name].Description)
		}
		fmt.Fprintln(out)
	}

	printFlagOptions(out, fs)

	if cmdSet == rootCmd {
		fmt.Fprint(out, helpMenuTrailer)
	}
}

type optInfo struct {
	short      string
	long       []string
	usage      string
	defaultVal string
}

func (opt optInfo) names() string {
	names := make([]string, 0, len(opt.long)+1)
	if opt.short != "" {
		names = append(names, "-"+opt.short)
	}
	for _, long := range opt.long {
		names = append(names, "--"+long)
	}
	return strings.Join(names, ", ")
}

// Groups flags sharing a usage text so "-v, --verbosity" prints once.
// Options without a short form are indented to line up with long names.
func printFlagOptions(out io.Writer, fs *flag.FlagSet) {
	byUsage := make(map[string]*optInfo)
	var order []*optInfo

	fs.VisitAll(func(arg *flag.Flag) {
		opt, seen := byUsage[arg.Usage]
		if !seen {
			opt = &optInfo{usage: arg.Usage, defaultVal: arg.DefValue}
			byUsage[arg.Usage] = opt
			order = append(order, opt)
		}
		if len(arg.Name) == 1 {
			opt.short = arg.Name
		} else {
			opt.long = append(opt.long, arg.Name)
		}
	})

	sortKey := func(opt *optInfo) string {
		if opt.short != "" {
			return strings.ToLower(opt.short)
		}
		return strings.ToLower(opt.long[0])
	}
	slices.SortFunc(order, func(a, b *optInfo) int {
		return strings.Compare(sortKey(a), sortKey(b))
	})

	const shortSlot = len("-x, ")
	width := 0
	for _, opt := range order {
		left := len(opt.names())
		if opt.short == "" {
			left += shortSlot
		}
		width = max(width, left)
	}

	fmt.Fprintf(out, "%sOptions:\n", strings.Repeat(" ", baseIndent))
	for _, opt := range order {
		left := opt.names()
		if opt.short == "" {
			left = strings.Repeat(" ", shortSlot) + left
		}

		desc := opt.usage
		if opt.defaultVal != "" && opt.defaultVal != "false" && opt.defaultVal != "0" && opt.defaultVal != "[]" {
			desc += fmt.Sprintf(" [default: %s]", opt.defaultVal)
		}
		fmt.Fprintf(out, "%s%-*s  %s\n", strings.Repeat(" ", baseIndent), width, left, desc)
	}
}
