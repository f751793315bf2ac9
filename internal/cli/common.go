package cli

import (
	"flag"
	"strings"

	"logship/internal/global"
)

func SetGlobalArguments(fs *flag.FlagSet) {
	fs.IntVar(&global.Verbosity, "v", 1, "Increase detailed progress messages (Higher is more verbose) <0...5>")
	fs.IntVar(&global.Verbosity, "verbosity", 1, "Increase detailed progress messages (Higher is more verbose) <0...5>")
}

func SetCommon(fs *flag.FlagSet, configPath *string) {
	fs.StringVar(configPath, "c", "", "Path to the configuration file (JSON, or YAML by extension)")
	fs.StringVar(configPath, "config", "", "Path to the configuration file (JSON, or YAML by extension)")
}

// Repeatable string flag
type stringList []string

func (list *stringList) String() string {
	if list == nil {
		return ""
	}
	return strings.Join(*list, ",")
}

func (list *stringList) Set(value string) error {
	*list = append(*list, value)
	return nil
}

// Names of the flags given on the command line
func setFlags(fs *flag.FlagSet) (set map[string]bool) {
	set = make(map[string]bool)
	fs.Visit(func(arg *flag.Flag) {
		set[arg.Name] = true
	})
	return
}
