package cli

import (
	"flag"
	"fmt"
	"io"

	"logship/internal/global"
	"logship/internal/shipper"
)

// Prints setup artifacts to stdout
func ConfigureMode(commandname string, args []string, stdout, stderr io.Writer) (exitCode int) {
	var templateFormat, binaryPath, configPath string
	var systemdUnit bool

	commandFlags := flag.NewFlagSet(commandname, flag.ContinueOnError)
	commandFlags.SetOutput(stderr)
	commandFlags.StringVar(&templateFormat, "config-template", "", "Print a configuration template <json|yaml>")
	commandFlags.BoolVar(&systemdUnit, "systemd-unit", false, "Print a systemd service unit")
	commandFlags.StringVar(&binaryPath, "binary-path", "/usr/local/bin/"+global.ProgBaseName, "Executable path used in the service unit")
	commandFlags.StringVar(&configPath, "c", global.DefaultConfigPath, "Configuration path used in the service unit")
	commandFlags.StringVar(&configPath, "config", global.DefaultConfigPath, "Configuration path used in the service unit")

	commandFlags.Usage = func() {
		PrintHelpMenu(commandFlags, commandname, global.CmdOpts)
	}
	err := commandFlags.Parse(args)
	if err != nil {
		exitCode = 2
		return
	}

	switch {
	case templateFormat != "":
		content, err := shipper.ConfigTemplate(templateFormat)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			exitCode = 1
			return
		}
		stdout.Write(content)
	case systemdUnit:
		fmt.Fprint(stdout, shipper.SystemdUnit(binaryPath, configPath))
	default:
		commandFlags.Usage()
		exitCode = 1
	}
	return
}
