package cli

import "logship/internal/global"

func DefineOptions() (cmdOpts *global.CommandSet) {
	root := &global.CommandSet{
		Description:     "Log Shipping Agent (logship)",
		FullDescription: "  Reads newline delimited records from a file and delivers them, in order, to one or more outputs",
		CommandName:     RootCLICommand,
		ChildCommands:   make(map[string]*global.CommandSet),
	}

	root.ChildCommands["ship"] = &global.CommandSet{
		CommandName:     "ship",
		UsageOption:     "-f <path> [-o <target>]...",
		Description:     "Ship Records",
		FullDescription: "Reads the file from the saved or given offset and delivers every record to each output. Outputs: console, stdout, stderr, tcp://host:port, beats://host:port, kafka://broker[,broker...]/topic, nats://host:port/subject",
	}

	root.ChildCommands["position"] = &global.CommandSet{
		CommandName:     "position",
		UsageOption:     "-f <path>",
		Description:     "Show Saved Position",
		FullDescription: "Prints or resets the persisted delivered offset of a file",
	}

	root.ChildCommands["configure"] = &global.CommandSet{
		CommandName:     "configure",
		Description:     "Setup Actions",
		FullDescription: "Prints a configuration template or a systemd service unit",
	}

	root.ChildCommands["version"] = &global.CommandSet{
		CommandName:     "version",
		Description:     "Show Version Information",
		FullDescription: "Display meta information about program",
	}

	cmdOpts = root
	return
}
