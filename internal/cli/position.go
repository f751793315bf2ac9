package cli

import (
	"flag"
	"fmt"
	"io"

	"logship/internal/global"
	"logship/internal/state"
)

// Prints or resets the saved position of a file
func PositionMode(commandname string, args []string, stdout, stderr io.Writer) (exitCode int) {
	var filePath, stateDir string
	var reset bool

	commandFlags := flag.NewFlagSet(commandname, flag.ContinueOnError)
	commandFlags.SetOutput(stderr)
	SetGlobalArguments(commandFlags)
	commandFlags.StringVar(&filePath, "f", "", "Path of the shipped file")
	commandFlags.StringVar(&filePath, "file", "", "Path of the shipped file")
	commandFlags.StringVar(&stateDir, "state-dir", global.DefaultStateDir, "Directory holding saved positions")
	commandFlags.BoolVar(&reset, "reset", false, "Forget the saved position so the next run starts at offset 0")

	commandFlags.Usage = func() {
		PrintHelpMenu(commandFlags, commandname, global.CmdOpts)
	}
	err := commandFlags.Parse(args)
	if err != nil {
		exitCode = 2
		return
	}
	if filePath == "" {
		fmt.Fprintf(stderr, "Error: no file given, use -f <path>\n")
		exitCode = 1
		return
	}

	store, err := state.NewStore(stateDir)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		exitCode = 1
		return
	}

	if reset {
		err = store.Reset(filePath)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			exitCode = 1
			return
		}
		fmt.Fprintf(stdout, "Reset saved position for %s\n", filePath)
		return
	}

	record, found, err := store.Read(filePath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		exitCode = 1
		return
	}
	if !found {
		fmt.Fprintf(stdout, "%s: no saved position\n", filePath)
		return
	}

	// Load applies the same identity checks a ship run would
	offset, err := store.Load(filePath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		exitCode = 1
		return
	}
	if offset != record.Offset {
		fmt.Fprintf(stdout, "%s: saved offset %d no longer matches the file, next run starts at %d\n",
			filePath, record.Offset, offset)
		return
	}
	fmt.Fprintf(stdout, "%s: %d\n", filePath, offset)
	return
}
