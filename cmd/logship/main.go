package main

import (
	"context"
	"flag"
	"os"

	"logship/internal/cli"
	"logship/internal/global"
	"logship/internal/logctx"
)

func main() {
	global.CmdOpts = cli.DefineOptions()

	args := os.Args
	commandFlags := flag.NewFlagSet(args[0], flag.ExitOnError)
	cli.SetGlobalArguments(commandFlags)

	commandFlags.Usage = func() {
		cli.PrintHelpMenu(commandFlags, cli.RootCLICommand, global.CmdOpts)
	}
	if len(args) < 2 {
		commandFlags.Usage()
		os.Exit(1)
	}
	if args[1] == "-h" || args[1] == "--help" || args[1] == "help" {
		commandFlags.Usage()
		return
	}

	command := args[1]
	args = args[2:]

	// Global logger writes to stderr, stdout belongs to console outputs
	ctx, cancel := context.WithCancel(context.Background())
	logger := logctx.NewLogger("global", global.Verbosity, ctx.Done())
	ctx = logctx.WithLogger(ctx, logger)
	logctx.StartWatcher(logger, os.Stderr)

	var exitCode int
	switch command {
	case "ship":
		exitCode = cli.ShipMode(ctx, command, args, os.Stdout, os.Stderr)
	case "position":
		exitCode = cli.PositionMode(command, args, os.Stdout, os.Stderr)
	case "configure":
		exitCode = cli.ConfigureMode(command, args, os.Stdout, os.Stderr)
	case "version":
		cli.VersionMode(args, os.Stdout)
	default:
		commandFlags.Usage()
		exitCode = 1
	}

	// Flush queued log lines before exiting
	cancel()
	logger.Wake()
	logger.Wait()
	os.Exit(exitCode)
}
