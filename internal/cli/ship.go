package cli

import (
	"context"
	"flag"
	"fmt"
	"io"

	"logship/internal/global"
	"logship/internal/lifecycle"
	"logship/internal/logctx"
	"logship/internal/shipper"
)

// Runs the shipper until end of file, or until a signal when following
func ShipMode(ctx context.Context, commandname string, args []string, stdout, stderr io.Writer) (exitCode int) {
	var (
		configPath string
		filePath   string
		outputs    stringList
		offset     int64
		follow     bool
		capacity   int
		stateDir   string
		noState    bool
	)

	commandFlags := flag.NewFlagSet(commandname, flag.ContinueOnError)
	commandFlags.SetOutput(stderr)
	SetGlobalArguments(commandFlags)
	SetCommon(commandFlags, &configPath)
	commandFlags.StringVar(&filePath, "f", "", "Path of the file to ship")
	commandFlags.StringVar(&filePath, "file", "", "Path of the file to ship")
	commandFlags.Var(&outputs, "o", "Output target, repeat for more outputs [default: console]")
	commandFlags.Var(&outputs, "output", "Output target, repeat for more outputs [default: console]")
	commandFlags.Int64Var(&offset, "offset", 0, "Start at this byte offset instead of the saved position")
	commandFlags.BoolVar(&follow, "follow", false, "Keep waiting for appended records until interrupted")
	commandFlags.IntVar(&capacity, "capacity", global.DefaultQueueCapacity, "Events held by each bounded queue")
	commandFlags.StringVar(&stateDir, "state-dir", global.DefaultStateDir, "Directory holding saved positions")
	commandFlags.BoolVar(&noState, "no-state", false, "Neither read nor save positions")

	commandFlags.Usage = func() {
		PrintHelpMenu(commandFlags, commandname, global.CmdOpts)
	}
	err := commandFlags.Parse(args)
	if err != nil {
		exitCode = 2
		return
	}
	logctx.SetLogLevel(ctx, global.Verbosity)

	cfg := shipper.DefaultConfig()
	if configPath != "" {
		fileCfg, err := shipper.LoadConfig(configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			exitCode = 1
			return
		}
		cfg, err = fileCfg.NewDaemonConf()
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			exitCode = 1
			return
		}
	}

	// Flags given explicitly override the file
	given := setFlags(commandFlags)
	if given["f"] || given["file"] {
		cfg.SourcePath = filePath
	}
	if len(outputs) > 0 {
		cfg.Outputs = outputs
	}
	if given["offset"] {
		cfg.HasStartOffset = true
		cfg.StartOffset = offset
	}
	if given["follow"] {
		cfg.Follow = follow
	}
	if given["capacity"] {
		cfg.QueueCapacity = capacity
	}
	if given["state-dir"] {
		cfg.StateDir = stateDir
	}
	if given["no-state"] {
		cfg.NoState = noState
	}

	if cfg.SourcePath == "" {
		fmt.Fprintf(stderr, "Error: no file given, use -f <path>\n")
		exitCode = 1
		return
	}

	daemon := shipper.NewDaemon(cfg)
	daemon.Stdout = stdout
	daemon.Stderr = stderr
	err = daemon.Start(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		exitCode = 1
		return
	}

	signalCtx, stopSignals := context.WithCancel(ctx)
	go lifecycle.SignalHandler(signalCtx, daemon)

	err = lifecycle.NotifyReady(ctx)
	if err != nil {
		logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog, "Service manager notify failed: %v\n", err)
	}

	result, runErr := daemon.Run()
	stopSignals()

	err = lifecycle.NotifyStatus(ctx, fmt.Sprintf("stopped at offset %d", result.Position))
	if err != nil {
		logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog, "Service manager notify failed: %v\n", err)
	}

	fmt.Fprintf(stderr, "Final position: %d (read %d, delivered %d, dropped %d)\n",
		result.Position, result.Read, result.Delivered, result.Dropped)

	if runErr != nil {
		fmt.Fprintf(stderr, "Error: %v\n", runErr)
		exitCode = 1
	}
	return
}
