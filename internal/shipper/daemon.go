// Daemon wiring one file source through the pipeline into the configured outputs
package shipper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"logship/internal/externalio/server"
	"logship/internal/global"
	"logship/internal/logctx"
	"logship/internal/metrics"
	"logship/internal/pipeline"
	"logship/internal/source"
	"logship/internal/state"
)

// Create new shipper daemon instance
func NewDaemon(cfg Config) (daemon *Daemon) {
	daemon = &Daemon{
		cfg:    cfg,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
	return
}

// Validates the configuration and prepares source, outputs and pipeline.
// Nothing is read until Run.
func (daemon *Daemon) Start(globalCtx context.Context) (err error) {
	daemon.ctx = logctx.AppendCtxTag(globalCtx, global.NSShip)
	daemon.cfg.setDefaults()

	// A failed start leaves nothing open behind
	defer func() {
		if err == nil {
			return
		}
		if daemon.src != nil {
			daemon.src.Close()
		}
		daemon.src = nil
		daemon.pipe = nil
		daemon.registry = nil
		daemon.MetricServer = nil
	}()

	err = daemon.cfg.validate()
	if err != nil {
		return
	}

	global.Hostname, err = os.Hostname()
	if err != nil {
		err = fmt.Errorf("failed to determine local hostname: %w", err)
		return
	}
	global.PID = os.Getpid()

	err = source.Validate(daemon.cfg.SourcePath)
	if err != nil {
		return
	}

	targets, err := parseTargets(daemon.cfg.Outputs)
	if err != nil {
		return
	}

	bound, available, fits := daemon.cfg.checkQueueMemory()
	if !fits {
		logctx.LogEvent(daemon.ctx, global.VerbosityStandard, global.WarnLog,
			"queues may hold up to %d bytes but only %d bytes of memory are free\n", bound, available)
	}

	if !daemon.cfg.NoState {
		daemon.store, err = state.NewStore(daemon.cfg.StateDir)
		if err != nil {
			return
		}
	}

	startOffset, err := daemon.startOffset()
	if err != nil {
		return
	}

	daemon.src, err = source.Open(daemon.ctx, daemon.cfg.SourcePath, startOffset, source.Options{
		Follow:         daemon.cfg.Follow,
		PollInterval:   daemon.cfg.PollInterval,
		MaxRecordSize:  daemon.cfg.MaxRecordSize,
		ReadBufferSize: daemon.cfg.ReadBufferSize,
		Namespace:      []string{global.NSShip},
	})
	if err != nil {
		return
	}

	sinks, err := daemon.buildSinks(targets)
	if err != nil {
		return
	}

	if daemon.cfg.MetricsEnabled {
		daemon.registry = metrics.New()
	}

	pipeCfg := pipeline.Config{
		QueueCapacity:      daemon.cfg.QueueCapacity,
		DrainTimeout:       daemon.cfg.DrainTimeout,
		CheckpointInterval: daemon.cfg.CheckpointInterval,
		Metrics:            daemon.registry,
		MetricInterval:     daemon.cfg.MetricCollectionInterval,
		MetricMaxAge:       daemon.cfg.MetricMaxAge,
		Namespace:          []string{global.NSShip},
	}
	if daemon.store != nil {
		pipeCfg.Checkpoints = daemon.store
	}

	daemon.pipe, err = pipeline.New(pipeCfg, daemon.src, sinks...)
	if err == nil && daemon.cfg.MetricQueryServerEnabled {
		err = daemon.setupMetricServer()
	}
	if err != nil {
		for _, created := range sinks {
			created.Close()
		}
		return
	}

	logctx.LogEvent(daemon.ctx, global.VerbosityProgress, global.InfoLog,
		"Shipping %s from offset %d to %d output(s)\n", daemon.cfg.SourcePath, startOffset, len(sinks))
	return
}

// Explicit offset, else the persisted position, else the start of the file
func (daemon *Daemon) startOffset() (offset int64, err error) {
	if daemon.cfg.HasStartOffset {
		offset = daemon.cfg.StartOffset
		return
	}
	if daemon.store == nil {
		return
	}

	offset, err = daemon.store.Load(daemon.cfg.SourcePath)
	if err != nil {
		err = fmt.Errorf("failed loading saved position: %w", err)
		return
	}
	if offset > 0 {
		logctx.LogEvent(daemon.ctx, global.VerbosityProgress, global.InfoLog,
			"Resuming %s at saved offset %d\n", daemon.cfg.SourcePath, offset)
	}
	return
}

func (daemon *Daemon) setupMetricServer() (err error) {
	promRegistry := prometheus.NewRegistry()
	err = promRegistry.Register(metrics.NewPromCollector(daemon.registry))
	if err != nil {
		err = fmt.Errorf("failed registering prometheus collector: %w", err)
		return
	}

	serverCtx := logctx.AppendCtxTag(daemon.ctx, global.NSMetric)
	daemon.MetricServer, err = server.SetupListener(serverCtx, daemon.cfg.MetricQueryServerPort,
		daemon.registry.Search, daemon.registry.Discover, promRegistry)
	return
}

// Blocks until the pipeline stops. The error is the source failure that ended it, if any.
func (daemon *Daemon) Run() (result pipeline.Result, err error) {
	if daemon.pipe == nil {
		err = errors.New("daemon was not started")
		return
	}

	if daemon.MetricServer != nil {
		serverCtx := logctx.AppendCtxTag(daemon.ctx, global.NSMetric)
		daemon.wg.Add(1)
		go func() {
			defer daemon.wg.Done()
			server.Start(serverCtx, daemon.MetricServer)
		}()
	}

	result, err = daemon.pipe.Run(daemon.ctx)

	if daemon.MetricServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(daemon.ctx), 5*time.Second)
		shutdownErr := daemon.MetricServer.Shutdown(shutdownCtx)
		cancel()
		if shutdownErr != nil && !errors.Is(shutdownErr, http.ErrServerClosed) {
			logctx.LogEvent(daemon.ctx, global.VerbosityStandard, global.WarnLog,
				"metric HTTP server did not shutdown gracefully: %v\n", shutdownErr)
		}
	}
	daemon.wg.Wait()

	for _, sinkResult := range result.Sinks {
		if sinkResult.Failures > 0 {
			logctx.LogEvent(daemon.ctx, global.VerbosityStandard, global.WarnLog,
				"output %s failed to deliver %d event(s)\n", sinkResult.Name, sinkResult.Failures)
		}
	}
	return
}

// Requests a graceful stop; Run returns once queued events are drained
func (daemon *Daemon) Shutdown() {
	if daemon.pipe == nil {
		return
	}
	logctx.LogEvent(daemon.ctx, global.VerbosityStandard, global.InfoLog, "Daemon shutdown started...\n")
	daemon.pipe.Shutdown()
}

// Pipeline lifecycle state, Idle before Start
func (daemon *Daemon) State() pipeline.State {
	if daemon.pipe == nil {
		return pipeline.StateIdle
	}
	return daemon.pipe.State()
}
