package pipeline

import (
	"context"
	"slices"
	"sync"
	"time"

	"logship/internal/event"
	"logship/internal/global"
	"logship/internal/logctx"
	"logship/internal/queue"
)

// Runs the pipeline until the source ends, fails, or Shutdown is requested,
// then drains queued events into the sinks and closes them.
// A non-nil error is the source failure that ended the run.
func (pipe *Pipeline) Run(ctx context.Context) (result Result, err error) {
	if !pipe.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		err = ErrAlreadyStarted
		return
	}
	ctx = logctx.AppendCtxTag(ctx, global.NSPipeline)

	err = pipe.createQueues()
	if err != nil {
		pipe.setState(StateStopped)
		return
	}

	// Producer stops on shutdown; consumers keep running until drained or forced
	producerCtx, stopProducer := context.WithCancel(ctx)
	defer stopProducer()
	consumerCtx, forceStop := context.WithCancel(context.WithoutCancel(ctx))
	defer forceStop()

	go func() {
		select {
		case <-pipe.shutdown:
			stopProducer()
		case <-producerCtx.Done():
		}
	}()

	var consumers sync.WaitGroup
	for _, w := range pipe.workers {
		consumers.Add(1)
		go func() {
			defer consumers.Done()
			w.run(consumerCtx)
		}()
	}

	background, stopBackground := context.WithCancel(context.WithoutCancel(ctx))
	var helpers sync.WaitGroup
	helpers.Add(1)
	go func() {
		defer helpers.Done()
		pipe.checkpointLoop(background)
	}()
	if pipe.cfg.Metrics != nil {
		helpers.Add(1)
		go func() {
			defer helpers.Done()
			pipe.metricLoop(background)
		}()
	}

	err = pipe.produce(producerCtx)
	closeErr := pipe.src.Close()
	if closeErr != nil {
		logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog,
			"failed to close source %s: %v\n", pipe.src.Path(), closeErr)
	}

	pipe.setState(StateDraining)
	pipe.closeQueues(ctx)
	logctx.LogEvent(ctx, global.VerbosityProgress, global.InfoLog,
		"Draining queued events into %d sink(s)\n", len(pipe.workers))

	drained := make(chan struct{})
	go func() {
		consumers.Wait()
		close(drained)
	}()

	timer := time.NewTimer(pipe.cfg.DrainTimeout)
	select {
	case <-drained:
		timer.Stop()
	case <-timer.C:
		forceStop()
		<-drained
		dropped := pipe.read.Load() - pipe.delivered()
		logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog,
			"queue did not empty in time: dropped %d messages\n", dropped)
	}

	for _, w := range pipe.workers {
		closeErr = w.sink.Close()
		if closeErr != nil {
			logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog,
				"failed to close sink %s: %v\n", w.sink.Name(), closeErr)
		}
	}

	stopBackground()
	helpers.Wait()
	if pipe.cfg.Metrics != nil {
		pipe.gatherMetrics()
	}
	pipe.checkpoint(ctx)

	result = pipe.result()
	pipe.setState(StateStopped)

	logctx.LogEvent(ctx, global.VerbosityProgress, global.InfoLog,
		"Pipeline stopped: read %d, delivered %d, dropped %d, position %d\n",
		result.Read, result.Delivered, result.Dropped, result.Position)
	return
}

// One queue per sink, each bounding queued plus in-flight events by the capacity
func (pipe *Pipeline) createQueues() (err error) {
	for _, w := range pipe.workers {
		w.queue, err = queue.New(append(slices.Clone(w.Namespace), global.NSQueue),
			pipe.cfg.QueueCapacity, event.Event.Size)
		if err != nil {
			return
		}
	}
	return
}

func (pipe *Pipeline) result() (result Result) {
	result.Position = pipe.DeliveredPosition()
	result.Read = pipe.read.Load()
	result.Delivered = pipe.delivered()
	result.Dropped = result.Read - result.Delivered
	for _, w := range pipe.workers {
		result.Sinks = append(result.Sinks, SinkResult{
			Name:      w.sink.Name(),
			Successes: w.successes.Load(),
			Failures:  w.failures.Load(),
		})
	}
	return
}
