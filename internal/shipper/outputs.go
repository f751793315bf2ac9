package shipper

import (
	"errors"
	"fmt"
	"slices"

	"logship/internal/externalio/beats"
	"logship/internal/externalio/kafka"
	"logship/internal/externalio/nats"
	"logship/internal/externalio/tcp"
	"logship/internal/global"
	"logship/internal/sink"
	"logship/internal/sink/network"
)

// Parses every output target, reporting all malformed ones together
func parseTargets(outputs []string) (targets []sink.Target, err error) {
	var invalid []error
	for _, raw := range outputs {
		target, parseErr := sink.ParseTarget(raw)
		if parseErr != nil {
			invalid = append(invalid, parseErr)
			continue
		}
		targets = append(targets, target)
	}
	if len(invalid) > 0 {
		err = fmt.Errorf("invalid output target(s): %w", errors.Join(invalid...))
	}
	return
}

// Creates one sink per target. Already created sinks are closed on failure.
func (daemon *Daemon) buildSinks(targets []sink.Target) (sinks []sink.Sink, err error) {
	defer func() {
		if err == nil {
			return
		}
		for _, created := range sinks {
			created.Close()
		}
		sinks = nil
	}()

	netOpts := network.Options{
		EmitTimeout: daemon.cfg.EmitTimeout,
		MaxRetries:  daemon.cfg.MaxRetries,
		Namespace:   []string{global.NSShip},
	}

	for index, target := range targets {
		name := target.SinkName(index)

		var transport network.Transport
		switch target.Kind {
		case sink.TargetConsole:
			out := daemon.Stdout
			if target.Stream == "stderr" {
				out = daemon.Stderr
			}
			sinks = append(sinks, sink.NewConsole(name, out))
			continue
		case sink.TargetTCP:
			transport = tcp.NewOutput(target.Address, daemon.cfg.DialTimeout)
		case sink.TargetBeats:
			transport = beats.NewOutput(target.Address, daemon.cfg.DialTimeout, daemon.cfg.EmitTimeout)
		case sink.TargetKafka:
			transport, err = kafka.NewOutput(slices.Clone(target.Brokers), target.Topic, daemon.cfg.EmitTimeout)
		case sink.TargetNATS:
			transport, err = nats.NewOutput(target.Address, target.Subject, daemon.cfg.DialTimeout)
		default:
			err = fmt.Errorf("unsupported output kind '%s'", target.Kind)
		}
		if err != nil {
			err = fmt.Errorf("failed creating output %s (%s): %w", name, target.Raw, err)
			return
		}

		sinks = append(sinks, network.New(name, transport, netOpts))
	}
	return
}
