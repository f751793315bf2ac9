package sink

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

type TargetKind string

const (
	TargetConsole TargetKind = "console"
	TargetTCP     TargetKind = "tcp"
	TargetBeats   TargetKind = "beats"
	TargetKafka   TargetKind = "kafka"
	TargetNATS    TargetKind = "nats"
)

// Parsed output destination
type Target struct {
	Raw     string
	Kind    TargetKind
	Stream  string   // console: stdout or stderr
	Address string   // tcp, beats, nats: host:port
	Brokers []string // kafka
	Topic   string   // kafka
	Subject string   // nats
}

// Parses console | stdout | stderr | tcp://host:port | beats://host:port |
// kafka://broker[,broker...]/topic | nats://host:port/subject. A bare host:port means tcp.
func ParseTarget(raw string) (target Target, err error) {
	target.Raw = raw
	trimmed := strings.TrimSpace(raw)

	switch strings.ToLower(trimmed) {
	case "console", "stdout", "-":
		target.Kind = TargetConsole
		target.Stream = "stdout"
		return
	case "stderr":
		target.Kind = TargetConsole
		target.Stream = "stderr"
		return
	case "":
		err = fmt.Errorf("empty output target")
		return
	}

	scheme, rest, hasScheme := strings.Cut(trimmed, "://")
	if !hasScheme {
		scheme, rest = string(TargetTCP), trimmed
	}

	switch TargetKind(strings.ToLower(scheme)) {
	case TargetTCP:
		target.Kind = TargetTCP
		target.Address, err = parseHostPort(rest)
	case TargetBeats:
		target.Kind = TargetBeats
		target.Address, err = parseHostPort(rest)
	case TargetKafka:
		target.Kind = TargetKafka
		brokers, topic, found := strings.Cut(rest, "/")
		if !found || topic == "" || strings.Contains(topic, "/") {
			err = fmt.Errorf("kafka target needs exactly one topic: kafka://broker[,broker...]/topic")
			break
		}
		for _, broker := range strings.Split(brokers, ",") {
			var address string
			address, err = parseHostPort(broker)
			if err != nil {
				break
			}
			target.Brokers = append(target.Brokers, address)
		}
		target.Topic = topic
	case TargetNATS:
		target.Kind = TargetNATS
		address, subject, found := strings.Cut(rest, "/")
		if !found || subject == "" || strings.ContainsAny(subject, " /") {
			err = fmt.Errorf("nats target needs a subject: nats://host:port/subject")
			break
		}
		target.Address, err = parseHostPort(address)
		target.Subject = subject
	default:
		err = fmt.Errorf("unsupported output scheme '%s'", scheme)
	}

	if err != nil {
		err = fmt.Errorf("invalid output target '%s': %w", raw, err)
	}
	return
}

func parseHostPort(address string) (hostPort string, err error) {
	host, port, err := net.SplitHostPort(strings.TrimSpace(address))
	if err != nil {
		return
	}
	if host == "" {
		err = fmt.Errorf("missing host in '%s'", address)
		return
	}
	portNum, convErr := strconv.Atoi(port)
	if convErr != nil || portNum < 1 || portNum > 65535 {
		err = fmt.Errorf("invalid port '%s'", port)
		return
	}
	hostPort = net.JoinHostPort(host, port)
	return
}

// Default name for the n-th configured sink
func (target Target) SinkName(index int) string {
	if target.Kind == TargetConsole {
		return fmt.Sprintf("%s-%d", target.Stream, index)
	}
	return fmt.Sprintf("%s-%d", target.Kind, index)
}
