package shipper

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"logship/internal/global"
)

// Starter configuration with every default written out
func ConfigTemplate(format string) (content []byte, err error) {
	defaults := DefaultConfig()

	var cfg JSONConfig
	cfg.Source.Path = "/var/log/syslog"
	cfg.Source.Follow = true
	cfg.Source.PollInterval = defaults.PollInterval.String()
	cfg.Source.MaxRecordSize = defaults.MaxRecordSize
	cfg.Source.ReadBufferSize = defaults.ReadBufferSize
	cfg.Outputs = []string{"stdout", "tcp://127.0.0.1:5140"}
	cfg.QueueCapacity = defaults.QueueCapacity
	cfg.StateDir = defaults.StateDir
	cfg.DrainTimeout = defaults.DrainTimeout.String()
	cfg.CheckpointInterval = defaults.CheckpointInterval.String()
	cfg.Network.EmitTimeout = defaults.EmitTimeout.String()
	cfg.Network.DialTimeout = defaults.DialTimeout.String()
	cfg.Network.MaxRetries = &defaults.MaxRetries
	cfg.Metrics.Interval = defaults.MetricCollectionInterval.String()
	cfg.Metrics.MaxAge = defaults.MetricMaxAge.String()
	cfg.Metrics.QueryServerPort = defaults.MetricQueryServerPort

	switch strings.ToLower(format) {
	case "json", "":
		content, err = json.MarshalIndent(cfg, "", "  ")
		content = append(content, '\n')
	case "yaml", "yml":
		content, err = yaml.Marshal(cfg)
	default:
		err = fmt.Errorf("unknown config format '%s' (expected json or yaml)", format)
	}
	return
}

// Service unit running the shipper in follow mode under systemd notify supervision
func SystemdUnit(binaryPath, configPath string) (unit string) {
	unit = fmt.Sprintf(`[Unit]
Description=%[1]s log shipping agent
After=network-online.target
Wants=network-online.target

[Service]
Type=notify
ExecStart=%[2]s ship --config %[3]s
Restart=on-failure
RestartSec=5s
StateDirectory=%[1]s
NoNewPrivileges=yes
ProtectSystem=strict
ReadWritePaths=%[4]s

[Install]
WantedBy=multi-user.target
`, global.ProgBaseName, binaryPath, configPath, global.DefaultStateDir)
	return
}
