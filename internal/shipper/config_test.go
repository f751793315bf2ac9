package shipper

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"logship/internal/global"
)

func writeConfig(t *testing.T, name, content string) (path string) {
	t.Helper()
	path = filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed writing config: %v", err)
	}
	return
}

func TestLoadConfig_Formats(t *testing.T) {
	jsonConfig := `{
  "source": {"path": "/var/log/app.log", "follow": true, "pollInterval": "500ms"},
  "outputs": ["stdout", "tcp://127.0.0.1:5140"],
  "queueCapacity": 16,
  "drainTimeout": "2s",
  "network": {"emitTimeout": "1s", "maxRetries": 0},
  "metrics": {"enabled": true, "collectionInterval": "5s", "enableHTTPServer": true, "HTTPServerPort": 9000}
}`
	yamlConfig := `
source:
  path: /var/log/app.log
  follow: true
  pollInterval: 500ms
outputs:
  - stdout
  - tcp://127.0.0.1:5140
queueCapacity: 16
drainTimeout: 2s
network:
  emitTimeout: 1s
  maxRetries: 0
metrics:
  enabled: true
  collectionInterval: 5s
  enableHTTPServer: true
  HTTPServerPort: 9000
`

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"json", "logship.json", jsonConfig},
		{"yaml", "logship.yaml", yamlConfig},
		{"yml", "logship.yml", yamlConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fileCfg, err := LoadConfig(writeConfig(t, tt.file, tt.content))
			if err != nil {
				t.Fatalf("unexpected load error: %v", err)
			}
			cfg, err := fileCfg.NewDaemonConf()
			if err != nil {
				t.Fatalf("unexpected conversion error: %v", err)
			}

			if cfg.SourcePath != "/var/log/app.log" || !cfg.Follow {
				t.Errorf("source settings not applied: %+v", cfg)
			}
			if cfg.PollInterval != 500*time.Millisecond {
				t.Errorf("poll interval = %s", cfg.PollInterval)
			}
			if !slices.Equal(cfg.Outputs, []string{"stdout", "tcp://127.0.0.1:5140"}) {
				t.Errorf("outputs = %v", cfg.Outputs)
			}
			if cfg.QueueCapacity != 16 || cfg.DrainTimeout != 2*time.Second {
				t.Errorf("delivery settings not applied: %+v", cfg)
			}
			if cfg.EmitTimeout != time.Second || cfg.MaxRetries != 0 {
				t.Errorf("explicit zero retries not kept: timeout %s retries %d", cfg.EmitTimeout, cfg.MaxRetries)
			}
			if !cfg.MetricsEnabled || !cfg.MetricQueryServerEnabled || cfg.MetricQueryServerPort != 9000 {
				t.Errorf("metric settings not applied: %+v", cfg)
			}
			if cfg.MetricCollectionInterval != 5*time.Second || cfg.MetricMaxAge != global.DefaultMetricMaxAge {
				t.Errorf("metric durations = %s / %s", cfg.MetricCollectionInterval, cfg.MetricMaxAge)
			}
			if cfg.CheckpointInterval != global.DefaultCheckpointInterval || cfg.StateDir != global.DefaultStateDir {
				t.Errorf("defaults not applied: %+v", cfg)
			}
		})
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{"bad json", "bad.json", `{"source": `, "invalid config syntax"},
		{"bad yaml", "bad.yaml", "source: [unclosed", "invalid config syntax"},
		{"bad duration", "dur.json", `{"drainTimeout": "soon"}`, "drain timeout"},
		{"negative duration", "neg.json", `{"checkpointInterval": "-1s"}`, "must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fileCfg, err := LoadConfig(writeConfig(t, tt.file, tt.content))
			if err == nil {
				_, err = fileCfg.NewDaemonConf()
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.MaxRetries != global.DefaultMaxRetries {
		t.Errorf("max retries = %d", cfg.MaxRetries)
	}
	if !slices.Equal(cfg.Outputs, []string{"console"}) {
		t.Errorf("outputs = %v", cfg.Outputs)
	}
	if cfg.QueueCapacity != global.DefaultQueueCapacity || cfg.DrainTimeout != global.DefaultDrainTimeout {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestQueueMemoryBound(t *testing.T) {
	cfg := Config{
		Outputs:       []string{"stdout", "tcp://127.0.0.1:1"},
		QueueCapacity: 4,
		MaxRecordSize: 1024,
	}
	if got := cfg.queueMemoryBound(); got != 2*4*1024 {
		t.Errorf("bound = %d, want %d", got, 2*4*1024)
	}

	_, _, fits := cfg.checkQueueMemory()
	if !fits {
		t.Error("an 8KiB bound should fit in free memory")
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.validate(); err == nil {
		t.Error("expected error without a source path")
	}
	cfg.SourcePath = "/tmp/x.log"
	cfg.HasStartOffset = true
	cfg.StartOffset = -1
	if err := cfg.validate(); err == nil {
		t.Error("expected error for negative offset")
	}
	cfg.StartOffset = 0
	if err := cfg.validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestConfigTemplate_RoundTrip(t *testing.T) {
	for _, format := range []string{"json", "yaml"} {
		t.Run(format, func(t *testing.T) {
			content, err := ConfigTemplate(format)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			fileCfg, err := LoadConfig(writeConfig(t, "template."+format, string(content)))
			if err != nil {
				t.Fatalf("template does not load: %v", err)
			}
			cfg, err := fileCfg.NewDaemonConf()
			if err != nil {
				t.Fatalf("template does not convert: %v", err)
			}
			if cfg.MaxRetries != global.DefaultMaxRetries || cfg.DrainTimeout != global.DefaultDrainTimeout {
				t.Errorf("template lost defaults: %+v", cfg)
			}
		})
	}

	_, err := ConfigTemplate("toml")
	if err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestSystemdUnit(t *testing.T) {
	unit := SystemdUnit("/usr/local/bin/logship", "/etc/logship.yaml")
	for _, want := range []string{"Type=notify", "ExecStart=/usr/local/bin/logship ship --config /etc/logship.yaml"} {
		if !strings.Contains(unit, want) {
			t.Errorf("unit missing %q", want)
		}
	}
}
