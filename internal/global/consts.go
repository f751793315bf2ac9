package global

import "time"

const (
	// Descriptive Names for available verbosity levels
	VerbosityNone int = iota
	VerbosityStandard
	VerbosityProgress
	VerbosityData
	VerbosityFullData
	VerbosityDebug

	// Descriptive names for available severity levels
	ErrorLog string = "Error"
	WarnLog  string = "Warn"
	InfoLog  string = "Info"
)

const (
	ProgBaseName string = "logship"
	ProgVersion  string = "v0.3.0"

	// Context keys
	LoggerKey  CtxKey = "logger"  // Buffered program logger
	LogTagsKey CtxKey = "logtags" // List of tags in order of broad->specific appended/popped at various parts of the program

	DefaultConfigPath string = "/etc/logship.json"
	DefaultStateDir   string = "/var/lib/logship"

	// Pipeline defaults
	DefaultQueueCapacity      int           = 5
	DefaultReadBufferSize     int           = 65536
	DefaultMaxRecordSize      int           = 1 << 20
	DefaultPollInterval       time.Duration = 250 * time.Millisecond
	DefaultDrainTimeout       time.Duration = 5 * time.Second
	DefaultCheckpointInterval time.Duration = 1 * time.Second

	// Network sink defaults
	DefaultEmitTimeout    time.Duration = 5 * time.Second
	DefaultMaxRetries     int           = 3
	DefaultRetryInitial   time.Duration = 100 * time.Millisecond
	DefaultRetryMaxWait   time.Duration = 5 * time.Second
	DefaultDialTimeout    time.Duration = 3 * time.Second
	DefaultMetricInterval time.Duration = 15 * time.Second
	DefaultMetricMaxAge   time.Duration = 1 * time.Hour

	// Metric HTTP server
	HTTPListenPort   int           = 18514       // Default listen port
	HTTPListenAddr   string        = "localhost" // Metric queries only exposed to local machine
	HTTPReadTimeout  time.Duration = 30 * time.Second
	HTTPWriteTimeout time.Duration = 10 * time.Second
	HTTPIdleTimeout  time.Duration = 180 * time.Second
	DataPath         string        = "/data/"
	DiscoveryPath    string        = "/discover/"
	PromPath         string        = "/metrics"

	// Namespacing Name Components
	NSMetric    string = "Metrics"
	NSMetricSrv string = "Server"
	NSTest      string = "Test"
	NSCLI       string = "CLI"
	NSShip      string = "Shipper"
	NSPipeline  string = "Pipeline"
	NSProducer  string = "Producer"
	NSQueue     string = "Queue"
	NSWorker    string = "Worker"
	NSWatcher   string = "Watcher"
	NSState     string = "State"
	NSoFile     string = "File"
	NSoSink     string = "Sink"
)
