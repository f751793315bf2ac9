// HTTP server to expose discovery and querying of metric data to other programs only on the local system
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"logship/internal/global"
	"logship/internal/logctx"
)

const helpPage = `<!DOCTYPE html>
<html>
<head><title>%[1]s metrics</title></head>
<body>
<h1>%[1]s %[2]s metrics</h1>
<ul>
<li><a href="%[3]s">%[3]s&lt;namespace&gt;?name=&amp;starttime=&amp;endtime=</a> metric values as JSON.
starttime accepts RFC3339 or a relative duration such as -5m, endtime accepts RFC3339 or now.</li>
<li><a href="%[4]s">%[4]s&lt;namespace&gt;?name=&amp;type=counter|gauge</a> available metrics without values</li>
<li><a href="%[5]s">%[5]s</a> latest values in Prometheus exposition format</li>
</ul>
<p>Listening on http://%[6]s:%[7]d/</p>
</body>
</html>
`

// Sets up HTTP listener configuration for metric querying
func SetupListener(ctx context.Context, port int, search DataSearcher, discover Discoverer, gatherer prometheus.Gatherer) (server *http.Server, err error) {
	if port < 1 || port > 65535 {
		err = fmt.Errorf("invalid metric server port %d", port)
		return
	}
	ctx = logctx.AppendCtxTag(ctx, global.NSMetricSrv)

	page := fmt.Sprintf(helpPage, global.ProgBaseName, global.ProgVersion,
		global.DataPath, global.DiscoveryPath, global.PromPath, global.HTTPListenAddr, port)

	requestMultiplexer := http.NewServeMux()
	httpErrors := log.New(httpLogWriter{ctx: ctx}, "", 0)

	// Root help page
	requestMultiplexer.HandleFunc("/", func(serverResponder http.ResponseWriter, clientRequest *http.Request) {
		if clientRequest.Method != http.MethodGet {
			serverResponder.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if clientRequest.URL.Path != "/" {
			serverResponder.WriteHeader(http.StatusNotFound)
			return
		}

		serverResponder.Header().Set("Content-Type", "text/html; charset=utf-8")
		serverResponder.WriteHeader(http.StatusOK)
		serverResponder.Write([]byte(page))
	})

	requestMultiplexer.HandleFunc(global.DiscoveryPath, func(serverResponder http.ResponseWriter, clientRequest *http.Request) {
		if clientRequest.Method != http.MethodGet {
			serverResponder.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		handleDiscovery(ctx, discover, serverResponder, clientRequest)
	})

	requestMultiplexer.HandleFunc(global.DataPath, func(serverResponder http.ResponseWriter, clientRequest *http.Request) {
		if clientRequest.Method != http.MethodGet {
			serverResponder.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		handleData(ctx, search, serverResponder, clientRequest)
	})

	if gatherer != nil {
		requestMultiplexer.Handle("GET "+global.PromPath, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{
			ErrorLog:      httpErrors,
			ErrorHandling: promhttp.ContinueOnError,
		}))
	}

	server = &http.Server{
		Addr:         global.HTTPListenAddr + ":" + strconv.Itoa(port),
		Handler:      requestMultiplexer,
		ReadTimeout:  global.HTTPReadTimeout,
		WriteTimeout: global.HTTPWriteTimeout,
		IdleTimeout:  global.HTTPIdleTimeout,
		ErrorLog:     httpErrors,
	}
	return
}

// Starts the metric HTTP server and waits for requests
func Start(ctx context.Context, server *http.Server) {
	ctx = logctx.AppendCtxTag(ctx, global.NSMetricSrv)
	logctx.LogEvent(ctx, global.VerbosityStandard, global.InfoLog,
		"Metric query server starting on http://%s/\n", server.Addr)

	err := server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog,
			"Metric query server failed: %v\n", err)
	}
}

// Encodes JSON and sends as response body
func jResp(ctx context.Context, serverResponder http.ResponseWriter, content any) {
	buf := new(bytes.Buffer)
	err := json.NewEncoder(buf).Encode(content)
	if err != nil {
		serverResponder.WriteHeader(http.StatusInternalServerError)
		logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog, "Failed marshaling metric results: %v\n", err)
		return
	}
	serverResponder.Header().Set("Content-Type", "application/json")
	serverResponder.WriteHeader(http.StatusOK)
	serverResponder.Write(buf.Bytes())
}

// Routes HTTP server errors to the context logger
func (logWriter httpLogWriter) Write(p []byte) (n int, err error) {
	n = len(p)
	message := strings.TrimSpace(string(p))
	if message == "" {
		return
	}
	logctx.LogEvent(logWriter.ctx, global.VerbosityStandard, global.ErrorLog, "%s\n", message)
	return
}
