package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"logship/internal/global"
	"logship/internal/metrics"
)

// Handles metric search requests based on time for data
func handleData(baseCtx context.Context, search DataSearcher, serverResponder http.ResponseWriter, clientRequest *http.Request) {
	reqNamespace := splitNamespace(strings.TrimPrefix(clientRequest.URL.Path, global.DataPath))
	reqName := clientRequest.FormValue("name")

	start, end, err := parseTimeRange(clientRequest, time.Now())
	if err != nil {
		serverResponder.WriteHeader(http.StatusBadRequest)
		return
	}

	rawResults := search(reqName, reqNamespace, start, end)

	results := make([]metrics.JMetric, 0, len(rawResults))
	for _, rawResult := range rawResults {
		results = append(results, rawResult.Convert())
	}

	if len(results) == 0 {
		jResp(baseCtx, serverResponder, Jerror{Msg: "Search returned no results"})
	} else {
		jResp(baseCtx, serverResponder, results)
	}
}

// URL remainder to namespace components; empty means all namespaces
func splitNamespace(raw string) (namespace []string) {
	raw = strings.Trim(raw, "/")
	if raw == "" {
		return
	}
	namespace = strings.Split(raw, "/")
	return
}
