package server

import (
	"context"
	"net/http"
	"strings"

	"logship/internal/global"
	"logship/internal/metrics"
)

// Lists available metrics (one sample per metric, without values)
func handleDiscovery(baseCtx context.Context, discover Discoverer, serverResponder http.ResponseWriter, clientRequest *http.Request) {
	reqNamespace := splitNamespace(strings.TrimPrefix(clientRequest.URL.Path, global.DiscoveryPath))
	reqName := clientRequest.FormValue("name")

	var reqType metrics.MetricType
	rawType := metrics.MetricType(strings.ToLower(clientRequest.FormValue("type")))
	switch rawType {
	case "":
	case metrics.Counter, metrics.Gauge:
		reqType = rawType
	default:
		serverResponder.WriteHeader(http.StatusBadRequest)
		return
	}

	rawResults := discover(reqName, reqNamespace, reqType)

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
