package server

import (
	"fmt"
	"net/http"
	"time"
)

// Reads starttime/endtime query values.
// Start accepts RFC3339 or a signed duration relative to now (default -1m), end accepts RFC3339 or "now".
func parseTimeRange(clientRequest *http.Request, now time.Time) (start, end time.Time, err error) {
	start = now.Add(-1 * time.Minute)
	end = now

	rawStart := clientRequest.FormValue("starttime")
	switch {
	case rawStart == "":
	case rawStart[0] == '-' || rawStart[0] == '+':
		offset, parseErr := time.ParseDuration(rawStart)
		if parseErr == nil {
			start = now.Add(offset)
		}
	default:
		start, err = time.Parse(time.RFC3339Nano, rawStart)
		if err != nil {
			err = fmt.Errorf("invalid starttime: %w", err)
			return
		}
	}

	rawEnd := clientRequest.FormValue("endtime")
	if rawEnd != "" && rawEnd != "now" {
		end, err = time.Parse(time.RFC3339Nano, rawEnd)
		if err != nil {
			err = fmt.Errorf("invalid endtime: %w", err)
			return
		}
	}

	if start.After(end) {
		err = fmt.Errorf("starttime %s is after endtime %s", start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return
}
