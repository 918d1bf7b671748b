package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const (
	maxQueryLength  = 10000
	maxSignalsBytes = 8192
)

// allowedDatastarSignals defines all valid signal names a UI action may send
var allowedDatastarSignals = map[string]bool{
	"theme":       true,
	"cardName":    true,
	"cardKind":    true,
	"resultName":  true,
	"artImageUrl": true,
}

// ValidateSignals rejects datastar requests carrying unknown or oversized
// signals. GET requests send signals in the datastar query parameter, other
// methods send them as the JSON body, which is restored for the handler.
func ValidateSignals(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if len(r.URL.RawQuery) > maxQueryLength {
			http.Error(w, "Query string too large", http.StatusRequestURITooLong)
			return
		}

		var raw []byte
		if r.Method == http.MethodGet {
			params, err := url.ParseQuery(r.URL.RawQuery)
			if err != nil {
				http.Error(w, "Invalid query parameters", http.StatusBadRequest)
				return
			}
			for key := range params {
				if key != "datastar" {
					http.Error(w, "Invalid parameter", http.StatusBadRequest)
					return
				}
			}
			if values := params["datastar"]; len(values) > 1 {
				http.Error(w, "Invalid datastar parameter", http.StatusBadRequest)
				return
			} else if len(values) == 1 {
				raw = []byte(values[0])
			}
		} else if r.Body != nil {
			body, err := io.ReadAll(io.LimitReader(r.Body, maxSignalsBytes+1))
			if err != nil {
				http.Error(w, "Failed to read request", http.StatusBadRequest)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))
			raw = body
		}

		if len(raw) > maxSignalsBytes {
			http.Error(w, "Datastar state too large", http.StatusRequestEntityTooLarge)
			return
		}
		if len(bytes.TrimSpace(raw)) > 0 {
			var signals map[string]json.RawMessage
			if err := json.Unmarshal(raw, &signals); err != nil {
				http.Error(w, "Invalid datastar JSON", http.StatusBadRequest)
				return
			}
			for name := range signals {
				if !allowedDatastarSignals[name] {
					http.Error(w, "Invalid signal in datastar: "+strings.TrimSpace(name), http.StatusBadRequest)
					return
				}
			}
		}

		next(w, r)
	}
}
