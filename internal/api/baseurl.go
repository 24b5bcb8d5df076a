package api

import (
	"os"
	"strings"
)

const (
	// EnvBaseURL overrides every other base-URL heuristic when set.
	EnvBaseURL = "POSTR_API_BASE_URL"

	productionBaseURL = "https://postrai-backend-gie8.onrender.com/api"
	localBaseURL      = "http://localhost:8000/api"
)

// ResolveBaseURL picks the backend endpoint. An explicit environment override
// always wins; otherwise the production endpoint is used unless the host we
// appear to run against is local.
func ResolveBaseURL(host string) string {
	if env := strings.TrimRight(os.Getenv(EnvBaseURL), "/"); env != "" {
		return env
	}
	if isLocalHost(host) {
		return localBaseURL
	}
	return productionBaseURL
}

func isLocalHost(host string) bool {
	host = strings.ToLower(strings.TrimSpace(host))
	switch host {
	case "localhost", "127.0.0.1", "::1", "[::1]":
		return true
	}
	if idx := strings.LastIndex(host, ":"); idx >= 0 {
		host = host[:idx]
	}
	switch host {
	case "localhost", "127.0.0.1", "[::1]":
		return true
	}
	return false
}
