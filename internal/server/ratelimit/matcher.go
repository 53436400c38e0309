package ratelimit

import (
	"path"
	"strings"
)

// MatchEndpoint matches a request path and method to an endpoint configuration.
// Exact paths win over "*" segment patterns, which win over "/prefix/" patterns.
// Returns nil when nothing matches.
func MatchEndpoint(reqPath string, method string, configs []EndpointConfig) *EndpointConfig {
	// Liveness probes are never limited
	if reqPath == "/health" && method == "GET" {
		return &EndpointConfig{Limit: 0}
	}

	for i := range configs {
		c := &configs[i]
		if c.Method == method && c.Path == reqPath {
			return c
		}
	}

	for i := range configs {
		c := &configs[i]
		if c.Method != method || !strings.Contains(c.Path, "*") {
			continue
		}
		if ok, _ := path.Match(c.Path, reqPath); ok {
			return c
		}
	}

	for i := range configs {
		c := &configs[i]
		if c.Method == method && strings.HasSuffix(c.Path, "/") && strings.HasPrefix(reqPath, c.Path) {
			return c
		}
	}

	return nil
}
