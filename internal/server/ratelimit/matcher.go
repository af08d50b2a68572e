package ratelimit

import (
	"strings"
)

// unlimitedPaths are GET routes that are never rate limited.
var unlimitedPaths = map[string]bool{
	"/health":         true,
	"/backend/status": true,
}

// MatchEndpoint matches a request path and method to an endpoint configuration.
// Exact paths win over prefixes; among prefixes ("/postings/" matches
// "/postings/{id}/applications") the longest wins. Returns nil when nothing
// matches.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if method == "GET" && unlimitedPaths[path] {
		return &EndpointConfig{Path: path, Method: method}
	}

	for i := range configs {
		config := &configs[i]
		if config.Path == path && methodMatches(config.Method, method) {
			return config
		}
	}

	var best *EndpointConfig
	for i := range configs {
		config := &configs[i]
		if !methodMatches(config.Method, method) || !strings.HasSuffix(config.Path, "/") {
			continue
		}
		if strings.HasPrefix(path, config.Path) && (best == nil || len(config.Path) > len(best.Path)) {
			best = config
		}
	}
	return best
}

func methodMatches(pattern, method string) bool {
	return pattern == "" || pattern == method
}
