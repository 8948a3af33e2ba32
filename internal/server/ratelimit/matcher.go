package ratelimit

import "strings"

// MatchEndpoint resolves the endpoint configuration for a request. The
// health check is always unlimited. Exact path matches win over prefix
// matches; a config whose Path ends in "/" matches any longer path
// under it, which is how "/sessions/" covers "/sessions/{id}/messages".
// Returns nil when no config applies and the default limit should be
// used.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if path == "/health" && method == "GET" {
		// Zero limit means unlimited.
		return &EndpointConfig{}
	}

	for i := range configs {
		if configs[i].Path == path && configs[i].Method == method {
			return &configs[i]
		}
	}

	for i := range configs {
		c := &configs[i]
		if c.Method == method && strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) {
			return c
		}
	}

	return nil
}
