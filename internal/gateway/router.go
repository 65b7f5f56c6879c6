// Package gateway is the single network-facing entry point: it counts
// requests per client per minute window, rejects over-budget clients
// and proxies allowed requests to the backend owning the path prefix.
package gateway

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// DefaultServiceMap mirrors the deployment's compose topology.
func DefaultServiceMap() map[string]string {
	return map[string]string{
		"/api/auth":      "http://auth:8082",
		"/api/v1/auth":   "http://auth:8082",
		"/api/films":     "http://app:8000",
		"/api/v1/films":  "http://app:8000",
		"/api/v1/genres": "http://app:8000",
		"/api/v1/persons": "http://app:8000",
		"/api/files":     "http://file_api:8081",
		"/api/v1/files":  "http://file_api:8081",
		"/admin":         "http://django_admin:8001",
		"/minio/":        "http://minio:9000",
	}
}

// ParseServiceMap decodes a JSON object of path prefix to backend base
// URL. An empty input yields the default map.
func ParseServiceMap(raw string) (map[string]string, error) {
	if raw == "" {
		return DefaultServiceMap(), nil
	}

	var table map[string]string
	if err := json.Unmarshal([]byte(raw), &table); err != nil {
		return nil, fmt.Errorf("invalid service map: %w", err)
	}

	return table, nil
}

type route struct {
	prefix string
	target string
}

// Router matches request paths against a static prefix table. Prefixes
// are ordered longest first so the most specific route wins.
type Router struct {
	routes []route
}

func NewRouter(table map[string]string) *Router {
	routes := make([]route, 0, len(table))
	for prefix, target := range table {
		routes = append(routes, route{prefix: prefix, target: target})
	}
	sort.Slice(routes, func(i, j int) bool {
		if len(routes[i].prefix) != len(routes[j].prefix) {
			return len(routes[i].prefix) > len(routes[j].prefix)
		}
		return routes[i].prefix < routes[j].prefix
	})

	return &Router{routes: routes}
}

// Route returns the backend base URL for the longest matching prefix.
func (r *Router) Route(path string) (string, bool) {
	for _, rt := range r.routes {
		if strings.HasPrefix(path, rt.prefix) {
			return rt.target, true
		}
	}

	return "", false
}
