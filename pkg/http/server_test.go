package http

import "testing"

func routePaths(s *Server) map[string]bool {
	paths := make(map[string]bool)
	for _, r := range s.Echo().Routes() {
		paths[r.Path] = true
	}
	return paths
}

func TestServerMetricsRouteDefault(t *testing.T) {
	s := NewServer(nil)
	if !routePaths(s)["/metrics"] {
		t.Fatalf("scrape endpoint missing from default server")
	}
}

func TestServerMetricsDisabled(t *testing.T) {
	s := NewServer(nil, WithMetrics(false, ""))
	if routePaths(s)["/metrics"] {
		t.Fatalf("scrape endpoint registered while disabled")
	}
}

func TestServerMetricsCustomPath(t *testing.T) {
	s := NewServer(nil, WithMetrics(true, "/internal/metrics"))
	paths := routePaths(s)
	if !paths["/internal/metrics"] {
		t.Fatalf("custom scrape path not registered")
	}
	if paths["/metrics"] {
		t.Fatalf("default scrape path must move with the configured one")
	}
}
