package auth

import "strings"

// RouteClass is the access classification of a request path.
type RouteClass int

const (
	RouteProtected RouteClass = iota
	RoutePublic
)

func (rc RouteClass) String() string {
	if rc == RoutePublic {
		return "public"
	}
	return "protected"
}

// RouteRules decides which paths the gate handles and how it classifies them.
// Classification depends on the path only, never on the method.
type RouteRules struct {
	PublicPaths     []string
	ExcludePrefixes []string
	LoginPath       string
	HomePath        string
}

// DefaultRouteRules matches the application's page layout.
func DefaultRouteRules() RouteRules {
	return RouteRules{
		PublicPaths:     []string{"/", "/login"},
		ExcludePrefixes: []string{"/api", "/static", "/favicon.ico", "/health", "/metrics"},
		LoginPath:       "/login",
		HomePath:        "/dashboard",
	}
}

// Excluded reports whether the gate should not look at path at all.
func (r RouteRules) Excluded(path string) bool {
	for _, prefix := range r.ExcludePrefixes {
		if path == prefix || strings.HasPrefix(path, strings.TrimSuffix(prefix, "/")+"/") {
			return true
		}
	}
	return false
}

// Classify returns the class of path.
func (r RouteRules) Classify(path string) RouteClass {
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	for _, public := range r.PublicPaths {
		if path == public {
			return RoutePublic
		}
	}
	return RouteProtected
}
