package server

import (
	"sort"
	"strings"
)

var systemPaths = map[string]bool{
	"/health":  true,
	"/alive":   true,
	"/ready":   true,
	"/info":    true,
	"/version": true,
	"/metrics": true,
}

// Route is one registered Gin route.
type Route struct {
	Method  string
	Path    string
	Handler string
	System  bool
}

// Routes lists the registered routes: API routes first by path, then the
// system endpoints.
func (s *Server) Routes() []Route {
	ginRoutes := s.engine.Routes()
	routes := make([]Route, 0, len(ginRoutes))
	for _, r := range ginRoutes {
		routes = append(routes, Route{
			Method:  r.Method,
			Path:    r.Path,
			Handler: handlerName(r.Handler),
			System:  systemPaths[r.Path],
		})
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].System != routes[j].System {
			return !routes[i].System
		}
		if routes[i].Path != routes[j].Path {
			return routes[i].Path < routes[j].Path
		}
		return methodOrder(routes[i].Method) < methodOrder(routes[j].Method)
	})
	return routes
}

func methodOrder(method string) int {
	switch method {
	case "GET":
		return 0
	case "POST":
		return 1
	case "PUT":
		return 2
	case "PATCH":
		return 3
	case "DELETE":
		return 4
	default:
		return 5
	}
}

// handlerName trims "github.com/kbukum/fluency/api.(*Handler).Upload-fm" to
// "api.Upload" and "…/endpoint.Health.func1" to "endpoint.Health".
func handlerName(full string) string {
	name := full[strings.LastIndex(full, "/")+1:]
	name = strings.TrimSuffix(name, "-fm")
	parts := strings.Split(name, ".")
	if len(parts) < 2 {
		return name
	}
	last := parts[len(parts)-1]
	if strings.HasPrefix(last, "func") && len(parts) > 2 {
		last = parts[len(parts)-2]
	}
	return parts[0] + "." + last
}
