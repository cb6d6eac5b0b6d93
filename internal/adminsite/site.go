package adminsite

import (
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
)

var (
	ErrDuplicateRoute = errors.New("admin route already registered")
	ErrInvalidRoute   = errors.New("admin route needs a path, a name and a handler")
)

// Route is one entry of the admin route table. Path is relative to the site prefix.
// Methods defaults to GET. Public routes skip the staff guard.
type Route struct {
	Path    string
	Name    string
	Title   string
	Methods []string
	Public  bool
	Handler http.Handler
}

// Site is the admin route table. Routes are registered once during bootstrap, then mounted.
type Site struct {
	mu     sync.RWMutex
	prefix string
	routes []Route
}

func New(prefix string) *Site {
	prefix = "/" + strings.Trim(prefix, "/")
	if prefix == "/" {
		prefix = "/admin"
	}
	return &Site{prefix: prefix}
}

func (s *Site) Prefix() string { return s.prefix }

// Register appends r to the table. A path or name that is already taken is rejected, so calling
// a registration function twice cannot duplicate an entry.
func (s *Site) Register(r Route) error {
	if strings.TrimSpace(r.Path) == "" || r.Name == "" || r.Handler == nil {
		return ErrInvalidRoute
	}
	r.Path = cleanPath(r.Path)
	if len(r.Methods) == 0 {
		r.Methods = []string{http.MethodGet}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.routes {
		if existing.Path == r.Path || existing.Name == r.Name {
			return fmt.Errorf("%w: %s (%s)", ErrDuplicateRoute, r.Path, r.Name)
		}
	}
	s.routes = append(s.routes, r)
	return nil
}

// Routes returns a copy of the table in registration order.
func (s *Site) Routes() []Route {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Route, len(s.routes))
	copy(out, s.routes)
	return out
}

// URL returns the absolute path of the route called name.
func (s *Site) URL(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.routes {
		if r.Name == name {
			return s.prefix + r.Path, true
		}
	}
	return "", false
}

// Linked returns the routes shown on the admin index: non-public GET routes with a title.
func (s *Site) Linked() []Route {
	var out []Route
	for _, r := range s.Routes() {
		if r.Public || r.Title == "" {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Mount attaches every registered route under the prefix. Non-public routes are wrapped by
// guard. Each route answers both with and without its trailing slash.
func (s *Site) Mount(r chi.Router, guard func(http.Handler) http.Handler) {
	routes := s.Routes()

	r.Route(s.prefix, func(r chi.Router) {
		r.Group(func(r chi.Router) {
			for _, rt := range routes {
				if rt.Public {
					handle(r, rt)
				}
			}
		})

		r.Group(func(r chi.Router) {
			if guard != nil {
				r.Use(guard)
			}
			for _, rt := range routes {
				if !rt.Public {
					handle(r, rt)
				}
			}
		})
	})
}

func handle(r chi.Router, rt Route) {
	for _, m := range rt.Methods {
		r.Method(m, rt.Path, rt.Handler)
		if alt := strings.TrimSuffix(rt.Path, "/"); alt != rt.Path && alt != "" {
			r.Method(m, alt, rt.Handler)
		}
	}
}

func cleanPath(p string) string {
	trailing := strings.HasSuffix(p, "/")
	p = path.Clean("/" + strings.TrimSpace(p))
	if trailing && p != "/" {
		p += "/"
	}
	return p
}
