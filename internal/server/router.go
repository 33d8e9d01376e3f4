package server

import (
	"net/http"
	"slices"
	"strings"
	"sync"
)

// BasicRouter implements [Router] on top of [http.ServeMux].
//
// Each path keeps its own method table, so one path can serve several methods. GET routes answer
// HEAD as well, which the media file server and health probes rely on.
type BasicRouter struct {
	mux         *http.ServeMux
	middlewares []Middleware

	mu     sync.Mutex
	routes map[string]*methodTable
}

type methodTable struct {
	mu       sync.RWMutex
	handlers map[string]http.Handler
}

func (t *methodTable) allowed() string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	methods := make([]string, 0, len(t.handlers)+1)
	for m := range t.handlers {
		methods = append(methods, m)
	}
	if _, ok := t.handlers[http.MethodGet]; ok {
		if _, ok := t.handlers[http.MethodHead]; !ok {
			methods = append(methods, http.MethodHead)
		}
	}
	slices.Sort(methods)
	return strings.Join(methods, ", ")
}

func (t *methodTable) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	method := strings.ToUpper(req.Method)

	t.mu.RLock()
	h, ok := t.handlers[method]
	if !ok && method == http.MethodHead {
		h, ok = t.handlers[http.MethodGet]
	}
	t.mu.RUnlock()

	if !ok {
		w.Header().Set("Allow", t.allowed())
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.ServeHTTP(w, req)
}

// NewBasicRouter creates an empty [BasicRouter].
func NewBasicRouter() *BasicRouter {
	return &BasicRouter{
		mux:    http.NewServeMux(),
		routes: make(map[string]*methodTable),
	}
}

// Use appends middleware. Only routes registered afterwards are wrapped.
func (r *BasicRouter) Use(middleware ...Middleware) {
	r.middlewares = append(r.middlewares, middleware...)
}

// Handle registers handler for method on path. Registering the same pair twice replaces the handler.
func (r *BasicRouter) Handle(method, path string, handler http.Handler) {
	table := r.table(path)

	table.mu.Lock()
	table.handlers[strings.ToUpper(method)] = r.Apply(handler)
	table.mu.Unlock()
}

// Handler registers every route in [Handler.Routes] for all methods; the handler checks methods itself.
func (r *BasicRouter) Handler(handler Handler) {
	wrapped := r.Apply(handler)
	for _, route := range handler.Routes() {
		r.mux.Handle(route, wrapped)
	}
}

func (r *BasicRouter) table(path string) *methodTable {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.routes[path]; ok {
		return t
	}
	t := &methodTable{handlers: make(map[string]http.Handler)}
	r.routes[path] = t
	r.mux.Handle(path, t)
	return t
}

// ServeHTTP implements [http.Handler] for the entire router.
func (r *BasicRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Apply wraps handler so the first middleware passed to [BasicRouter.Use] runs outermost.
func (r *BasicRouter) Apply(handler http.Handler) http.Handler {
	for i := len(r.middlewares) - 1; i >= 0; i-- {
		handler = r.middlewares[i](handler)
	}
	return handler
}
