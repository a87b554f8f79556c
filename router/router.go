// Package router couples HTTP routing with OpenAPI document assembly: every
// route registered here is served by chi and recorded in the assembler's
// route table, so the published document always matches the live routes.
package router

import (
	"net/http"
	"reflect"
	"runtime"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/routespec/routespec/openapi"
)

const defaultSpecPrefix = "/openapi"

// Router wraps a chi mux and an assembler. Paths use the placeholder
// syntax ":name"; they are converted to brace syntax before reaching chi
// and before appearing in the document.
type Router struct {
	mux *chi.Mux
	asm *openapi.Assembler
}

// New creates a router feeding the given assembler's route table.
func New(asm *openapi.Assembler) *Router {
	return &Router{
		mux: chi.NewRouter(),
		asm: asm,
	}
}

// Use appends middleware to the chain. Must be called before any route is
// registered, per chi's mounting rules.
func (r *Router) Use(middlewares ...func(http.Handler) http.Handler) {
	r.mux.Use(middlewares...)
}

// Get registers a GET route under the handler's derived function name.
func (r *Router) Get(path string, h http.HandlerFunc) {
	r.handle(http.MethodGet, path, h)
}

// Post registers a POST route under the handler's derived function name.
func (r *Router) Post(path string, h http.HandlerFunc) {
	r.handle(http.MethodPost, path, h)
}

// Put registers a PUT route under the handler's derived function name.
func (r *Router) Put(path string, h http.HandlerFunc) {
	r.handle(http.MethodPut, path, h)
}

// Delete registers a DELETE route under the handler's derived function name.
func (r *Router) Delete(path string, h http.HandlerFunc) {
	r.handle(http.MethodDelete, path, h)
}

// Patch registers a PATCH route under the handler's derived function name.
func (r *Router) Patch(path string, h http.HandlerFunc) {
	r.handle(http.MethodPatch, path, h)
}

func (r *Router) handle(method, path string, h http.HandlerFunc) {
	r.Handle(method, path, handlerFuncName(h), h)
}

// Handle registers a route under an explicit handler name, for handlers
// whose derived function name would not match their registered record
// (closures, wrapped handlers).
func (r *Router) Handle(method, path, handlerName string, h http.HandlerFunc) {
	r.asm.Routes().Add(path, method, handlerName)
	r.mux.Method(method, openapi.ConvertPath(path), h)
}

// ServeOpenAPI registers the document endpoints "<prefix>.json" and
// "<prefix>.yaml". The document is assembled once, on the first request to
// either endpoint, and cached. Call after all routes are registered.
func (r *Router) ServeOpenAPI(prefix string) {
	prefix = normalizePrefix(prefix)

	var (
		once     sync.Once
		jsonSpec string
		yamlSpec string
	)
	build := func() {
		jsonSpec = r.asm.JSON()
		yamlSpec = r.asm.YAML()
	}

	r.mux.Get(prefix+".json", func(w http.ResponseWriter, _ *http.Request) {
		once.Do(build)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(jsonSpec))
	})
	r.mux.Get(prefix+".yaml", func(w http.ResponseWriter, _ *http.Request) {
		once.Do(build)
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write([]byte(yamlSpec))
	})
}

func normalizePrefix(prefix string) string {
	if prefix == "" {
		return defaultSpecPrefix
	}
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	return strings.TrimRight(prefix, "/")
}

// ServeHTTP dispatches to the underlying chi mux.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// handlerFuncName derives the bare function name of a handler: the last
// path segment after the final dot, with the method-value suffix stripped.
func handlerFuncName(h http.HandlerFunc) string {
	fn := runtime.FuncForPC(reflect.ValueOf(h).Pointer())
	if fn == nil {
		return ""
	}
	name := fn.Name()
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimSuffix(name, "-fm")
}
