package openapi

import (
	"sort"
	"strings"
)

// RouteEntry records one routed method on one path. Paths use the
// placeholder syntax ":name" for variable segments; ConvertPath turns them
// into OpenAPI brace syntax when the document is assembled.
type RouteEntry struct {
	Path        string
	Method      string
	HandlerName string
	Summary     string
}

// MethodHandlers maps HTTP methods to handler function names for one path.
type MethodHandlers map[string]string

// RouteTable is an ordered sequence of route entries, built incrementally
// as routes are registered. Many entries may share a path (different
// methods); they are grouped into one path item at assembly time.
type RouteTable struct {
	entries []RouteEntry
}

// NewRouteTable creates an empty route table.
func NewRouteTable() *RouteTable {
	return &RouteTable{}
}

// Add appends one route entry. The method is normalized to upper case and
// the entry gets a "<METHOD> <path>" summary used when no handler record
// exists for the function name.
func (t *RouteTable) Add(path, method, handlerName string) *RouteTable {
	method = strings.ToUpper(method)
	t.entries = append(t.entries, RouteEntry{
		Path:        path,
		Method:      method,
		HandlerName: handlerName,
		Summary:     method + " " + path,
	})
	return t
}

// Route appends one entry per method in handlers, in lexical method order
// so that repeated registrations produce identical tables.
func (t *RouteTable) Route(path string, handlers MethodHandlers) *RouteTable {
	methods := make([]string, 0, len(handlers))
	for method := range handlers {
		methods = append(methods, method)
	}
	sort.Strings(methods)

	for _, method := range methods {
		t.Add(path, method, handlers[method])
	}
	return t
}

// Entries returns the registered routes in registration order.
func (t *RouteTable) Entries() []RouteEntry {
	if t == nil {
		return nil
	}
	return t.entries
}

// Len returns the number of registered routes.
func (t *RouteTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// ConvertPath converts placeholder path syntax to OpenAPI brace syntax,
// segment by segment: "/users/:id" becomes "/users/{id}". Segments without
// the placeholder marker are unchanged.
func ConvertPath(path string) string {
	segments := strings.Split(path, "/")
	for i, segment := range segments {
		if name, ok := strings.CutPrefix(segment, ":"); ok {
			segments[i] = "{" + name + "}"
		}
	}
	return strings.Join(segments, "/")
}
