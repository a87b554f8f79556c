package openapi

// HandlerRecord carries the documentation registered for one handler
// function. The Parameters, Responses, RequestBody, and Tags fields each
// hold a JSON-encoded ordered array of strings in the metadata grammar
// decoded by this package. Records are written once at startup and never
// mutated afterwards.
type HandlerRecord struct {
	FunctionName string
	Summary      string
	Description  string
	Parameters   string
	Responses    string
	RequestBody  string
	Tags         string
}

// SchemaRecord associates a type name with its JSON Schema text. The text
// may contain $ref strings pointing at other registered type names. The
// same TypeName may be registered more than once; lookups use the first
// registration and never error on duplicates.
type SchemaRecord struct {
	TypeName   string
	SchemaJSON string
}

// Registry is an append-only collection of records, populated before any
// assembly runs and read many times afterwards. Registration order is
// preserved and drives first-match lookup semantics.
type Registry[T any] struct {
	records []T
}

// NewRegistry creates an empty registry.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{}
}

// Add appends records to the registry and returns it for chaining.
func (r *Registry[T]) Add(records ...T) *Registry[T] {
	r.records = append(r.records, records...)
	return r
}

// All returns the registered records in registration order.
func (r *Registry[T]) All() []T {
	if r == nil {
		return nil
	}
	return r.records
}

// Len returns the number of registered records.
func (r *Registry[T]) Len() int {
	if r == nil {
		return 0
	}
	return len(r.records)
}

// findHandler returns the first record registered under the given function
// name.
func findHandler(reg *Registry[HandlerRecord], functionName string) (HandlerRecord, bool) {
	for _, rec := range reg.All() {
		if rec.FunctionName == functionName {
			return rec, true
		}
	}
	return HandlerRecord{}, false
}

// findSchema returns the first record registered under the given type name.
func findSchema(reg *Registry[SchemaRecord], typeName string) (SchemaRecord, bool) {
	for _, rec := range reg.All() {
		if rec.TypeName == typeName {
			return rec, true
		}
	}
	return SchemaRecord{}, false
}
