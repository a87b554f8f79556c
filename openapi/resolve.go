package openapi

import "strings"

const (
	componentSchemaPrefix = "#/components/schemas/"
	refMarker             = `"$ref":"#/components/schemas/`
)

// defaultErrorAliases maps internal error type names to the registered
// schema that documents them on the wire.
var defaultErrorAliases = map[string]string{
	"AppError": "ErrorResponse",
}

// successHints pairs a description keyword with a schema-name fragment for
// 2xx matching: a description mentioning the keyword selects a registered
// schema whose name contains the fragment. Checked alongside direct name
// containment, in registration order.
var successHints = []struct {
	keyword  string
	fragment string
}{
	{"user", "User"},
	{"greeting", "Greet"},
	{"hello", "Hello"},
}

// resolver matches handler metadata against the schema registry and tracks
// which registered schemas a document actually references.
type resolver struct {
	schemas *Registry[SchemaRecord]
	aliases map[string]string
	used    map[string]bool
}

func newResolver(schemas *Registry[SchemaRecord], aliases map[string]string) *resolver {
	return &resolver{
		schemas: schemas,
		aliases: aliases,
		used:    make(map[string]bool),
	}
}

func (r *resolver) isRegistered(name string) bool {
	_, ok := findSchema(r.schemas, name)
	return ok
}

// markUsed records a schema reference for the closure pass.
func (r *resolver) markUsed(name string) {
	r.used[name] = true
}

// resolveBody picks the schema for a request body. An explicit type that
// is registered wins outright; otherwise the raw field is scanned for any
// registered type name, in registration order.
func (r *resolver) resolveBody(body parsedBody) (string, bool) {
	if body.explicitType != "" && r.isRegistered(body.explicitType) {
		r.markUsed(body.explicitType)
		return body.explicitType, true
	}
	for _, rec := range r.schemas.All() {
		if strings.Contains(body.raw, rec.TypeName) {
			r.markUsed(rec.TypeName)
			return rec.TypeName, true
		}
	}
	return "", false
}

// resolveSuccess picks the schema for a 2xx response from its description.
// Each registered schema matches either by case-insensitive name containment
// or by one of the keyword hints; first match in registration order wins.
func (r *resolver) resolveSuccess(description string) (string, bool) {
	lower := strings.ToLower(description)
	for _, rec := range r.schemas.All() {
		if strings.Contains(lower, strings.ToLower(rec.TypeName)) || hintMatches(description, rec.TypeName) {
			r.markUsed(rec.TypeName)
			return rec.TypeName, true
		}
	}
	return "", false
}

func hintMatches(description, typeName string) bool {
	for _, hint := range successHints {
		if strings.Contains(description, hint.keyword) && strings.Contains(typeName, hint.fragment) {
			return true
		}
	}
	return false
}

// resolveError picks the schema for a non-2xx response. Tiers, in order:
// an *Error type name mentioned literally in the response description, the
// endpoint's declared default error type (module paths stripped, aliases
// applied), and finally the first registered *Error type when the
// description mentions an error at all.
func (r *resolver) resolveError(description, defaultErrorType string) (string, bool) {
	for _, rec := range r.schemas.All() {
		if strings.HasSuffix(rec.TypeName, "Error") && strings.Contains(description, rec.TypeName) {
			r.markUsed(rec.TypeName)
			return rec.TypeName, true
		}
	}

	if defaultErrorType != "" {
		name := defaultErrorType
		if i := strings.LastIndex(name, "::"); i >= 0 {
			name = name[i+2:]
		}
		if alias, ok := r.aliases[name]; ok {
			name = alias
		}
		if r.isRegistered(name) {
			r.markUsed(name)
			return name, true
		}
	}

	if strings.Contains(strings.ToLower(description), "error") {
		for _, rec := range r.schemas.All() {
			if strings.HasSuffix(rec.TypeName, "Error") {
				r.markUsed(rec.TypeName)
				return rec.TypeName, true
			}
		}
	}
	return "", false
}

// closure expands the used set with every registered schema reachable
// through "$ref" links inside already-used schema documents, iterating to a
// fixpoint. References to unregistered names are ignored.
func (r *resolver) closure() {
	for {
		grew := false
		for name := range r.used {
			rec, ok := findSchema(r.schemas, name)
			if !ok {
				continue
			}
			for _, ref := range extractRefs(rec.SchemaJSON) {
				if !r.used[ref] && r.isRegistered(ref) {
					r.used[ref] = true
					grew = true
				}
			}
		}
		if !grew {
			return
		}
	}
}

// extractRefs scans a raw schema document for component schema references.
// The scan is textual: schema documents are stored as raw JSON and only
// the canonical single-line ref spelling is recognized.
func extractRefs(schemaJSON string) []string {
	var refs []string
	rest := schemaJSON
	for {
		i := strings.Index(rest, refMarker)
		if i < 0 {
			return refs
		}
		rest = rest[i+len(refMarker):]
		end := strings.IndexByte(rest, '"')
		if end < 0 {
			return refs
		}
		if name := rest[:end]; name != "" {
			refs = append(refs, name)
		}
		rest = rest[end:]
	}
}
