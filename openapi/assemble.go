package openapi

import (
	"encoding/json"
	"sort"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	openAPIVersion         = "3.0.0"
	securitySchemeName     = "sessionAuth"
	securityHeaderName     = "x-session-secret"
	securitySchemeDoc      = "API session token for authentication"
	fallbackDescription    = "No description available"
	defaultSuccessResponse = "Successful response"
	injected401Description = "Authentication token required or invalid"
	fallbackDocumentJSON   = `{"openapi":"3.0.0","info":{"title":"Error","version":"0.0.0"},"paths":{}}`
)

// Assembler builds an OpenAPI document from a handler registry, a schema
// registry, and a route table. Registries must be fully populated before
// the first assembly call. An Assembler is not safe for concurrent use;
// independent assemblers over the same registries are.
type Assembler struct {
	info     Info
	handlers *Registry[HandlerRecord]
	schemas  *Registry[SchemaRecord]
	routes   *RouteTable
	tags     []Tag
	aliases  map[string]string
	logger   *zap.Logger
	used     map[string]bool
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithLogger sets the logger used for serialization failures and unused
// schema reports. The default logger discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(a *Assembler) {
		a.logger = logger
	}
}

// WithErrorAlias maps an internal error type name to the registered schema
// that documents it, replacing or extending the default AppError mapping.
func WithErrorAlias(errorType, schemaName string) Option {
	return func(a *Assembler) {
		a.aliases[errorType] = schemaName
	}
}

// NewAssembler creates an assembler for the given API title and version,
// reading handler documentation and schemas from the given registries.
func NewAssembler(title, version string, handlers *Registry[HandlerRecord], schemas *Registry[SchemaRecord], opts ...Option) *Assembler {
	a := &Assembler{
		info:     Info{Title: title, Version: version},
		handlers: handlers,
		schemas:  schemas,
		routes:   NewRouteTable(),
		aliases:  make(map[string]string, len(defaultErrorAliases)),
		logger:   zap.NewNop(),
	}
	for name, alias := range defaultErrorAliases {
		a.aliases[name] = alias
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Description sets the API description.
func (a *Assembler) Description(description string) *Assembler {
	a.info.Description = description
	return a
}

// TermsOfService sets the terms-of-service URL.
func (a *Assembler) TermsOfService(url string) *Assembler {
	a.info.TermsOfService = url
	return a
}

// Contact sets the full contact block.
func (a *Assembler) Contact(name, url, email string) *Assembler {
	a.info.Contact = &Contact{Name: name, URL: url, Email: email}
	return a
}

// ContactEmail sets a contact with only an email address.
func (a *Assembler) ContactEmail(email string) *Assembler {
	a.info.Contact = &Contact{Email: email}
	return a
}

// License sets the license block.
func (a *Assembler) License(name, url string) *Assembler {
	a.info.License = &License{Name: name, URL: url}
	return a
}

// Tag declares a document-level tag. Tags are emitted in declaration order.
func (a *Assembler) Tag(name, description string) *Assembler {
	a.tags = append(a.tags, Tag{Name: name, Description: description})
	return a
}

// TagWithDocs declares a tag with an external documentation link.
func (a *Assembler) TagWithDocs(name, description, docsURL, docsDescription string) *Assembler {
	a.tags = append(a.tags, Tag{
		Name:        name,
		Description: description,
		ExternalDocs: &ExternalDocs{
			URL:         docsURL,
			Description: docsDescription,
		},
	})
	return a
}

// Routes exposes the route table for registration.
func (a *Assembler) Routes() *RouteTable {
	return a.routes
}

// Route registers one path with its method handlers.
func (a *Assembler) Route(path string, handlers MethodHandlers) *Assembler {
	a.routes.Route(path, handlers)
	return a
}

// Document assembles the OpenAPI document from the current registries and
// route table. Each call runs a fresh assembly; the used-schema set is
// recomputed from scratch.
func (a *Assembler) Document() *Document {
	res := newResolver(a.schemas, a.aliases)

	paths := make(map[string]*PathItem)
	hasAuth := false
	for _, entry := range a.routes.Entries() {
		key := ConvertPath(entry.Path)
		item, ok := paths[key]
		if !ok {
			item = &PathItem{}
			paths[key] = item
		}
		op, requiresAuth := a.buildOperation(entry, res)
		a.assignOperation(item, entry.Method, op)
		if requiresAuth {
			hasAuth = true
		}
	}

	res.closure()
	a.used = res.used

	doc := &Document{
		OpenAPI: openAPIVersion,
		Info:    a.info,
		Paths:   paths,
	}
	doc.Components = a.buildComponents(res, hasAuth)
	if len(a.tags) > 0 {
		doc.Tags = a.tags
	}
	return doc
}

// buildOperation turns one route entry into an operation, synthesizing a
// minimal one when no handler record exists for the function name. The
// second return reports whether the operation requires authentication.
func (a *Assembler) buildOperation(entry RouteEntry, res *resolver) (*Operation, bool) {
	op := &Operation{
		HandlerFunction: entry.HandlerName,
		Responses:       make(map[string]*Response),
	}

	rec, ok := findHandler(a.handlers, entry.HandlerName)
	if !ok {
		op.Summary = entry.Summary
		op.Description = fallbackDescription
		op.Responses["200"] = &Response{Description: defaultSuccessResponse}
		return op, false
	}

	op.Summary = rec.Summary
	op.Description = rec.Description
	op.Tags = parseTags(rec.Tags)

	params := parseParameters(rec.Parameters)
	op.Parameters = params.params
	if params.requiresAuth {
		op.Security = []SecurityRequirement{{securitySchemeName: {}}}
	}

	if !emptyField(rec.RequestBody) {
		op.RequestBody = buildRequestBody(parseRequestBody(rec.RequestBody), res)
	}

	responses := parseResponses(rec.Responses)
	for _, r := range responses.responses {
		op.Responses[r.code] = shapeResponse(r.code, r.description, responses.defaultErrorType, res)
	}
	if params.requiresAuth {
		if _, declared := op.Responses["401"]; !declared {
			op.Responses["401"] = shapeResponse("401", injected401Description, responses.defaultErrorType, res)
		}
	}
	if len(op.Responses) == 0 {
		op.Responses["200"] = &Response{Description: defaultSuccessResponse}
	}

	return op, params.requiresAuth
}

// shapeResponse applies the status-code content rules: 204 carries no
// content, other 2xx always carry a JSON section, everything else carries
// content only when an error schema resolves.
func shapeResponse(code, description, defaultErrorType string, res *resolver) *Response {
	resp := &Response{Description: description}

	switch {
	case code == "204":

	case code[0] == '2':
		schema := &Schema{Type: "object"}
		if name, ok := res.resolveSuccess(description); ok {
			schema = schemaRef(name)
		}
		resp.Content = map[string]*MediaType{
			defaultContentType: {Schema: schema},
		}

	default:
		if name, ok := res.resolveError(description, defaultErrorType); ok {
			resp.Content = map[string]*MediaType{
				defaultContentType: {Schema: schemaRef(name)},
			}
		}
	}

	return resp
}

// buildRequestBody turns a parsed body into the emitted structure. A
// resolved schema yields a $ref body with the fixed description; otherwise
// an object schema is built from the inline properties.
func buildRequestBody(body parsedBody, res *resolver) *RequestBody {
	if name, ok := res.resolveBody(body); ok {
		return &RequestBody{
			Description: defaultBodySummary,
			Required:    true,
			Content: map[string]*MediaType{
				defaultContentType: {Schema: schemaRef(name)},
			},
		}
	}

	schema := &Schema{Type: "object"}
	if len(body.properties) > 0 {
		schema.Properties = make(map[string]*Schema, len(body.properties))
		for _, p := range body.properties {
			schema.Properties[p.name] = &Schema{
				Type:        p.fieldType,
				Description: p.description,
			}
		}
	}

	return &RequestBody{
		Description: body.description,
		Required:    true,
		Content: map[string]*MediaType{
			body.contentType: {Schema: schema},
		},
	}
}

func (a *Assembler) assignOperation(item *PathItem, method string, op *Operation) {
	switch method {
	case "GET":
		item.Get = op
	case "POST":
		item.Post = op
	case "PUT":
		item.Put = op
	case "DELETE":
		item.Delete = op
	case "PATCH":
		item.Patch = op
	case "HEAD":
		item.Head = op
	case "OPTIONS":
		item.Options = op
	default:
		a.logger.Warn("unsupported http method", zap.String("method", method))
	}
}

// buildComponents emits exactly the used schemas, first registration wins
// on duplicate type names. The whole section is omitted when it would
// carry neither schemas nor security schemes.
func (a *Assembler) buildComponents(res *resolver, hasAuth bool) *Components {
	schemas := make(map[string]*Schema)
	for _, rec := range a.schemas.All() {
		if !res.used[rec.TypeName] {
			continue
		}
		if _, dup := schemas[rec.TypeName]; dup {
			continue
		}
		schemas[rec.TypeName] = decodeSchema(rec.SchemaJSON)
	}

	if len(schemas) == 0 && !hasAuth {
		return nil
	}

	comp := &Components{}
	if len(schemas) > 0 {
		comp.Schemas = schemas
	}
	if hasAuth {
		comp.SecuritySchemes = map[string]*SecurityScheme{
			securitySchemeName: APIKeyScheme(securityHeaderName, "header").
				WithDescription(securitySchemeDoc),
		}
	}
	return comp
}

// decodeSchema parses registered schema text into the typed model;
// undecodable text degrades to a generic object schema.
func decodeSchema(schemaJSON string) *Schema {
	var s Schema
	if err := json.Unmarshal([]byte(schemaJSON), &s); err != nil {
		return &Schema{Type: "object"}
	}
	return &s
}

// JSON assembles the document and serializes it. A serialization failure
// is logged and yields a fixed minimal document instead of an error.
func (a *Assembler) JSON() string {
	data, err := json.Marshal(a.Document())
	if err != nil {
		a.logger.Error("serialize openapi document", zap.Error(err))
		return fallbackDocumentJSON
	}
	return string(data)
}

// YAML returns a top-level YAML rendition carrying the version line, the
// info title and version, and an empty paths map. Full path serialization
// is JSON-only.
func (a *Assembler) YAML() string {
	var stub struct {
		OpenAPI string `yaml:"openapi"`
		Info    struct {
			Title   string `yaml:"title"`
			Version string `yaml:"version"`
		} `yaml:"info"`
		Paths map[string]any `yaml:"paths"`
	}
	stub.OpenAPI = openAPIVersion
	stub.Info.Title = a.info.Title
	stub.Info.Version = a.info.Version
	stub.Paths = map[string]any{}

	data, err := yaml.Marshal(stub)
	if err != nil {
		a.logger.Error("serialize openapi yaml", zap.Error(err))
		return ""
	}
	return string(data)
}

// UnusedSchemas returns the sorted type names registered but not reachable
// from any emitted operation. Runs an assembly first if none has happened
// yet on this assembler.
func (a *Assembler) UnusedSchemas() []string {
	if a.used == nil {
		a.Document()
	}

	seen := make(map[string]bool, a.schemas.Len())
	unused := make([]string, 0)
	for _, rec := range a.schemas.All() {
		if a.used[rec.TypeName] || seen[rec.TypeName] {
			continue
		}
		seen[rec.TypeName] = true
		unused = append(unused, rec.TypeName)
	}
	sort.Strings(unused)
	return unused
}

// LogUnusedSchemas warns once per unused schema.
func (a *Assembler) LogUnusedSchemas() {
	for _, name := range a.UnusedSchemas() {
		a.logger.Warn("schema registered but never referenced",
			zap.String("schema", name))
	}
}
