package openapi

// Document represents the root of an OpenAPI v3.0 document.
//
// See: https://spec.openapis.org/oas/v3.0.3#openapi-object
type Document struct {
	OpenAPI    string               `json:"openapi"`
	Info       Info                 `json:"info"`
	Paths      map[string]*PathItem `json:"paths"`
	Components *Components          `json:"components,omitempty"`
	Tags       []Tag                `json:"tags,omitempty"`
}

// Info provides metadata about the API.
//
// See: https://spec.openapis.org/oas/v3.0.3#info-object
type Info struct {
	Title          string   `json:"title"`
	Version        string   `json:"version"`
	Description    string   `json:"description,omitempty"`
	TermsOfService string   `json:"termsOfService,omitempty"`
	Contact        *Contact `json:"contact,omitempty"`
	License        *License `json:"license,omitempty"`
}

// Contact represents contact information for the API.
//
// See: https://spec.openapis.org/oas/v3.0.3#contact-object
type Contact struct {
	Name  string `json:"name,omitempty"`
	URL   string `json:"url,omitempty"`
	Email string `json:"email,omitempty"`
}

// License represents license information for the API.
//
// See: https://spec.openapis.org/oas/v3.0.3#license-object
type License struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// Tag adds metadata to a single tag used by Operation Objects.
//
// See: https://spec.openapis.org/oas/v3.0.3#tag-object
type Tag struct {
	Name         string        `json:"name"`
	Description  string        `json:"description,omitempty"`
	ExternalDocs *ExternalDocs `json:"externalDocs,omitempty"`
}

// ExternalDocs allows referencing external documentation.
//
// See: https://spec.openapis.org/oas/v3.0.3#external-documentation-object
type ExternalDocs struct {
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

// PathItem describes the operations available on a single path.
//
// See: https://spec.openapis.org/oas/v3.0.3#path-item-object
type PathItem struct {
	Get     *Operation `json:"get,omitempty"`
	Post    *Operation `json:"post,omitempty"`
	Put     *Operation `json:"put,omitempty"`
	Delete  *Operation `json:"delete,omitempty"`
	Patch   *Operation `json:"patch,omitempty"`
	Head    *Operation `json:"head,omitempty"`
	Options *Operation `json:"options,omitempty"`
}

// Operation describes a single API operation on a path. The
// x-handler-function extension records the Go handler the operation
// was assembled from.
//
// See: https://spec.openapis.org/oas/v3.0.3#operation-object
type Operation struct {
	Summary         string                `json:"summary,omitempty"`
	Description     string                `json:"description,omitempty"`
	HandlerFunction string                `json:"x-handler-function,omitempty"`
	Tags            []string              `json:"tags,omitempty"`
	Parameters      []*Parameter          `json:"parameters,omitempty"`
	RequestBody     *RequestBody          `json:"requestBody,omitempty"`
	Responses       map[string]*Response  `json:"responses"`
	Security        []SecurityRequirement `json:"security,omitempty"`
}

// Parameter describes a single operation parameter. The "in" field
// determines the parameter location: "path", "query", or "header".
//
// See: https://spec.openapis.org/oas/v3.0.3#parameter-object
type Parameter struct {
	Name        string  `json:"name"`
	In          string  `json:"in"`
	Description string  `json:"description,omitempty"`
	Required    bool    `json:"required"`
	Schema      *Schema `json:"schema,omitempty"`
}

// RequestBody describes a single request body.
//
// See: https://spec.openapis.org/oas/v3.0.3#request-body-object
type RequestBody struct {
	Description string                `json:"description,omitempty"`
	Content     map[string]*MediaType `json:"content"`
	Required    bool                  `json:"required"`
}

// Response describes a single response from an API operation.
// The description field is REQUIRED per the specification.
//
// See: https://spec.openapis.org/oas/v3.0.3#response-object
type Response struct {
	Description string                `json:"description"`
	Content     map[string]*MediaType `json:"content,omitempty"`
}

// MediaType describes a media type with an optional schema, keyed by its
// MIME type (e.g., "application/json") inside a content map.
//
// See: https://spec.openapis.org/oas/v3.0.3#media-type-object
type MediaType struct {
	Schema *Schema `json:"schema,omitempty"`
}

// Schema represents a JSON Schema object used in OpenAPI v3.0, or a
// reference to a component schema via the $ref field. The field set covers
// what registered schemas and the inline request-body grammar produce;
// unknown keywords in registered schema text are dropped on decode.
//
// See: https://spec.openapis.org/oas/v3.0.3#schema-object
type Schema struct {
	Ref                  string             `json:"$ref,omitempty"`
	Type                 string             `json:"type,omitempty"`
	Format               string             `json:"format,omitempty"`
	Title                string             `json:"title,omitempty"`
	Description          string             `json:"description,omitempty"`
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	Items                *Schema            `json:"items,omitempty"`
	AdditionalProperties *Schema            `json:"additionalProperties,omitempty"`
	Enum                 []any              `json:"enum,omitempty"`
	Example              any                `json:"example,omitempty"`
	Default              any                `json:"default,omitempty"`
}

// Components holds reusable objects. Only schemas that are actually
// referenced by at least one emitted operation appear here.
//
// See: https://spec.openapis.org/oas/v3.0.3#components-object
type Components struct {
	Schemas         map[string]*Schema         `json:"schemas,omitempty"`
	SecuritySchemes map[string]*SecurityScheme `json:"securitySchemes,omitempty"`
}

// SecurityRequirement lists required security schemes for an operation.
// Each key maps to a list of scope names (empty for schemes without scopes).
//
// See: https://spec.openapis.org/oas/v3.0.3#security-requirement-object
type SecurityRequirement map[string][]string

// SecurityScheme defines a security scheme used by API operations.
// The "type" field determines the scheme: "apiKey", "http", "oauth2",
// or "openIdConnect".
//
// See: https://spec.openapis.org/oas/v3.0.3#security-scheme-object
type SecurityScheme struct {
	Type         string `json:"type"`
	Description  string `json:"description,omitempty"`
	Name         string `json:"name,omitempty"`
	In           string `json:"in,omitempty"`
	Scheme       string `json:"scheme,omitempty"`
	BearerFormat string `json:"bearerFormat,omitempty"`
}

// APIKeyScheme creates an apiKey security scheme with the given parameter
// name and location ("query", "header", or "cookie").
func APIKeyScheme(name, in string) *SecurityScheme {
	return &SecurityScheme{Type: "apiKey", Name: name, In: in}
}

// HTTPScheme creates an http security scheme (e.g., "basic").
func HTTPScheme(scheme string) *SecurityScheme {
	return &SecurityScheme{Type: "http", Scheme: scheme}
}

// BearerScheme creates an http bearer security scheme with an optional
// bearer format hint (e.g., "JWT").
func BearerScheme(format string) *SecurityScheme {
	return &SecurityScheme{Type: "http", Scheme: "bearer", BearerFormat: format}
}

// WithDescription returns the scheme with its description set.
func (s *SecurityScheme) WithDescription(description string) *SecurityScheme {
	s.Description = description
	return s
}

// schemaRef returns a Schema that references a component schema by name.
func schemaRef(name string) *Schema {
	return &Schema{Ref: componentSchemaPrefix + name}
}
