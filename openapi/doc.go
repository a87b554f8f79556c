// Package openapi assembles OpenAPI v3.0 documents from handler and schema
// registries plus an ordered route table.
//
// Handler documentation lives in append-only registries populated once at
// startup: each HandlerRecord carries a summary, a description, and four
// raw metadata fields (parameters, responses, request body, tags), each a
// JSON-encoded array of strings in a small line grammar. SchemaRecords pair
// a type name with raw JSON Schema text. The assembler matches route
// entries against handler records, parses the metadata, resolves which
// registered schemas each operation uses, and emits a document containing
// exactly the schemas that are transitively reachable from at least one
// operation.
//
// See: https://spec.openapis.org/oas/v3.0.3
//
// # Registries
//
// Populate the registries before building anything:
//
//	handlers := openapi.NewRegistry[openapi.HandlerRecord]().Add(
//	    openapi.HandlerRecord{
//	        FunctionName: "get_user",
//	        Summary:      "Get a user",
//	        Description:  "Fetch one user by id.",
//	        Parameters:   `["id (path): The user id [example: 42]"]`,
//	        Responses:    `["200: The UserResponse for the id", "404: Not found"]`,
//	        Tags:         `["users"]`,
//	    },
//	)
//
//	schemas := openapi.NewRegistry[openapi.SchemaRecord]().Add(
//	    openapi.SchemaRecord{
//	        TypeName:   "UserResponse",
//	        SchemaJSON: `{"type":"object","properties":{"id":{"type":"integer"}}}`,
//	    },
//	)
//
// # Metadata Grammar
//
// Parameter lines follow "name (in): description" with an optional trailing
// "[example: v, default: v]" block. Path parameters are always required;
// defaults apply only to non-path locations. Lines outside the grammar
// degrade to a generic query parameter rather than failing.
//
// Response lines follow "NNN: description" where NNN is a three-digit
// status code; anything else is dropped. An "ErrorType: Name" line records
// the handler's default error type for non-2xx schema resolution.
//
// Request-body lines may name a registered schema ("Type: Name"), set the
// content type ("Content-Type: application/json"), contribute inline object
// properties ("- name (string): The user's name"), or set the body
// description.
//
// # Assembling
//
//	asm := openapi.NewAssembler("My API", "1.0.0", handlers, schemas).
//	    Description("Example service").
//	    Tag("users", "User management")
//
//	asm.Route("/users/:id", openapi.MethodHandlers{"GET": "get_user"})
//
//	doc := asm.Document()
//	out := asm.JSON()
//
// Placeholder path segments (":id") are converted to brace syntax ("{id}")
// in the emitted document. Routes without a matching handler record get a
// minimal synthesized operation.
//
// # Authentication
//
// A handler whose parameters carry the auth marker gets a sessionAuth
// security requirement, an injected 401 response when none was declared,
// and the document gains the apiKey security scheme under
// components.securitySchemes.
//
// # Schema Usage
//
// Only schemas referenced by some operation appear in components.schemas,
// including schemas reached transitively through $ref links in registered
// schema text. UnusedSchemas reports the complement:
//
//	for _, name := range asm.UnusedSchemas() {
//	    // registered but unreferenced
//	}
package openapi
