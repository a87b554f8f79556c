package openapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchemas(records ...SchemaRecord) *Registry[SchemaRecord] {
	return NewRegistry[SchemaRecord]().Add(records...)
}

func TestResolveBody(t *testing.T) {
	schemas := testSchemas(
		SchemaRecord{TypeName: "CreateUserRequest", SchemaJSON: `{"type":"object"}`},
		SchemaRecord{TypeName: "GreetRequest", SchemaJSON: `{"type":"object"}`},
	)

	t.Run("explicit registered type wins", func(t *testing.T) {
		res := newResolver(schemas, defaultErrorAliases)
		body := parseRequestBody(`["Type: GreetRequest", "mentions CreateUserRequest too"]`)

		name, ok := res.resolveBody(body)
		require.True(t, ok)
		assert.Equal(t, "GreetRequest", name)
		assert.True(t, res.used["GreetRequest"])
	})

	t.Run("unregistered explicit type falls to containment", func(t *testing.T) {
		res := newResolver(schemas, defaultErrorAliases)
		body := parseRequestBody(`["Type: Unknown", "expects a CreateUserRequest payload"]`)

		name, ok := res.resolveBody(body)
		require.True(t, ok)
		assert.Equal(t, "CreateUserRequest", name)
	})

	t.Run("containment scans registration order", func(t *testing.T) {
		res := newResolver(schemas, defaultErrorAliases)
		body := parseRequestBody(`["CreateUserRequest or GreetRequest"]`)

		name, ok := res.resolveBody(body)
		require.True(t, ok)
		assert.Equal(t, "CreateUserRequest", name)
	})

	t.Run("no match", func(t *testing.T) {
		res := newResolver(schemas, defaultErrorAliases)
		_, ok := res.resolveBody(parseRequestBody(`["free-form text"]`))
		assert.False(t, ok)
	})
}

func TestResolveSuccess(t *testing.T) {
	schemas := testSchemas(
		SchemaRecord{TypeName: "UserResponse", SchemaJSON: `{"type":"object"}`},
		SchemaRecord{TypeName: "HelloResponse", SchemaJSON: `{"type":"object"}`},
	)

	t.Run("case-insensitive name containment", func(t *testing.T) {
		res := newResolver(schemas, defaultErrorAliases)
		name, ok := res.resolveSuccess("Successfully retrieved userresponse information")
		require.True(t, ok)
		assert.Equal(t, "UserResponse", name)
	})

	t.Run("keyword hint matches schema fragment", func(t *testing.T) {
		res := newResolver(schemas, defaultErrorAliases)
		name, ok := res.resolveSuccess("Returns a hello world message")
		require.True(t, ok)
		assert.Equal(t, "HelloResponse", name)
	})

	t.Run("first registration wins", func(t *testing.T) {
		res := newResolver(schemas, defaultErrorAliases)
		name, ok := res.resolveSuccess("user data in UserResponse and HelloResponse")
		require.True(t, ok)
		assert.Equal(t, "UserResponse", name)
	})

	t.Run("no match", func(t *testing.T) {
		res := newResolver(schemas, defaultErrorAliases)
		_, ok := res.resolveSuccess("Resource created")
		assert.False(t, ok)
	})
}

func TestResolveError(t *testing.T) {
	schemas := testSchemas(
		SchemaRecord{TypeName: "GetUserError", SchemaJSON: `{"type":"object"}`},
		SchemaRecord{TypeName: "ErrorResponse", SchemaJSON: `{"type":"object"}`},
	)

	t.Run("literal error name in description", func(t *testing.T) {
		res := newResolver(schemas, defaultErrorAliases)
		name, ok := res.resolveError("User not found GetUserError", "")
		require.True(t, ok)
		assert.Equal(t, "GetUserError", name)
	})

	t.Run("default error type with module path stripped and alias applied", func(t *testing.T) {
		res := newResolver(schemas, defaultErrorAliases)
		name, ok := res.resolveError("Something failed badly", "crate::errors::AppError")
		require.True(t, ok)
		assert.Equal(t, "ErrorResponse", name)
	})

	t.Run("generic error fallback", func(t *testing.T) {
		res := newResolver(schemas, defaultErrorAliases)
		name, ok := res.resolveError("Internal server error occurred", "")
		require.True(t, ok)
		assert.Equal(t, "GetUserError", name)
	})

	t.Run("no match without error mention", func(t *testing.T) {
		res := newResolver(schemas, defaultErrorAliases)
		_, ok := res.resolveError("I'm a teapot", "")
		assert.False(t, ok)
	})

	t.Run("custom alias table", func(t *testing.T) {
		res := newResolver(schemas, map[string]string{"DomainFault": "ErrorResponse"})
		name, ok := res.resolveError("Something failed badly", "DomainFault")
		require.True(t, ok)
		assert.Equal(t, "ErrorResponse", name)
	})
}

func TestClosure(t *testing.T) {
	t.Run("transitive refs pulled in", func(t *testing.T) {
		schemas := testSchemas(
			SchemaRecord{TypeName: "A", SchemaJSON: `{"type":"object","properties":{"b":{"$ref":"#/components/schemas/B"}}}`},
			SchemaRecord{TypeName: "B", SchemaJSON: `{"type":"object","properties":{"c":{"$ref":"#/components/schemas/C"}}}`},
			SchemaRecord{TypeName: "C", SchemaJSON: `{"type":"object"}`},
			SchemaRecord{TypeName: "D", SchemaJSON: `{"type":"object"}`},
		)
		res := newResolver(schemas, defaultErrorAliases)
		res.markUsed("A")
		res.closure()

		assert.True(t, res.used["A"])
		assert.True(t, res.used["B"])
		assert.True(t, res.used["C"])
		assert.False(t, res.used["D"])
	})

	t.Run("dangling refs ignored", func(t *testing.T) {
		schemas := testSchemas(
			SchemaRecord{TypeName: "A", SchemaJSON: `{"$ref":"#/components/schemas/Ghost"}`},
		)
		res := newResolver(schemas, defaultErrorAliases)
		res.markUsed("A")
		res.closure()

		assert.Len(t, res.used, 1)
	})
}

func TestExtractRefs(t *testing.T) {
	t.Run("multiple refs", func(t *testing.T) {
		refs := extractRefs(`{"a":{"$ref":"#/components/schemas/One"},"b":{"$ref":"#/components/schemas/Two"}}`)
		assert.Equal(t, []string{"One", "Two"}, refs)
	})

	t.Run("spaced ref spelling not recognized", func(t *testing.T) {
		assert.Empty(t, extractRefs(`{"$ref": "#/components/schemas/One"}`))
	})

	t.Run("no refs", func(t *testing.T) {
		assert.Empty(t, extractRefs(`{"type":"object"}`))
	})
}
