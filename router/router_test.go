package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/routespec/routespec/openapi"
)

func pingHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("pong"))
}

func userHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(chi.URLParam(r, "id")))
}

func newTestAssembler() *openapi.Assembler {
	return openapi.NewAssembler("Test API", "1.0.0",
		openapi.NewRegistry[openapi.HandlerRecord](),
		openapi.NewRegistry[openapi.SchemaRecord]())
}

func TestHandlerFuncName(t *testing.T) {
	assert.Equal(t, "pingHandler", handlerFuncName(pingHandler))
	assert.Equal(t, "userHandler", handlerFuncName(userHandler))
}

func TestRouterRegistration(t *testing.T) {
	asm := newTestAssembler()
	r := New(asm)
	r.Get("/ping", pingHandler)
	r.Get("/users/:id", userHandler)

	t.Run("routes feed the assembler table", func(t *testing.T) {
		entries := asm.Routes().Entries()
		require.Len(t, entries, 2)
		assert.Equal(t, "pingHandler", entries[0].HandlerName)
		assert.Equal(t, "GET", entries[0].Method)
		assert.Equal(t, "/users/:id", entries[1].Path)
	})

	t.Run("routes are dispatched", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "pong", rec.Body.String())
	})

	t.Run("placeholder segments become chi params", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/42", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "42", rec.Body.String())
	})

	t.Run("document uses brace syntax", func(t *testing.T) {
		doc := asm.Document()
		assert.Contains(t, doc.Paths, "/users/{id}")
		assert.Contains(t, doc.Paths, "/ping")
	})
}

func TestHandleExplicitName(t *testing.T) {
	asm := newTestAssembler()
	r := New(asm)
	r.Handle(http.MethodPost, "/things", "create_thing", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	entries := asm.Routes().Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "create_thing", entries[0].HandlerName)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/things", nil))
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestServeOpenAPI(t *testing.T) {
	asm := newTestAssembler()
	r := New(asm)
	r.Get("/ping", pingHandler)
	r.ServeOpenAPI("/openapi")

	t.Run("json endpoint", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Body.String(), `"openapi":"3.0.0"`)
		assert.Contains(t, rec.Body.String(), `"/ping"`)
	})

	t.Run("yaml endpoint", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Body.String(), "openapi: 3.0.0")
	})
}

func TestNormalizePrefix(t *testing.T) {
	assert.Equal(t, "/openapi", normalizePrefix(""))
	assert.Equal(t, "/docs", normalizePrefix("docs"))
	assert.Equal(t, "/docs", normalizePrefix("/docs/"))
}

func TestRequestID(t *testing.T) {
	t.Run("generates an id", func(t *testing.T) {
		var seen string
		h := RequestID(RequestIDConfig{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = RequestIDFromContext(r.Context())
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))
	})

	t.Run("trusts incoming id when configured", func(t *testing.T) {
		h := RequestID(RequestIDConfig{TrustIncoming: true})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "fixed-id")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, "fixed-id", rec.Header().Get("X-Request-ID"))
	})

	t.Run("custom header and generator", func(t *testing.T) {
		h := RequestID(RequestIDConfig{
			HeaderName:   "X-Trace-ID",
			GenerateFunc: func(*http.Request) string { return "trace-1" },
		})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, "trace-1", rec.Header().Get("X-Trace-ID"))
	})
}

func TestRequestIDFromContextMissing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, RequestIDFromContext(req.Context()))
}
