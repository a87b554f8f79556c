package openapi

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// RawJSON assembles the document and serializes it by direct string
// construction, without the reflection-based encoder. Map keys are emitted
// in sorted order, so the output is deterministic and carries the same
// field set as JSON.
func (a *Assembler) RawJSON() string {
	doc := a.Document()

	var b strings.Builder
	w := startObject(&b)
	w.field("openapi")
	writeQuoted(&b, doc.OpenAPI)
	w.field("info")
	writeInfo(&b, doc.Info)
	w.field("paths")
	writePaths(&b, doc.Paths)
	if doc.Components != nil {
		w.field("components")
		writeComponents(&b, doc.Components)
	}
	if len(doc.Tags) > 0 {
		w.field("tags")
		writeArray(&b, len(doc.Tags), func(i int) {
			writeTag(&b, doc.Tags[i])
		})
	}
	w.end()
	return b.String()
}

// objectWriter tracks comma placement inside one JSON object.
type objectWriter struct {
	b     *strings.Builder
	first bool
}

func startObject(b *strings.Builder) objectWriter {
	b.WriteByte('{')
	return objectWriter{b: b, first: true}
}

func (w *objectWriter) field(name string) {
	if !w.first {
		w.b.WriteByte(',')
	}
	w.first = false
	writeQuoted(w.b, name)
	w.b.WriteByte(':')
}

func (w *objectWriter) end() {
	w.b.WriteByte('}')
}

func writeQuoted(b *strings.Builder, s string) {
	b.WriteString(strconv.Quote(s))
}

// writeValue serializes an any-typed leaf (schema examples, defaults, enum
// members) with the standard encoder.
func writeValue(b *strings.Builder, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		b.WriteString("null")
		return
	}
	b.Write(data)
}

func writeArray(b *strings.Builder, n int, item func(i int)) {
	b.WriteByte('[')
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		item(i)
	}
	b.WriteByte(']')
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func writeInfo(b *strings.Builder, info Info) {
	w := startObject(b)
	w.field("title")
	writeQuoted(b, info.Title)
	w.field("version")
	writeQuoted(b, info.Version)
	if info.Description != "" {
		w.field("description")
		writeQuoted(b, info.Description)
	}
	if info.TermsOfService != "" {
		w.field("termsOfService")
		writeQuoted(b, info.TermsOfService)
	}
	if info.Contact != nil {
		w.field("contact")
		writeContact(b, info.Contact)
	}
	if info.License != nil {
		w.field("license")
		writeLicense(b, info.License)
	}
	w.end()
}

func writeContact(b *strings.Builder, c *Contact) {
	w := startObject(b)
	if c.Name != "" {
		w.field("name")
		writeQuoted(b, c.Name)
	}
	if c.URL != "" {
		w.field("url")
		writeQuoted(b, c.URL)
	}
	if c.Email != "" {
		w.field("email")
		writeQuoted(b, c.Email)
	}
	w.end()
}

func writeLicense(b *strings.Builder, l *License) {
	w := startObject(b)
	w.field("name")
	writeQuoted(b, l.Name)
	if l.URL != "" {
		w.field("url")
		writeQuoted(b, l.URL)
	}
	w.end()
}

func writeTag(b *strings.Builder, t Tag) {
	w := startObject(b)
	w.field("name")
	writeQuoted(b, t.Name)
	if t.Description != "" {
		w.field("description")
		writeQuoted(b, t.Description)
	}
	if t.ExternalDocs != nil {
		w.field("externalDocs")
		ew := startObject(b)
		ew.field("url")
		writeQuoted(b, t.ExternalDocs.URL)
		if t.ExternalDocs.Description != "" {
			ew.field("description")
			writeQuoted(b, t.ExternalDocs.Description)
		}
		ew.end()
	}
	w.end()
}

func writePaths(b *strings.Builder, paths map[string]*PathItem) {
	w := startObject(b)
	for _, path := range sortedKeys(paths) {
		w.field(path)
		writePathItem(b, paths[path])
	}
	w.end()
}

func writePathItem(b *strings.Builder, item *PathItem) {
	methods := []struct {
		name string
		op   *Operation
	}{
		{"get", item.Get},
		{"post", item.Post},
		{"put", item.Put},
		{"delete", item.Delete},
		{"patch", item.Patch},
		{"head", item.Head},
		{"options", item.Options},
	}

	w := startObject(b)
	for _, m := range methods {
		if m.op == nil {
			continue
		}
		w.field(m.name)
		writeOperation(b, m.op)
	}
	w.end()
}

func writeOperation(b *strings.Builder, op *Operation) {
	w := startObject(b)
	if op.Summary != "" {
		w.field("summary")
		writeQuoted(b, op.Summary)
	}
	if op.Description != "" {
		w.field("description")
		writeQuoted(b, op.Description)
	}
	if op.HandlerFunction != "" {
		w.field("x-handler-function")
		writeQuoted(b, op.HandlerFunction)
	}
	if len(op.Tags) > 0 {
		w.field("tags")
		writeArray(b, len(op.Tags), func(i int) {
			writeQuoted(b, op.Tags[i])
		})
	}
	if len(op.Parameters) > 0 {
		w.field("parameters")
		writeArray(b, len(op.Parameters), func(i int) {
			writeParameter(b, op.Parameters[i])
		})
	}
	if op.RequestBody != nil {
		w.field("requestBody")
		writeRequestBody(b, op.RequestBody)
	}
	w.field("responses")
	rw := startObject(b)
	for _, code := range sortedKeys(op.Responses) {
		rw.field(code)
		writeResponse(b, op.Responses[code])
	}
	rw.end()
	if len(op.Security) > 0 {
		w.field("security")
		writeArray(b, len(op.Security), func(i int) {
			writeSecurityRequirement(b, op.Security[i])
		})
	}
	w.end()
}

func writeParameter(b *strings.Builder, p *Parameter) {
	w := startObject(b)
	w.field("name")
	writeQuoted(b, p.Name)
	w.field("in")
	writeQuoted(b, p.In)
	if p.Description != "" {
		w.field("description")
		writeQuoted(b, p.Description)
	}
	w.field("required")
	b.WriteString(strconv.FormatBool(p.Required))
	if p.Schema != nil {
		w.field("schema")
		writeSchema(b, p.Schema)
	}
	w.end()
}

func writeRequestBody(b *strings.Builder, rb *RequestBody) {
	w := startObject(b)
	if rb.Description != "" {
		w.field("description")
		writeQuoted(b, rb.Description)
	}
	w.field("content")
	writeContent(b, rb.Content)
	w.field("required")
	b.WriteString(strconv.FormatBool(rb.Required))
	w.end()
}

func writeResponse(b *strings.Builder, r *Response) {
	w := startObject(b)
	w.field("description")
	writeQuoted(b, r.Description)
	if len(r.Content) > 0 {
		w.field("content")
		writeContent(b, r.Content)
	}
	w.end()
}

func writeContent(b *strings.Builder, content map[string]*MediaType) {
	w := startObject(b)
	for _, mime := range sortedKeys(content) {
		w.field(mime)
		mw := startObject(b)
		if s := content[mime].Schema; s != nil {
			mw.field("schema")
			writeSchema(b, s)
		}
		mw.end()
	}
	w.end()
}

func writeSchema(b *strings.Builder, s *Schema) {
	w := startObject(b)
	if s.Ref != "" {
		w.field("$ref")
		writeQuoted(b, s.Ref)
	}
	if s.Type != "" {
		w.field("type")
		writeQuoted(b, s.Type)
	}
	if s.Format != "" {
		w.field("format")
		writeQuoted(b, s.Format)
	}
	if s.Title != "" {
		w.field("title")
		writeQuoted(b, s.Title)
	}
	if s.Description != "" {
		w.field("description")
		writeQuoted(b, s.Description)
	}
	if len(s.Properties) > 0 {
		w.field("properties")
		pw := startObject(b)
		for _, name := range sortedKeys(s.Properties) {
			pw.field(name)
			writeSchema(b, s.Properties[name])
		}
		pw.end()
	}
	if len(s.Required) > 0 {
		w.field("required")
		writeArray(b, len(s.Required), func(i int) {
			writeQuoted(b, s.Required[i])
		})
	}
	if s.Items != nil {
		w.field("items")
		writeSchema(b, s.Items)
	}
	if s.AdditionalProperties != nil {
		w.field("additionalProperties")
		writeSchema(b, s.AdditionalProperties)
	}
	if len(s.Enum) > 0 {
		w.field("enum")
		writeArray(b, len(s.Enum), func(i int) {
			writeValue(b, s.Enum[i])
		})
	}
	if s.Example != nil {
		w.field("example")
		writeValue(b, s.Example)
	}
	if s.Default != nil {
		w.field("default")
		writeValue(b, s.Default)
	}
	w.end()
}

func writeComponents(b *strings.Builder, c *Components) {
	w := startObject(b)
	if len(c.Schemas) > 0 {
		w.field("schemas")
		sw := startObject(b)
		for _, name := range sortedKeys(c.Schemas) {
			sw.field(name)
			writeSchema(b, c.Schemas[name])
		}
		sw.end()
	}
	if len(c.SecuritySchemes) > 0 {
		w.field("securitySchemes")
		sw := startObject(b)
		for _, name := range sortedKeys(c.SecuritySchemes) {
			sw.field(name)
			writeSecurityScheme(b, c.SecuritySchemes[name])
		}
		sw.end()
	}
	w.end()
}

func writeSecurityScheme(b *strings.Builder, s *SecurityScheme) {
	w := startObject(b)
	w.field("type")
	writeQuoted(b, s.Type)
	if s.Description != "" {
		w.field("description")
		writeQuoted(b, s.Description)
	}
	if s.Name != "" {
		w.field("name")
		writeQuoted(b, s.Name)
	}
	if s.In != "" {
		w.field("in")
		writeQuoted(b, s.In)
	}
	if s.Scheme != "" {
		w.field("scheme")
		writeQuoted(b, s.Scheme)
	}
	if s.BearerFormat != "" {
		w.field("bearerFormat")
		writeQuoted(b, s.BearerFormat)
	}
	w.end()
}

func writeSecurityRequirement(b *strings.Builder, req SecurityRequirement) {
	w := startObject(b)
	for _, name := range sortedKeys(req) {
		w.field(name)
		scopes := req[name]
		writeArray(b, len(scopes), func(i int) {
			writeQuoted(b, scopes[i])
		})
	}
	w.end()
}
