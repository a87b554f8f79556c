package openapi

import (
	"encoding/json"
	"strings"
)

// Sentinel values carried inside raw encoded fields. decodeItems strips
// them into tagged items at the registry boundary.
const (
	authSentinel        = "__REQUIRES_AUTH__"
	explicitTypePrefix  = "Type: "
	defaultErrorPrefix  = "ErrorType: "
	contentTypePrefix   = "Content-Type:"
	bodyPropertyPrefix  = "- "
	defaultContentType  = "application/json"
	defaultBodySummary  = "Request body"
	fallbackParamName   = "unknown"
	fallbackParamIn     = "query"
)

type metaKind int

const (
	metaText metaKind = iota
	metaAuthRequired
	metaExplicitType
	metaDefaultErrorType
)

// metaItem is one decoded entry of a raw encoded field: either plain text
// or one of the tagged sentinel variants.
type metaItem struct {
	kind  metaKind
	value string
}

// decodeStrings decodes a raw encoded field into its ordered string items.
// Strict JSON decoding is attempted first; on failure the same raw string
// is split with the legacy bracket/quote delimiters. Decoding never fails:
// malformed registry data degrades, it does not abort assembly.
func decodeStrings(raw string) []string {
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err == nil {
		return items
	}
	return legacySplit(raw)
}

// legacySplit is the pre-JSON decoding of a raw encoded field: trim the
// surrounding brackets and split on quoted-comma boundaries.
func legacySplit(raw string) []string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "[")
	raw = strings.TrimSuffix(raw, "]")
	raw = strings.ReplaceAll(raw, `", "`, `","`)

	var items []string
	for _, part := range strings.Split(raw, `","`) {
		part = strings.Trim(strings.TrimSpace(part), `"`)
		if part != "" {
			items = append(items, part)
		}
	}
	return items
}

// decodeItems decodes a raw encoded field and tags sentinel entries.
func decodeItems(raw string) []metaItem {
	strs := decodeStrings(raw)
	items := make([]metaItem, 0, len(strs))
	for _, s := range strs {
		switch {
		case s == authSentinel:
			items = append(items, metaItem{kind: metaAuthRequired})
		case strings.HasPrefix(s, explicitTypePrefix):
			items = append(items, metaItem{kind: metaExplicitType, value: strings.TrimPrefix(s, explicitTypePrefix)})
		case strings.HasPrefix(s, defaultErrorPrefix):
			items = append(items, metaItem{kind: metaDefaultErrorType, value: strings.TrimPrefix(s, defaultErrorPrefix)})
		default:
			items = append(items, metaItem{kind: metaText, value: s})
		}
	}
	return items
}

// emptyField reports whether a raw encoded field carries no items.
func emptyField(raw string) bool {
	return raw == "" || raw == "[]"
}

// parsedParameters is the result of decoding one Parameters field: the
// structured parameter list plus the endpoint auth flag latched by the
// auth sentinel.
type parsedParameters struct {
	params       []*Parameter
	requiresAuth bool
}

// parseParameters decodes a Parameters field. Each item follows the
// grammar "<name> (<in>): <description>[ [example: v, default: v]]".
// Items that do not match degrade to a generic query parameter named
// "unknown" whose description is the raw item text; parsing never drops
// the field or errors.
func parseParameters(raw string) parsedParameters {
	var out parsedParameters
	if emptyField(raw) {
		return out
	}

	for _, item := range decodeItems(raw) {
		if item.kind == metaAuthRequired {
			out.requiresAuth = true
			continue
		}
		out.params = append(out.params, parseParameterItem(item.value))
	}
	return out
}

func parseParameterItem(item string) *Parameter {
	left, rest, found := strings.Cut(item, ":")
	if found {
		left = strings.TrimSpace(left)
		description := strings.TrimSpace(rest)

		if open := strings.IndexByte(left, '('); open >= 0 {
			if close := strings.IndexByte(left, ')'); close > open {
				name := strings.TrimSpace(left[:open])
				in := strings.TrimSpace(left[open+1 : close])
				description, example, def := cutBracketMetadata(description)

				schema := &Schema{Type: "string"}
				if example != "" {
					schema.Example = example
				}
				if def != "" && in != "path" {
					schema.Default = def
				}

				return &Parameter{
					Name:        name,
					In:          in,
					Description: description,
					Required:    in == "path",
					Schema:      schema,
				}
			}
		}
	}

	// Fallback for items outside the grammar.
	return &Parameter{
		Name:        fallbackParamName,
		In:          fallbackParamIn,
		Description: item,
		Schema:      &Schema{Type: "string"},
	}
}

// cutBracketMetadata extracts a trailing "[key: value, ...]" block from a
// parameter description. Only the "example" and "default" keys are
// recognized; anything else in the block is ignored.
func cutBracketMetadata(description string) (clean, example, def string) {
	open := strings.LastIndexByte(description, '[')
	if open < 0 {
		return description, "", ""
	}
	close := strings.IndexByte(description[open:], ']')
	if close < 0 {
		return description, "", ""
	}

	for _, part := range strings.Split(description[open+1:open+close], ",") {
		key, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		switch strings.TrimSpace(key) {
		case "example":
			example = strings.TrimSpace(value)
		case "default":
			def = strings.TrimSpace(value)
		}
	}

	return strings.TrimSpace(description[:open]), example, def
}

// parsedResponse is one decoded response line.
type parsedResponse struct {
	code        string
	description string
}

// parsedResponses is the result of decoding one Responses field: the
// response lines plus the default error type recorded by the ErrorType
// sentinel (last occurrence wins).
type parsedResponses struct {
	responses        []parsedResponse
	defaultErrorType string
}

// parseResponses decodes a Responses field. Each item follows the grammar
// "<3-digit code>: <description>"; items whose leading token is not
// exactly three ASCII digits are dropped silently.
func parseResponses(raw string) parsedResponses {
	var out parsedResponses
	if emptyField(raw) {
		return out
	}

	for _, item := range decodeItems(raw) {
		if item.kind == metaDefaultErrorType {
			out.defaultErrorType = item.value
			continue
		}
		if item.kind != metaText {
			continue
		}

		code, description, found := strings.Cut(item.value, ":")
		if !found {
			continue
		}
		code = strings.TrimSpace(code)
		if !isStatusCode(code) {
			continue
		}
		out.responses = append(out.responses, parsedResponse{
			code:        code,
			description: strings.TrimSpace(description),
		})
	}
	return out
}

func isStatusCode(s string) bool {
	if len(s) != 3 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// bodyProperty is one inline object property contributed by a
// "- <field> (<type>): <description>" line.
type bodyProperty struct {
	name        string
	fieldType   string
	description string
}

// parsedBody is the result of decoding one RequestBody field.
type parsedBody struct {
	explicitType string
	description  string
	contentType  string
	properties   []bodyProperty
	raw          string
	empty        bool
}

// parseRequestBody decodes a RequestBody field. A "Type: <Name>" item
// records an explicit schema override; "Content-Type: <mime>" sets the
// content type; "- field (type): description" lines contribute inline
// object properties; any other non-empty line becomes the body description
// (last one wins). An empty field yields the generic required object body.
func parseRequestBody(raw string) parsedBody {
	out := parsedBody{
		description: defaultBodySummary,
		contentType: defaultContentType,
		raw:         raw,
	}
	if emptyField(raw) {
		out.empty = true
		return out
	}

	for _, item := range decodeItems(raw) {
		switch item.kind {
		case metaExplicitType:
			if out.explicitType == "" {
				out.explicitType = item.value
			}
		case metaText:
			parseBodyLine(&out, item.value)
		}
	}
	return out
}

func parseBodyLine(out *parsedBody, line string) {
	switch {
	case strings.HasPrefix(line, contentTypePrefix):
		if mime := strings.TrimSpace(strings.TrimPrefix(line, contentTypePrefix)); mime != "" {
			out.contentType = mime
		}

	case strings.HasPrefix(line, bodyPropertyPrefix):
		field := strings.TrimPrefix(line, bodyPropertyPrefix)
		left, description, found := strings.Cut(field, ":")
		if !found {
			return
		}
		left = strings.TrimSpace(left)
		open := strings.IndexByte(left, '(')
		if open < 0 {
			return
		}
		close := strings.IndexByte(left, ')')
		if close <= open {
			return
		}
		out.properties = append(out.properties, bodyProperty{
			name:        strings.TrimSpace(left[:open]),
			fieldType:   strings.TrimSpace(left[open+1 : close]),
			description: strings.TrimSpace(description),
		})

	case strings.TrimSpace(line) != "":
		out.description = line
	}
}

// parseTags decodes a Tags field; each item is used verbatim.
func parseTags(raw string) []string {
	if emptyField(raw) {
		return nil
	}
	return decodeStrings(raw)
}
