package utils

import (
	"bytes"
	"encoding/json"
	"strings"
)

// StructuredReply is the result of reading a model reply as a JSON object.
// Either Parsed is true and Fields holds the top-level members, or Parsed is
// false and Raw holds the reply text for callers that fall back to it.
type StructuredReply struct {
	Parsed bool
	Fields map[string]json.RawMessage
	Raw    string
}

// ParseStructuredReply strips markdown fences from text and decodes the remainder
// as a JSON object. It never fails; an unreadable reply comes back unparsed.
func ParseStructuredReply(text string) StructuredReply {
	cleaned := strings.ReplaceAll(text, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &fields); err != nil || fields == nil {
		return StructuredReply{Raw: text}
	}
	return StructuredReply{Parsed: true, Fields: fields, Raw: text}
}

// Has reports whether key is a top-level member of a parsed reply
func (r StructuredReply) Has(key string) bool {
	_, ok := r.Fields[key]
	return ok
}

// Text returns the member as text. String values are unquoted; other scalars
// come back as their JSON literal. null and missing members report false.
func (r StructuredReply) Text(key string) (string, bool) {
	raw, ok := r.Fields[key]
	if !ok {
		return "", false
	}
	return rawText(raw)
}

// TextOr is Text with a default for missing members
func (r StructuredReply) TextOr(key, def string) string {
	if s, ok := r.Text(key); ok {
		return s
	}
	return def
}

// Object returns a nested object member as its own StructuredReply
func (r StructuredReply) Object(key string) (StructuredReply, bool) {
	raw, ok := r.Fields[key]
	if !ok {
		return StructuredReply{}, false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return StructuredReply{}, false
	}
	return StructuredReply{Parsed: true, Fields: fields, Raw: string(raw)}, true
}

// Array returns the elements of an array member
func (r StructuredReply) Array(key string) ([]StructuredReply, bool) {
	raw, ok := r.Fields[key]
	if !ok {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	out := make([]StructuredReply, 0, len(items))
	for _, item := range items {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(item, &fields); err != nil || fields == nil {
			out = append(out, StructuredReply{Raw: string(item)})
			continue
		}
		out = append(out, StructuredReply{Parsed: true, Fields: fields, Raw: string(item)})
	}
	return out, true
}

func rawText(raw json.RawMessage) (string, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return s, true
	}
	return string(trimmed), true
}
