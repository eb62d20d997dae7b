package feishu

import (
	"bytes"
	"encoding/json"
	"strings"
)

// AddressKind tells how an address cell was encoded upstream.
type AddressKind int

// Address encodings.
const (
	AddressText AddressKind = iota
	AddressLink
)

// AddressValue is an address cell decoded at the fetch boundary: either plain text or a
// link-typed cell whose URL has been extracted.
type AddressValue struct {
	Value string
	Kind  AddressKind
}

// String collapses the variant to the address string.
func (a AddressValue) String() string {
	return a.Value
}

// Text returns the named field as a string. Missing fields and shapes that carry no text
// yield "".
func (r RawRecord) Text(name string) string {
	raw, ok := r.Fields[name]
	if !ok {
		return ""
	}

	return decodeText(raw)
}

// Address returns the named field as an AddressValue. A cell shaped {"link": "..."} is a
// link; anything else is treated as text.
func (r RawRecord) Address(name string) AddressValue {
	raw, ok := r.Fields[name]
	if !ok {
		return AddressValue{Kind: AddressText}
	}

	var link struct {
		Link *string `json:"link"`
	}

	if isObject(raw) && json.Unmarshal(raw, &link) == nil && link.Link != nil {
		return AddressValue{Kind: AddressLink, Value: *link.Link}
	}

	return AddressValue{Kind: AddressText, Value: decodeText(raw)}
}

// decodeText accepts a JSON string, a number, a rich-text segment list or an object with
// a "text" member. Everything else yields "".
func decodeText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}

	switch raw[0] {
	case '"':
		var s string
		if json.Unmarshal(raw, &s) == nil {
			return s
		}
	case '[':
		var segments []json.RawMessage
		if json.Unmarshal(raw, &segments) != nil {
			return ""
		}

		var sb strings.Builder
		for _, seg := range segments {
			sb.WriteString(decodeText(seg))
		}

		return sb.String()
	case '{':
		var obj struct {
			Text *string `json:"text"`
		}
		if json.Unmarshal(raw, &obj) == nil && obj.Text != nil {
			return *obj.Text
		}
	case 'n', 't', 'f':
		// null and booleans carry no text.
	default:
		var n json.Number
		if json.Unmarshal(raw, &n) == nil {
			return n.String()
		}
	}

	return ""
}

func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)

	return len(raw) > 0 && raw[0] == '{'
}
