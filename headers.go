package websockets

import "strings"

// HeaderField is a single HTTP header line.
type HeaderField struct {
	Name  string
	Value string
}

// Headers is an ordered collection of HTTP header fields with
// case-insensitive name lookup. Set replaces the single value associated
// with a name, the way a header is assigned when building a request
// programmatically. Add appends another line for the name, the way a wire
// parser accumulates repeated header lines. Serialization preserves
// insertion order.
type Headers struct {
	fields []HeaderField
}

// NewHeaders returns Headers populated with the given fields in order.
func NewHeaders(fields ...HeaderField) *Headers {
	h := &Headers{}
	h.fields = append(h.fields, fields...)
	return h
}

// Get returns the value of the first field with the given name, or "".
func (h *Headers) Get(name string) string {
	for i := range h.fields {
		if strings.EqualFold(h.fields[i].Name, name) {
			return h.fields[i].Value
		}
	}
	return ""
}

// GetAll returns the values of all fields with the given name, in order.
func (h *Headers) GetAll(name string) []string {
	var values []string
	for i := range h.fields {
		if strings.EqualFold(h.fields[i].Name, name) {
			values = append(values, h.fields[i].Value)
		}
	}
	return values
}

// Has reports whether at least one field with the given name is present.
func (h *Headers) Has(name string) bool {
	for i := range h.fields {
		if strings.EqualFold(h.fields[i].Name, name) {
			return true
		}
	}
	return false
}

// Set replaces all fields with the given name by a single field. The field
// keeps the position of the first occurrence, or is appended if the name was
// not present.
func (h *Headers) Set(name, value string) {
	first := -1
	fields := h.fields[:0]
	for _, f := range h.fields {
		if !strings.EqualFold(f.Name, name) {
			fields = append(fields, f)
		} else if first < 0 {
			first = len(fields)
			fields = append(fields, HeaderField{name, value})
		}
	}
	if first < 0 {
		fields = append(fields, HeaderField{name, value})
	}
	h.fields = fields
}

// Add appends a field, keeping any existing fields with the same name.
func (h *Headers) Add(name, value string) {
	h.fields = append(h.fields, HeaderField{name, value})
}

// Del removes all fields with the given name.
func (h *Headers) Del(name string) {
	fields := h.fields[:0]
	for _, f := range h.fields {
		if !strings.EqualFold(f.Name, name) {
			fields = append(fields, f)
		}
	}
	h.fields = fields
}

// Len returns the number of header lines.
func (h *Headers) Len() int { return len(h.fields) }

// Fields returns a copy of the header lines in order.
func (h *Headers) Fields() []HeaderField {
	fields := make([]HeaderField, len(h.fields))
	copy(fields, h.fields)
	return fields
}

// Clone returns a deep copy.
func (h *Headers) Clone() *Headers {
	return &Headers{fields: h.Fields()}
}
