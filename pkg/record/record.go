// Package record defines the uniform record shape produced by every
// decoder. Records own their bytes: nothing in a Record aliases the
// decode window, so records stay valid after the reader moves on.
package record

// Record is one decoded row. Fields returns the values in the same
// order as the decoder's Headers.
type Record interface {
	Fields() []any
}

// AsMap pairs headers with a record's fields. Useful for callers that
// want named access instead of positional.
func AsMap(headers []string, rec Record) map[string]any {
	fields := rec.Fields()
	out := make(map[string]any, len(headers))
	for i, h := range headers {
		if i < len(fields) {
			out[h] = fields[i]
		}
	}
	return out
}
