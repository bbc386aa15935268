package recordstore

import (
	"fmt"
	"strings"
)

// Record is one row returned by the store, field name to raw value.
type Record map[string]interface{}

// String returns the field value rendered as a string, "" when the field is
// absent or null.
func (r Record) String(field string) string {
	v, ok := r[field]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		// JSON numbers decode as float64; keep integral values clean.
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%v", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// Has reports whether the field is present and non-null.
func (r Record) Has(field string) bool {
	v, ok := r[field]
	return ok && v != nil
}
