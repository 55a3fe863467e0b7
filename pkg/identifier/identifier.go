// Package identifier canonicalizes raw identifier strings (TAIS codes) into
// the key used by every other component.
//
// Normalization trims surrounding whitespace and maps the full-width hyphen
// to an ASCII hyphen. Nothing else is folded: a code that is wrong in any
// other way is passed through and left for the reference table to reject.
package identifier

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Identifier is a normalized reconciliation key.
type Identifier string

// String returns the string representation of an identifier.
func (id Identifier) String() string {
	return string(id)
}

// fullWidthHyphen is U+FF0D FULLWIDTH HYPHEN-MINUS.
const fullWidthHyphen = "－"

var hyphens = strings.NewReplacer(fullWidthHyphen, "-")

// Normalize canonicalizes raw. The boolean is false when raw is empty or
// whitespace only; callers must branch on it before using the result as a key.
func Normalize(raw string) (Identifier, bool) {
	s := strings.TrimSpace(hyphens.Replace(raw))
	if s == "" {
		return "", false
	}
	return Identifier(s), true
}

// FromValue normalizes a decoded JSON value. Null, false, zero and empty
// values are absent; numbers use their shortest decimal form.
func FromValue(v any) (Identifier, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return Normalize(x)
	case json.Number:
		if f, err := x.Float64(); err == nil && f == 0 {
			return "", false
		}
		return Normalize(x.String())
	case float64:
		if x == 0 {
			return "", false
		}
		return Normalize(strconv.FormatFloat(x, 'f', -1, 64))
	case int:
		if x == 0 {
			return "", false
		}
		return Normalize(strconv.Itoa(x))
	case int64:
		if x == 0 {
			return "", false
		}
		return Normalize(strconv.FormatInt(x, 10))
	case bool:
		if !x {
			return "", false
		}
		return Normalize(strconv.FormatBool(x))
	case Identifier:
		return Normalize(string(x))
	default:
		// Objects and arrays never carry an identifier.
		return "", false
	}
}

// Strings converts identifiers to plain strings, preserving order.
func Strings(ids []Identifier) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}
