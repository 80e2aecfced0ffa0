package style

import (
	"sort"
	"strings"
)

// Declaration is a single CSS property/value pair.
type Declaration struct {
	Property string
	Value    string
}

// Declarations is an ordered list of CSS declarations.
type Declarations []Declaration

// String renders the declarations as an inline style, skipping empty values.
func (d Declarations) String() string {
	var sb strings.Builder
	for _, decl := range d {
		if decl.Property == "" || decl.Value == "" {
			continue
		}
		sb.WriteString(decl.Property)
		sb.WriteByte(':')
		sb.WriteString(decl.Value)
		sb.WriteByte(';')
	}
	return sb.String()
}

// Get returns the value of a property and whether it is present.
func (d Declarations) Get(property string) (string, bool) {
	for _, decl := range d {
		if decl.Property == property {
			return decl.Value, true
		}
	}
	return "", false
}

// Set replaces the value of an existing property in place or appends it.
func (d Declarations) Set(property, value string) Declarations {
	for i := range d {
		if d[i].Property == property {
			d[i].Value = value
			return d
		}
	}
	return append(d, Declaration{Property: property, Value: value})
}

// Merge layers attrs over defaults. Defaults keep their order; attributes
// overriding a default replace it in place, the rest are appended in sorted
// key order. Neither input is modified.
func Merge(defaults Declarations, attrs map[string]string) Declarations {
	merged := make(Declarations, len(defaults), len(defaults)+len(attrs))
	copy(merged, defaults)

	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		merged = merged.Set(k, attrs[k])
	}
	return merged
}

// Split partitions attrs into those named in keys and the rest.
func Split(attrs map[string]string, keys ...string) (picked, rest map[string]string) {
	picked = make(map[string]string)
	rest = make(map[string]string)
	for k, v := range attrs {
		if contains(keys, k) {
			picked[k] = v
		} else {
			rest[k] = v
		}
	}
	return picked, rest
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
