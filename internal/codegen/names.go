package codegen

import (
	"strings"
	"unicode"
)

// exportName converts a schema field name to an exported Go identifier,
// normalizing a trailing "Id" to the "ID" initialism.
func exportName(name string) string {
	if name == "" {
		return ""
	}
	runes := []rune(name)
	runes[0] = unicode.ToUpper(runes[0])
	out := string(runes)
	if strings.HasSuffix(out, "Id") {
		out = out[:len(out)-2] + "ID"
	}
	return out
}

// receiverName returns the one-letter receiver for an entity type.
func receiverName(entityName string) string {
	for _, r := range entityName {
		return string(unicode.ToLower(r))
	}
	return "e"
}

// toSnakeCase converts an entity name to the snake_case file stem.
func toSnakeCase(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
