package ontology

import "strings"

// FallbackLabel replaces labels that would collide with generated or
// runtime-injected identifiers.
const FallbackLabel = "label_blacklisted"

var labelBlacklist = map[string]bool{
	// Fields the downstream runtime injects into every instance.
	"id":               true,
	"type":             true,
	"metadata":         true,
	"header":           true,
	"references":       true,
	"semantic_manager": true,
	"delete":           true,
	"old_state":        true,
	"device_settings":  true,
	"classiri":         true,
	"parentclasses":    true,

	// Go keywords.
	"break": true, "case": true, "chan": true, "const": true, "continue": true,
	"default": true, "defer": true, "else": true, "fallthrough": true, "for": true,
	"func": true, "go": true, "goto": true, "if": true, "import": true,
	"interface": true, "map": true, "package": true, "range": true, "return": true,
	"select": true, "struct": true, "switch": true, "var": true,

	// Names the generated file declares itself.
	"class":                true,
	"individual":           true,
	"datafield":            true,
	"commandfield":         true,
	"deviceattributefield": true,
	"relationfield":        true,
	"deviceclass":          true,
	"classcatalog":         true,
	"individualcatalog":    true,
	"datatypecatalog":      true,
}

var forbiddenSuffixes = []string{"_info", "_status"}

// SanitizeLabel restricts a label to letters, digits, dash and underscore.
// Spaces become underscores and other characters are dropped. A result that
// is empty, blacklisted or ends in a forbidden suffix is replaced by
// FallbackLabel.
func SanitizeLabel(label string) string {
	var b strings.Builder
	for _, r := range label {
		switch {
		case r == ' ':
			b.WriteByte('_')
		case r == '-' || r == '_',
			r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9':
			b.WriteRune(r)
		}
	}
	out := b.String()
	if out == "" || IsBlacklisted(out) {
		return FallbackLabel
	}
	return out
}

// IsBlacklisted reports whether a label is reserved or ends in a forbidden
// suffix. The check ignores case.
func IsBlacklisted(label string) bool {
	lower := strings.ToLower(label)
	if labelBlacklist[lower] {
		return true
	}
	for _, suffix := range forbiddenSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}
