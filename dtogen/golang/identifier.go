package golang

import (
	"strings"
	"unicode"
)

// reservedWords are Go keywords that cannot be used as identifiers.
var reservedWords = map[string]bool{
	"break": true, "case": true, "chan": true, "const": true,
	"continue": true, "default": true, "defer": true, "else": true,
	"fallthrough": true, "for": true, "func": true, "go": true,
	"goto": true, "if": true, "import": true, "interface": true,
	"map": true, "package": true, "range": true, "return": true,
	"select": true, "struct": true, "switch": true, "type": true,
	"var": true,
}

// sanitizeIdentifier replaces characters that are invalid in a Go
// identifier and guards against a leading digit.
func sanitizeIdentifier(name string) string {
	var b strings.Builder
	for i, r := range name {
		valid := unicode.IsLetter(r) || r == '_' || (i > 0 && unicode.IsDigit(r))
		if valid {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	out := b.String()
	if out == "" {
		return "_"
	}
	return out
}

// exportedName converts name into an exported Go identifier.
func exportedName(name string) string {
	name = sanitizeIdentifier(name)
	r := []rune(name)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// unexportedName converts name into an unexported Go identifier,
// escaping reserved words with a trailing underscore.
func unexportedName(name string) string {
	name = sanitizeIdentifier(name)
	r := []rune(name)
	r[0] = unicode.ToLower(r[0])
	out := string(r)
	if reservedWords[out] {
		out += "_"
	}
	return out
}
