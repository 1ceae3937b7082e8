package catalog

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FallbackCode is returned when no usable characters survive cleaning.
const FallbackCode = "CATEGORY"

var nonCodeRuns = regexp.MustCompile(`[^A-Z0-9]+`)

// stripMarks decomposes to NFD and drops combining marks, so "Décor" and
// "Decor" normalize to the same code.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeCode turns a free-text category identifier into its canonical
// uppercase code. The explicit code wins when non-blank; otherwise the
// candidate is built from name and sub-name. Total: never fails, never
// returns an empty string.
func NormalizeCode(code, name, subName string) string {
	candidate := strings.TrimSpace(code)
	if candidate == "" {
		candidate = joinNonBlank(name, subName, " ")
	}
	if candidate == "" {
		candidate = FallbackCode
	}

	if stripped, _, err := transform.String(stripMarks, candidate); err == nil {
		candidate = stripped
	}

	cleaned := nonCodeRuns.ReplaceAllString(strings.ToUpper(candidate), "_")
	cleaned = strings.Trim(cleaned, "_")
	if cleaned == "" {
		return FallbackCode
	}
	return cleaned
}

// fallbackDescription prefers the explicit description, then "name - sub",
// then the bare name.
func fallbackDescription(desc, name, subName string) string {
	if d := strings.TrimSpace(desc); d != "" {
		return d
	}
	if joined := joinNonBlank(name, subName, " - "); joined != "" {
		return joined
	}
	return name
}

func joinNonBlank(a, b, sep string) string {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + sep + b
	}
}
