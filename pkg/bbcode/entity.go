package bbcode

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// escaper covers the characters that are significant either to HTML or to the
	// tag scanner itself.
	escaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		"[", "&#91;",
		"]", "&#93;",
		"'", "&#39;",
		`"`, "&quot;",
	)

	// entityRegex matches the entities Unescape understands: five named ones and
	// two or three digit decimal references.
	entityRegex = regexp.MustCompile(`&(?:amp|lt|gt|apos|quot|#[0-9]{2,3});`)

	namedEntities = map[string]string{
		"&amp;":  "&",
		"&lt;":   "<",
		"&gt;":   ">",
		"&apos;": "'",
		"&quot;": `"`,
	}
)

// Escape replaces & < > [ ] ' and " with their entity forms.
func Escape(text string) string {
	return escaper.Replace(text)
}

// Unescape decodes the named entities amp, lt, gt, apos and quot, and decimal
// character references of two or three digits. Numeric references are only
// decoded for printable ASCII (32 through 126); anything else is left as written.
func Unescape(text string) string {
	if !strings.Contains(text, "&") {
		return text
	}
	return entityRegex.ReplaceAllStringFunc(text, decodeEntity)
}

func decodeEntity(entity string) string {
	if strings.HasPrefix(entity, "&#") {
		code, err := strconv.Atoi(entity[2 : len(entity)-1])
		if err == nil && code >= 32 && code <= 126 {
			return string(rune(code))
		}
		return entity
	}
	if decoded, ok := namedEntities[entity]; ok {
		return decoded
	}
	return entity
}
