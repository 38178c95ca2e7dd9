package service

import (
	"regexp"
	"strings"
)

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// entityReplacements is the fixed table of HTML entities the provider emits.
// &amp; is decoded last so it cannot manufacture new entities.
var entityReplacements = [][2]string{
	{"&nbsp;", " "},
	{"&lt;", "<"},
	{"&gt;", ">"},
	{"&quot;", `"`},
	{"&#39;", "'"},
	{"&amp;", "&"},
}

// NormalizeText strips HTML markup from provider text fields: tags are
// removed, the fixed entity table is decoded, and surrounding whitespace is
// trimmed. It is pure, and a no-op on already-clean text.
func NormalizeText(text string) string {
	if text == "" {
		return ""
	}

	text = htmlTagPattern.ReplaceAllString(text, "")

	for _, pair := range entityReplacements {
		text = strings.ReplaceAll(text, pair[0], pair[1])
	}

	return strings.TrimSpace(text)
}
