package blogservice

import (
	"regexp"
	"strings"
)

var (
	codeRX      = regexp.MustCompile("(?s)```.*?```|`[^`\n]+`")
	scriptTagRX = regexp.MustCompile(`(?is)<\s*script[^>]*>.*?<\s*/\s*script\s*>`)
	iframeTagRX = regexp.MustCompile(`(?is)<\s*iframe[^>]*>.*?<\s*/\s*iframe\s*>|<\s*iframe[^>]*/?>`)
	eventAttrRX = regexp.MustCompile(`(?i)(<[a-z][^>]*?)\s+on[a-z]+\s*=\s*(?:"[^"]*"|'[^']*'|[^\s>]+)`)
	linkJSRX    = regexp.MustCompile(`(?i)(\]\(\s*)javascript\s*:`)
	attrJSRX    = regexp.MustCompile(`(?i)(\b(?:href|src)\s*=\s*["']?\s*)javascript\s*:`)
)

// sanitizeMarkdown strips active HTML from markdown before it is stored. Code spans and fenced code blocks
// are left as written.
func sanitizeMarkdown(markdown string) string {
	var b strings.Builder
	b.Grow(len(markdown))

	last := 0
	for _, loc := range codeRX.FindAllStringIndex(markdown, -1) {
		b.WriteString(sanitizeText(markdown[last:loc[0]]))
		b.WriteString(markdown[loc[0]:loc[1]])
		last = loc[1]
	}
	b.WriteString(sanitizeText(markdown[last:]))

	return b.String()
}

func sanitizeText(s string) string {
	s = scriptTagRX.ReplaceAllString(s, "")
	s = iframeTagRX.ReplaceAllString(s, "")

	// one handler per tag is removed on each pass
	for {
		next := eventAttrRX.ReplaceAllString(s, "${1}")
		if next == s {
			break
		}
		s = next
	}

	s = linkJSRX.ReplaceAllString(s, "${1}")
	return attrJSRX.ReplaceAllString(s, "${1}")
}
