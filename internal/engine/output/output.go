// Package output turns a rendered document into HTML and plain text.
package output

import (
	"html"
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"contract-workers/internal/models"
)

var (
	stripPolicyOnce sync.Once
	stripPolicy     *bluemonday.Policy
)

// elementTag matches markup for HTML elements. Any other "<" is prose.
var elementTag = regexp.MustCompile(`(?i)</?(?:a|abbr|article|b|blockquote|br|code|div|em|font|h[1-6]|hr|i|iframe|img|li|ol|p|pre|s|script|section|small|span|strong|style|sub|sup|table|tbody|td|th|thead|tr|u|ul)(?:\s[^<>]*)?/?>`)

// entityShape matches what is left of an entity the decoder did not know.
var entityShape = regexp.MustCompile(`&(#[0-9]+|#[xX][0-9a-fA-F]+|[a-zA-Z][a-zA-Z0-9]*);`)

// GenerateHTML wraps the document in <article>. All title, heading and content
// text is escaped here; substituted answers were never escaped earlier.
func GenerateHTML(title string, sections []models.RenderedSection) string {
	var b strings.Builder
	b.WriteString("<article>\n")
	b.WriteString("<h1>" + html.EscapeString(title) + "</h1>\n")

	for _, s := range sections {
		b.WriteString("<section>\n")
		if s.Heading != "" {
			b.WriteString("<h2>" + html.EscapeString(s.Heading) + "</h2>\n")
		}
		b.WriteString(paragraphs(s.Content))
		b.WriteString("</section>\n")
	}

	b.WriteString("</article>\n")
	return b.String()
}

// GenerateText joins the title, headings and contents with blank lines.
// The result carries no tags, no entities and no angle brackets.
func GenerateText(title string, sections []models.RenderedSection) string {
	parts := make([]string, 0, 1+2*len(sections))
	if t := plain(title); t != "" {
		parts = append(parts, t)
	}
	for _, s := range sections {
		if h := plain(s.Heading); h != "" {
			parts = append(parts, h)
		}
		if c := plain(s.Content); c != "" {
			parts = append(parts, c)
		}
	}
	return normalize(strings.Join(parts, "\n\n"))
}

func paragraphs(content string) string {
	text := strings.Trim(normalizeNewlines(content), "\n")
	if strings.TrimSpace(text) == "" {
		return ""
	}

	var b strings.Builder
	for _, p := range strings.Split(text, "\n\n") {
		p = strings.Trim(p, "\n")
		if p == "" {
			continue
		}
		escaped := strings.ReplaceAll(html.EscapeString(p), "\n", "<br>\n")
		b.WriteString("<p>" + escaped + "</p>\n")
	}
	return b.String()
}

func plain(s string) string {
	s = sanitizer().Sanitize(escapeProse(normalizeNewlines(s)))
	for {
		next := entityShape.ReplaceAllString(html.UnescapeString(s), "&$1")
		if next == s {
			break
		}
		s = next
	}
	s = strings.NewReplacer("<", "", ">", "").Replace(s)
	return strings.Trim(s, "\n")
}

// escapeProse escapes every "<" outside element markup.
func escapeProse(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}
	tags := elementTag.FindAllStringIndex(s, -1)

	var b strings.Builder
	last := 0
	for _, loc := range tags {
		b.WriteString(strings.ReplaceAll(s[last:loc[0]], "<", "&lt;"))
		b.WriteString(s[loc[0]:loc[1]])
		last = loc[1]
	}
	b.WriteString(strings.ReplaceAll(s[last:], "<", "&lt;"))
	return b.String()
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

func normalize(s string) string {
	lines := strings.Split(normalizeNewlines(s), "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " \t")
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n") + "\n"
}

func sanitizer() *bluemonday.Policy {
	stripPolicyOnce.Do(func() {
		stripPolicy = bluemonday.StrictPolicy()
	})
	return stripPolicy
}
