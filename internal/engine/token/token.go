// Package token scans and substitutes {{field_id}} placeholders in template prose.
package token

import "regexp"

var pattern = regexp.MustCompile(`\{\{([a-z][a-z0-9_]*)\}\}`)

// Names returns the distinct token names found in s, in first-seen order.
func Names(s string) []string {
	matches := pattern.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if _, ok := seen[m[1]]; ok {
			continue
		}
		seen[m[1]] = struct{}{}
		out = append(out, m[1])
	}
	return out
}

// Replace substitutes every token in s with values[name] in one left-to-right pass.
// Substituted text is never rescanned, and names missing from values become "".
func Replace(s string, values map[string]string) string {
	return pattern.ReplaceAllStringFunc(s, func(match string) string {
		return values[match[2:len(match)-2]]
	})
}
