package enrich

import "strings"

const (
	metaOpen       = "<!-- portfolio-meta"
	metaClose      = "-->"
	displayNameKey = "display_name:"
)

// ParseDisplayName extracts the display name override from a README.
//
// The override lives in an HTML comment block:
//
//	<!-- portfolio-meta
//	display_name: Foo Bar
//	-->
//
// Only the first block and the first display_name line inside it count. An
// unterminated block or an empty value is reported as absent.
func ParseDisplayName(text string) (string, bool) {
	start := strings.Index(text, metaOpen)
	if start < 0 {
		return "", false
	}

	block := text[start+len(metaOpen):]
	end := strings.Index(block, metaClose)
	if end < 0 {
		return "", false
	}
	block = block[:end]

	for _, line := range strings.Split(block, "\n") {
		i := strings.Index(line, displayNameKey)
		if i < 0 {
			continue
		}
		name := strings.TrimSpace(line[i+len(displayNameKey):])
		return name, name != ""
	}
	return "", false
}
