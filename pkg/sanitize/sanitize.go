package sanitize

import "github.com/microcosm-cc/bluemonday"

var (
	ugc    = bluemonday.UGCPolicy()
	strict = bluemonday.StrictPolicy()
)

// UGC cleans user generated HTML (chapter content, story descriptions),
// keeping common formatting tags.
func UGC(input string) string {
	return ugc.Sanitize(input)
}

// Plain strips all HTML (comments, bios, titles).
func Plain(input string) string {
	return strict.Sanitize(input)
}
