package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var sanitizer = bluemonday.UGCPolicy()

// RenderHTML turns stored plain text into an HTML fragment for display.
// The text itself is escaped, so markup typed by users shows up literally.
func RenderHTML(input string) string {
	if input == "" {
		return ""
	}
	escaped := strings.ReplaceAll(html.EscapeString(input), "\n", "<br>")
	return sanitizer.Sanitize(escaped)
}
