package utils

import "html"

// Sanitize escapes HTML metacharacters so stored text cannot be reflected as markup.
func Sanitize(input string) string {
	return html.EscapeString(input)
}
