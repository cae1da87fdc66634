package utils

import "github.com/microcosm-cc/bluemonday"

var sanitizer = bluemonday.UGCPolicy()

// Sanitize cleans user-supplied HTML (editor output) to prevent XSS.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}

var stripper = bluemonday.StrictPolicy()

// StripHTML removes all markup, leaving plain text for mail bodies.
func StripHTML(input string) string {
	return stripper.Sanitize(input)
}
