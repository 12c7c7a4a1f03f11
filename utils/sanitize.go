package utils

import "github.com/microcosm-cc/bluemonday"

// Mood notes and community post content arrive as free text and are echoed
// back to every reader, so both pass through the UGC policy on write.
var sanitizer = bluemonday.UGCPolicy()

// Sanitize strips markup the UGC policy disallows, script tags included.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}
