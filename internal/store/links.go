package store

import "regexp"

// linkPattern recognizes http/https URLs: optional www, a domain with at
// least one dot and a 2-6 letter top-level label, and an optional
// path/query/fragment tail.
var linkPattern = regexp.MustCompile(`(?i)https?://(?:www)?[\da-z.-]+\.[a-z.]{2,6}[-/\w.?%#&=]*`)

// extractLinks returns all non-overlapping URL matches in the text, in
// left-to-right order.
func extractLinks(text string) []string {
	return linkPattern.FindAllString(text, -1)
}
