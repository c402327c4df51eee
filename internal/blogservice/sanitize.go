package blogservice

import "regexp"

var scriptTagPattern = regexp.MustCompile(`(?is)<\s*script[^>]*>(.*?)<\s*/\s*script\s*>`)

// sanitizeText strips script elements from user supplied text.
func sanitizeText(s string) string {
	return scriptTagPattern.ReplaceAllString(s, "")
}
