package util

import (
	"strings"

	"golang.org/x/net/html"
)

// SanitizeText strips markup from upstream free text and removes line breaks
func SanitizeText(text string) string {
	var b strings.Builder

	z := html.NewTokenizer(strings.NewReader(text))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}

		if tt == html.TextToken {
			b.Write(z.Text())
		}
	}

	sanitized := strings.ReplaceAll(b.String(), "\n", "")
	sanitized = strings.ReplaceAll(sanitized, "\r", "")

	return sanitized
}
