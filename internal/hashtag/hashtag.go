// Package hashtag extracts hashtag tokens from caption text.
package hashtag

import "github.com/veigarm/pixelfeed/backend/internal/models"

// Extract scans text once, left to right, and returns every hashtag in order
// of appearance. A tag starts at '#' and runs to the next whitespace or the
// end of the text; a bare '#' is dropped. Duplicates are kept.
func Extract(text string) []models.Hashtag {
	tags := []models.Hashtag{}
	for i := 0; i < len(text); {
		if text[i] != '#' {
			i++
			continue
		}
		j := i + 1
		for j < len(text) && !isSpace(text[j]) {
			j++
		}
		if j-i > 1 {
			tags = append(tags, models.Hashtag{Name: text[i:j]})
		}
		i = j
	}
	return tags
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
