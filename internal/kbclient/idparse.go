package kbclient

import (
	"strings"
	"unicode"
)

// createdIDLabel opens the id line of a create-article confirmation
const createdIDLabel = "**ID:**"

// ExtractCreatedID recovers the article id from a create-article
// confirmation: the token after the first line that starts with the
// "**ID:**" label, up to the next whitespace. The label appearing inside
// another field, such as the title, is ignored.
func ExtractCreatedID(text string) (string, bool) {
	for _, line := range strings.Split(text, "\n") {
		if !strings.HasPrefix(line, createdIDLabel) {
			continue
		}

		rest := strings.TrimLeftFunc(line[len(createdIDLabel):], unicode.IsSpace)
		if end := strings.IndexFunc(rest, unicode.IsSpace); end >= 0 {
			rest = rest[:end]
		}
		if rest == "" {
			return "", false
		}
		return rest, true
	}
	return "", false
}
