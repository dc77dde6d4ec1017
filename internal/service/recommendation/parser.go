package recommendation

import (
	"strings"
)

// knownHeaders are the section labels the extractor recognizes, in
// response order.
var knownHeaders = []string{headerNutrition, headerTherapy, headerPharmacology}

// extractSection locates header in text case-insensitively and returns
// everything up to the next known header or the end of the text. This
// is a narrow, format-specific extractor, not a general parser.
func extractSection(text, header string) (string, bool) {
	lower := strings.ToLower(text)
	idx := strings.Index(lower, strings.ToLower(header))
	if idx < 0 {
		return "", false
	}
	start := idx + len(header)

	end := len(text)
	for _, other := range knownHeaders {
		if strings.EqualFold(other, header) {
			continue
		}
		if next := strings.Index(lower[start:], strings.ToLower(other)); next >= 0 && start+next < end {
			end = start + next
		}
	}

	return strings.TrimSpace(text[start:end]), true
}
