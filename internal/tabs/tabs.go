// Package tabs parses the tab listing returned by the OCR application's
// control endpoint.
package tabs

import (
	"regexp"
	"slices"
	"strconv"

	"pkt.systems/umidoc/schema"
)

// StaleIndices returns the indices of listing lines that start with a
// numeric index followed by a tab named "<tabName>_", top to bottom.
// Index and name must share a line. Indices that do not fit a TabIndex
// are skipped.
func StaleIndices(listing, tabName string) []schema.TabIndex {
	re := regexp.MustCompile(`(?m)^[ \t]*(\d+)[ \t]+` + regexp.QuoteMeta(tabName) + `_`)
	var out []schema.TabIndex
	for _, match := range re.FindAllStringSubmatch(listing, -1) {
		index, err := strconv.ParseUint(match[1], 10, 16)
		if err != nil {
			continue
		}
		out = append(out, schema.TabIndex(index))
	}
	return out
}

// ContainsFresh reports whether "<tabName>_<digits>" appears anywhere in
// the listing.
func ContainsFresh(listing, tabName string) bool {
	re := regexp.MustCompile(regexp.QuoteMeta(tabName) + `_\d+`)
	return re.MatchString(listing)
}

// CloseOrder returns indices sorted strictly descending with duplicates
// removed. Closing from the highest index down keeps the remaining lower
// indices valid.
func CloseOrder(indices []schema.TabIndex) []schema.TabIndex {
	out := slices.Clone(indices)
	slices.Sort(out)
	out = slices.Compact(out)
	slices.Reverse(out)
	return out
}
