package extension

import (
	"sort"
	"strings"
)

// Sort returns a copy of extensions ordered by lower-cased name.
// Equal keys keep their input order.
func Sort(extensions []*Extension) []*Extension {
	sorted := make([]*Extension, len(extensions))
	copy(sorted, extensions)

	sort.SliceStable(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i].name) < strings.ToLower(sorted[j].name)
	})

	return sorted
}

// Names returns the names of extensions in order.
func Names(extensions []*Extension) []string {
	names := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		names = append(names, ext.name)
	}
	return names
}
