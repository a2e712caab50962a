package templates

import (
	"sort"
	"strconv"
	"strings"
)

func formatKinds(kinds map[string]int) string {
	names := make([]string, 0, len(kinds))
	for name := range kinds {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for i, name := range names {
		sb.WriteString(name)
		sb.WriteString(" x")
		sb.WriteString(strconv.Itoa(kinds[name]))
		if i < len(names)-1 {
			sb.WriteString(", ")
		}
	}
	return sb.String()
}
