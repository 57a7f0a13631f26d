package document

import "github.com/google/uuid"

// NewIDs synthesizes n fresh unique document identifiers for tables
// without a designated id column.
func NewIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = uuid.NewString()
	}
	return ids
}

// CountDuplicates returns how many ids appear more than once, counting
// each extra occurrence. Zero means all ids are unique.
func CountDuplicates(ids []string) int {
	seen := make(map[string]bool, len(ids))
	duplicates := 0
	for _, id := range ids {
		if seen[id] {
			duplicates++
		}
		seen[id] = true
	}
	return duplicates
}
