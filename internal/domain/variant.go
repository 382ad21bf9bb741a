package domain

import (
	"sort"
	"strconv"
	"strings"
)

// SelectionMap is the backend representation of an option selection:
// option group ID to the IDs of the chosen options within that group.
type SelectionMap map[uint][]uint

// VariantKey derives the canonical key for a selection. Every (group, option)
// pair is flattened to "groupId:optionId", the pairs are sorted
// lexicographically and joined with commas, so two selections holding the same
// option set produce the same key regardless of insertion order.
func (s SelectionMap) VariantKey() string {
	if len(s) == 0 {
		return ""
	}

	pairs := make([]string, 0, len(s))
	for groupID, optionIDs := range s {
		for _, optionID := range optionIDs {
			pairs = append(pairs, strconv.FormatUint(uint64(groupID), 10)+":"+strconv.FormatUint(uint64(optionID), 10))
		}
	}

	sort.Strings(pairs)

	return strings.Join(pairs, ",")
}

// Equal compares two selections by value via their canonical keys.
func (s SelectionMap) Equal(other SelectionMap) bool {
	return s.VariantKey() == other.VariantKey()
}

// Clone returns a deep copy so a stored selection cannot alias caller state.
func (s SelectionMap) Clone() SelectionMap {
	if s == nil {
		return nil
	}
	out := make(SelectionMap, len(s))
	for groupID, optionIDs := range s {
		out[groupID] = append([]uint(nil), optionIDs...)
	}
	return out
}
