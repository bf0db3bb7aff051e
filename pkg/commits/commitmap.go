package commits

import "sort"

// CommitMap maps a canonical position token to the hashes of the commits
// whose message carried that position, in traversal order.
type CommitMap map[string][]string

// Lookup returns a copy of the hashes under the first key present in the
// map, trying keys in order.
func (m CommitMap) Lookup(keys ...string) ([]string, bool) {
	for _, k := range keys {
		if hashes, ok := m[k]; ok {
			return append([]string{}, hashes...), true
		}
	}
	return nil, false
}

// Tokens returns the map keys in timeline order. Keys that are not valid
// tokens sort last, alphabetically.
func (m CommitMap) Tokens() []string {
	tokens := make([]string, 0, len(m))
	for k := range m {
		tokens = append(tokens, k)
	}

	sort.SliceStable(tokens, func(i, j int) bool {
		a, errA := ParseToken(tokens[i])
		b, errB := ParseToken(tokens[j])
		switch {
		case errA != nil && errB != nil:
			return tokens[i] < tokens[j]
		case errA != nil:
			return false
		case errB != nil:
			return true
		}
		if c := a.Compare(b); c != 0 {
			return c < 0
		}
		return tokens[i] < tokens[j]
	})

	return tokens
}
