package pubmed

import "strings"

// stringSet is an insertion-ordered set of strings. It backs the per-author
// identifier, affiliation and email collections, which deduplicate while
// keeping first-seen order.
type stringSet struct {
	seen   map[string]struct{}
	values []string
}

func newStringSet() *stringSet {
	return &stringSet{seen: make(map[string]struct{})}
}

func (s *stringSet) add(v string) {
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.values = append(s.values, v)
}

// join renders the set pipe-joined in insertion order.
func (s *stringSet) join() string {
	return strings.Join(s.values, listSep)
}
