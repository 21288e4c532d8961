package session

import "strings"

// StringSet is an insertion-ordered set of strings with case-insensitive
// membership. Values are normalized to lower case on insert.
type StringSet struct {
	values []string
	index  map[string]bool
}

func NewStringSet(values ...string) *StringSet {
	s := &StringSet{index: make(map[string]bool)}
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Add inserts the value if not already present. Returns true if the set grew.
func (s *StringSet) Add(value string) bool {
	norm := strings.ToLower(strings.TrimSpace(value))
	if norm == "" || s.index[norm] {
		return false
	}
	if s.index == nil {
		s.index = make(map[string]bool)
	}
	s.index[norm] = true
	s.values = append(s.values, norm)
	return true
}

func (s *StringSet) Contains(value string) bool {
	return s.index[strings.ToLower(strings.TrimSpace(value))]
}

// Values returns the members in insertion order. The slice is a copy.
func (s *StringSet) Values() []string {
	out := make([]string, len(s.values))
	copy(out, s.values)
	return out
}

func (s *StringSet) Len() int {
	return len(s.values)
}

func (s *StringSet) Clear() {
	s.values = nil
	s.index = make(map[string]bool)
}

func (s *StringSet) Join(sep string) string {
	return strings.Join(s.values, sep)
}

func (s *StringSet) clone() *StringSet {
	return NewStringSet(s.values...)
}
