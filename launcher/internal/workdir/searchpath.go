package workdir

import "path/filepath"

// SearchPaths is an ordered set of directories. The first occurrence of a
// path wins; later duplicates and empty strings are dropped.
type SearchPaths struct {
	paths []string
	seen  map[string]struct{}
}

// NewSearchPaths returns a set holding paths in order.
func NewSearchPaths(paths ...string) *SearchPaths {
	s := &SearchPaths{seen: make(map[string]struct{})}
	s.Add(paths...)
	return s
}

// Add appends each path not already present.
func (s *SearchPaths) Add(paths ...string) {
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	for _, p := range paths {
		if p == "" {
			continue
		}
		key := filepath.Clean(p)
		if _, dup := s.seen[key]; dup {
			continue
		}
		s.seen[key] = struct{}{}
		s.paths = append(s.paths, p)
	}
}

// Paths returns a copy of the ordered entries.
func (s *SearchPaths) Paths() []string {
	out := make([]string, len(s.paths))
	copy(out, s.paths)
	return out
}

// Len returns the number of entries.
func (s *SearchPaths) Len() int { return len(s.paths) }
