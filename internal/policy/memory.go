package policy

import (
	"context"
	"sort"
)

// MemoryStore serves a fixed set of policies loaded at construction.
type MemoryStore struct {
	byNumber map[string]Policy
	order    []string
}

// NewMemoryStore builds a store over the given policies. Later duplicates of a
// policy number replace earlier ones.
func NewMemoryStore(policies []Policy) *MemoryStore {
	s := &MemoryStore{byNumber: make(map[string]Policy, len(policies))}
	for _, p := range policies {
		if _, dup := s.byNumber[p.PolicyNumber]; !dup {
			s.order = append(s.order, p.PolicyNumber)
		}
		s.byNumber[p.PolicyNumber] = p.Clone()
	}
	sort.Strings(s.order)
	return s
}

// NewSampleStore returns a MemoryStore holding SamplePolicies.
func NewSampleStore() *MemoryStore {
	return NewMemoryStore(SamplePolicies())
}

func (s *MemoryStore) Get(_ context.Context, number string) (Policy, error) {
	p, ok := s.byNumber[number]
	if !ok {
		return Policy{}, ErrNotFound
	}
	return p.Clone(), nil
}

func (s *MemoryStore) List(_ context.Context) ([]Policy, error) {
	out := make([]Policy, 0, len(s.order))
	for _, n := range s.order {
		out = append(out, s.byNumber[n].Clone())
	}
	return out, nil
}
