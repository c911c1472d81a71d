package harvest

import (
	"slices"

	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/model"
)

// Selection is the set of holding ids chosen for harvesting. It is owned and
// mutated by the caller; the simulation functions only read it. A nil
// *Selection behaves as an empty set for reads.
//
// Selection is not safe for concurrent mutation.
type Selection struct {
	ids map[string]struct{}
}

// NewSelection returns a selection containing ids. Duplicates collapse.
func NewSelection(ids ...string) *Selection {
	s := &Selection{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

// Toggle adds id when absent and removes it when present.
func (s *Selection) Toggle(id string) {
	s.init()
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return
	}
	s.ids[id] = struct{}{}
}

// SelectAll replaces the selection with the ids of every holding.
func (s *Selection) SelectAll(holdings []model.Holding) {
	s.ids = make(map[string]struct{}, len(holdings))
	for _, h := range holdings {
		s.ids[h.ID] = struct{}{}
	}
}

// ToggleAll clears the selection when every holding is already selected and
// selects all holdings otherwise.
func (s *Selection) ToggleAll(holdings []model.Holding) {
	if len(holdings) > 0 && s.containsAll(holdings) {
		s.Clear()
		return
	}
	s.SelectAll(holdings)
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.ids = make(map[string]struct{})
}

// Contains reports whether id is selected.
func (s *Selection) Contains(id string) bool {
	if s == nil {
		return false
	}
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of selected ids.
func (s *Selection) Len() int {
	if s == nil {
		return 0
	}
	return len(s.ids)
}

// IDs returns the selected ids in ascending order.
func (s *Selection) IDs() []string {
	if s == nil {
		return []string{}
	}
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Clone returns an independent copy of the selection.
func (s *Selection) Clone() *Selection {
	return NewSelection(s.IDs()...)
}

// Equal reports whether both selections hold the same ids.
func (s *Selection) Equal(other *Selection) bool {
	return slices.Equal(s.IDs(), other.IDs())
}

func (s *Selection) containsAll(holdings []model.Holding) bool {
	for _, h := range holdings {
		if !s.Contains(h.ID) {
			return false
		}
	}
	return true
}

func (s *Selection) init() {
	if s.ids == nil {
		s.ids = make(map[string]struct{})
	}
}
