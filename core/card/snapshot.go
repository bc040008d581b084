package card

import (
	"sort"
	"sync"
)

// Snapshot is the locally cached copy of the collection. It is only ever replaced
// wholesale from an authoritative listing and never used to plan rank writes.
type Snapshot struct {
	mu    sync.RWMutex
	cards []Card
}

func NewSnapshot() *Snapshot {
	return &Snapshot{}
}

// Replace swaps the cached list for cards.
func (s *Snapshot) Replace(cards []Card) {
	cp := make([]Card, len(cards))
	copy(cp, cards)
	sortByRank(cp)

	s.mu.Lock()
	s.cards = cp
	s.mu.Unlock()
}

// Cards returns the cached cards sorted by rank.
func (s *Snapshot) Cards() []Card {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cp := make([]Card, len(s.cards))
	copy(cp, s.cards)
	return cp
}

func (s *Snapshot) Get(id int) (Card, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.cards {
		if c.ID == id {
			return c, true
		}
	}
	return Card{}, false
}

func (s *Snapshot) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cards)
}

func (s *Snapshot) MaxRank() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var max int
	for _, c := range s.cards {
		if c.DisplayOrder > max {
			max = c.DisplayOrder
		}
	}
	return max
}

// NextRank is the rank a new card would get when none is asked for.
func (s *Snapshot) NextRank() int {
	return s.MaxRank() + 1
}

func sortByRank(cards []Card) {
	sort.SliceStable(cards, func(i, j int) bool {
		if cards[i].DisplayOrder != cards[j].DisplayOrder {
			return cards[i].DisplayOrder < cards[j].DisplayOrder
		}
		return cards[i].ID < cards[j].ID
	})
}
