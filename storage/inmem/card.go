package inmemdb

import (
	"context"
	"fmt"
	"sort"

	"github.com/pkg/errors"

	"github.com/clubsite/clubsite/core"
	"github.com/clubsite/clubsite/core/card"
)

// CardRepository stores cards in memory and, like the real backend, rejects any write
// that would give a card a rank already held by another one.
type CardRepository struct {
	db *cardTable
}

var _ card.Repository = (*CardRepository)(nil) // interface compliance check

func NewCardRepository(db *DB) *CardRepository {
	return &CardRepository{db: db.card}
}

func (repo *CardRepository) query() []card.Card {
	cards := make([]card.Card, 0, len(repo.db.table))
	for _, c := range repo.db.table {
		cards = append(cards, *c)
	}
	sort.Slice(cards, func(i, j int) bool { return cards[i].ID < cards[j].ID })
	return cards
}

// Op is one call received by the card store.
type Op struct {
	Method string
	ID     int
	Rank   int
}

func (op Op) String() string {
	return fmt.Sprintf("%s #%d@%d", op.Method, op.ID, op.Rank)
}

// FailWrite makes the nth write from now (create, update or delete) fail with err.
func (repo *CardRepository) FailWrite(n int, err error) {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.failAt = repo.db.writes + n
	repo.db.fault = err
}

// Ops returns the writes received so far, in order.
func (repo *CardRepository) Ops() []Op {
	repo.db.RLock()
	defer repo.db.RUnlock()
	ops := make([]Op, len(repo.db.ops))
	copy(ops, repo.db.ops)
	return ops
}

// Lists returns how many times the cards were listed.
func (repo *CardRepository) Lists() int {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.db.lists
}

// ResetOps clears the recorded calls.
func (repo *CardRepository) ResetOps() {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.ops = nil
	repo.db.lists = 0
}

// write must be called with the lock held. It records op and returns the injected fault, if due.
func (repo *CardRepository) write(op Op) error {
	repo.db.writes++
	if repo.db.failAt > 0 && repo.db.writes == repo.db.failAt {
		repo.db.failAt = 0
		return repo.db.fault
	}
	repo.db.ops = append(repo.db.ops, op)
	return nil
}

// checkRank must be called with the lock held.
func (repo *CardRepository) checkRank(c card.Card) error {
	for id, other := range repo.db.table {
		if id != c.ID && other.DisplayOrder == c.DisplayOrder {
			return errors.Wrapf(core.ErrRankConflict, "display_order %d held by card #%d", c.DisplayOrder, id)
		}
	}
	return nil
}

func (repo *CardRepository) ListCards(_ context.Context) ([]card.Card, error) {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.lists++
	return repo.query(), nil
}

func (repo *CardRepository) GetCard(_ context.Context, id int) (card.Card, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if c, ok := repo.db.table[id]; ok {
		return *c, nil
	}
	return card.Card{}, card.ErrNotFound
}

func (repo *CardRepository) CreateCard(_ context.Context, c card.Card) (card.Card, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	c.ID = 0
	if err := repo.checkRank(c); err != nil {
		return card.Card{}, err
	}
	if err := repo.write(Op{Method: "create", ID: repo.db.pk + 1, Rank: c.DisplayOrder}); err != nil {
		return card.Card{}, err
	}
	repo.db.pk++
	c.ID = repo.db.pk
	repo.db.table[c.ID] = &c
	return c, nil
}

func (repo *CardRepository) UpdateCard(_ context.Context, c card.Card) (card.Card, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[c.ID]; !ok {
		return card.Card{}, card.ErrNotFound
	}
	if err := repo.checkRank(c); err != nil {
		return card.Card{}, err
	}
	if err := repo.write(Op{Method: "update", ID: c.ID, Rank: c.DisplayOrder}); err != nil {
		return card.Card{}, err
	}
	repo.db.table[c.ID] = &c
	return c, nil
}

func (repo *CardRepository) DeleteCard(_ context.Context, id int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return card.ErrNotFound
	}
	if err := repo.write(Op{Method: "delete", ID: id}); err != nil {
		return err
	}
	delete(repo.db.table, id)
	return nil
}

type MemberRepository struct {
	db *memberTable
}

var _ card.MemberRepository = (*MemberRepository)(nil)

func NewMemberRepository(db *DB) *MemberRepository {
	return &MemberRepository{db: db.member}
}

func (repo *MemberRepository) AddMember(_ context.Context, m card.Member) (card.Member, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if m.ID == 0 {
		m.ID = len(repo.db.table) + 1
	}
	repo.db.table[m.ID] = &m
	return m, nil
}

func (repo *MemberRepository) ListMembers(_ context.Context) ([]card.Member, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	members := make([]card.Member, 0, len(repo.db.table))
	for _, m := range repo.db.table {
		members = append(members, *m)
	}
	sort.Slice(members, func(i, j int) bool { return members[i].ID < members[j].ID })
	return members, nil
}
