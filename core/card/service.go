package card

import (
	"context"
	"fmt"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/clubsite/clubsite/core"
	"github.com/clubsite/clubsite/core/rank"
)

// ErrNotFound is matched by errors about a card that does not exist (anymore).
var ErrNotFound = core.ErrNotFound

type (
	// Repository is the remote store owning the collection. It enforces rank uniqueness on
	// every single write and offers no multi-record transaction.
	Repository interface {
		ListCards(ctx context.Context) ([]Card, error)
		CreateCard(ctx context.Context, c Card) (Card, error)
		// UpdateCard rewrites the whole card, rank included.
		UpdateCard(ctx context.Context, c Card) (Card, error)
		DeleteCard(ctx context.Context, id int) error
	}

	MemberRepository interface {
		ListMembers(ctx context.Context) ([]Member, error)
	}

	ServiceDeps struct {
		Repo       Repository
		Members    MemberRepository // optional
		Notifier   core.Notifier    // optional
		Logger     core.Logger
		Validate   *validator.Validate
		Translator ut.Translator
		// ParkRank is the lowest rank a card is parked at while it is being moved.
		ParkRank int
	}

	// Service places cards at the rank an admin asks for.
	//
	// Every mutation follows the same saga: refetch the authoritative list, compact it,
	// open the wanted slot, write the subject, then resync the snapshot. A failed step
	// aborts the following ones but the resync always runs, so the snapshot never shows
	// anything but what the store holds. Concurrent admins are last-write-wins.
	Service struct {
		repo       Repository
		members    MemberRepository
		notifier   core.Notifier
		logger     core.Logger
		validate   *validator.Validate
		translator ut.Translator
		parkRank   int
		snapshot   *Snapshot
	}

	// Plan is the dry-run of a placement.
	Plan struct {
		Slot   int
		Moves  []rank.Move
		Before []Card
		After  []Card
	}
)

func NewService(deps ServiceDeps) *Service {
	return &Service{
		repo:       deps.Repo,
		members:    deps.Members,
		notifier:   deps.Notifier,
		logger:     deps.Logger,
		validate:   deps.Validate,
		translator: deps.Translator,
		parkRank:   deps.ParkRank,
		snapshot:   NewSnapshot(),
	}
}

// Cards returns the cached cards by rank; advisory only.
func (svc *Service) Cards() []Card {
	return svc.snapshot.Cards()
}

// NextRank is where a new card lands when no rank is given, as of the last resync.
func (svc *Service) NextRank() int {
	return svc.snapshot.NextRank()
}

// Refresh replaces the snapshot with the authoritative list.
func (svc *Service) Refresh(ctx context.Context) ([]Card, error) {
	cards, err := svc.repo.ListCards(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "listing cards")
	}
	svc.snapshot.Replace(cards)
	return svc.snapshot.Cards(), nil
}

// ActiveMembers lists the members a card may be linked to. Failures are only logged.
func (svc *Service) ActiveMembers(ctx context.Context) []Member {
	active := make([]Member, 0)
	if svc.members == nil {
		return active
	}
	members, err := svc.members.ListMembers(ctx)
	if err != nil {
		svc.logger.Warn("listing members", err)
		return active
	}
	for _, m := range members {
		if m.IsActive {
			active = append(active, m)
		}
	}
	return active
}

// Create inserts a new card at nc.DisplayOrder (last if zero), shifting the cards after it.
func (svc *Service) Create(ctx context.Context, nc NewCard) (Card, error) {
	if err := nc.Validate(svc.validate, svc.translator); err != nil {
		svc.fail("create", err)
		return Card{}, err
	}
	c, err := svc.create(ctx, nc.card(), nc.DisplayOrder)
	svc.resync(ctx, "create")
	if err != nil {
		svc.fail("create", err)
		return Card{}, err
	}
	svc.succeed(fmt.Sprintf("%q created.", c.DisplayName))
	return c, nil
}

func (svc *Service) create(ctx context.Context, c Card, target int) (Card, error) {
	existing, err := svc.repo.ListCards(ctx)
	if err != nil {
		return Card{}, errors.Wrap(err, "listing cards")
	}
	if target <= 0 {
		target = len(existing) + 1
	}
	slot, err := svc.makeRoom(ctx, existing, target)
	if err != nil {
		return Card{}, err
	}
	c.DisplayOrder = slot
	created, err := svc.repo.CreateCard(ctx, c)
	if err != nil {
		return Card{}, errors.Wrap(err, "creating card")
	}
	return created, nil
}

// Update rewrites card id with uc, moving it to uc.DisplayOrder.
func (svc *Service) Update(ctx context.Context, id int, uc UpdateCard) (Card, error) {
	if err := uc.Validate(svc.validate, svc.translator); err != nil {
		svc.fail("save", err)
		return Card{}, err
	}

	c, err := svc.relocate(ctx, uc.card(id))
	svc.resync(ctx, "update")
	if err != nil {
		svc.fail("save", err)
		return Card{}, err
	}
	svc.succeed(fmt.Sprintf("%q saved.", c.DisplayName))
	return c, nil
}

func (svc *Service) relocate(ctx context.Context, c Card) (Card, error) {
	target := c.DisplayOrder

	// park the card out of reach so it cannot block the shifts below
	parked := c
	parked.DisplayOrder = svc.parkAt()
	if _, err := svc.repo.UpdateCard(ctx, parked); err != nil {
		return Card{}, errors.Wrap(err, "parking card")
	}

	fresh, err := svc.repo.ListCards(ctx)
	if err != nil {
		return Card{}, errors.Wrap(err, "listing cards")
	}
	slot, err := svc.makeRoom(ctx, without(fresh, c.ID), target)
	if err != nil {
		return Card{}, err
	}

	c.DisplayOrder = slot
	placed, err := svc.repo.UpdateCard(ctx, c)
	if err != nil {
		return Card{}, errors.Wrap(err, "placing card")
	}
	return placed, nil
}

// Delete removes card id and closes the gap it leaves.
func (svc *Service) Delete(ctx context.Context, id int) error {
	name := "#" + fmt.Sprint(id)
	if c, ok := svc.snapshot.Get(id); ok {
		name = c.String()
	}

	err := svc.remove(ctx, id)
	svc.resync(ctx, "delete")
	if err != nil {
		svc.fail("delete", err)
		return err
	}
	svc.succeed(fmt.Sprintf("%q deleted.", name))
	return nil
}

func (svc *Service) remove(ctx context.Context, id int) error {
	if err := svc.repo.DeleteCard(ctx, id); err != nil {
		return errors.Wrap(err, "deleting card")
	}
	_, err := svc.compact(ctx)
	return err
}

// Normalize renumbers the collection to 1..N. It returns the number of cards moved.
func (svc *Service) Normalize(ctx context.Context) (int, error) {
	n, err := svc.compact(ctx)
	svc.resync(ctx, "normalize")
	if err != nil {
		svc.fail("normalize", err)
		return n, err
	}
	svc.succeed(fmt.Sprintf("Order normalized (%d moved).", n))
	return n, nil
}

func (svc *Service) compact(ctx context.Context) (int, error) {
	fresh, err := svc.repo.ListCards(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "listing cards")
	}
	n, err := rank.Apply(ctx, rank.Compact(records(fresh)), svc.rankWriter(fresh))
	return n, errors.Wrap(err, "compacting")
}

// Plan computes, without writing anything, the moves placing card id (zero for a new card)
// at target.
func (svc *Service) Plan(ctx context.Context, id, target int) (Plan, error) {
	fresh, err := svc.repo.ListCards(ctx)
	if err != nil {
		return Plan{}, errors.Wrap(err, "listing cards")
	}
	sortByRank(fresh)

	var moves []rank.Move
	others := fresh
	subject := Card{ID: id, DisplayName: "(new)"}
	if id != 0 {
		c, ok := find(fresh, id)
		if !ok {
			return Plan{}, errors.Wrapf(ErrNotFound, "card #%d", id)
		}
		subject = c
		others = without(fresh, id)
		moves = append(moves, rank.Move{ID: id, From: c.DisplayOrder, To: svc.parkAt()})
	}
	if target <= 0 {
		target = len(others) + 1
	}

	compaction := rank.Compact(records(others))
	compacted := withMoves(others, compaction)
	slot, shifts := rank.OpenSlot(records(compacted), target)
	moves = append(moves, compaction...)
	moves = append(moves, shifts...)

	subject.DisplayOrder = slot
	if id != 0 {
		moves = append(moves, rank.Move{ID: id, From: moves[0].To, To: slot})
	}
	after := append(withMoves(compacted, shifts), subject)
	sortByRank(after)

	return Plan{Slot: slot, Moves: moves, Before: fresh, After: after}, nil
}

// makeRoom compacts others then frees target among them, returning the freed rank.
func (svc *Service) makeRoom(ctx context.Context, others []Card, target int) (int, error) {
	write := svc.rankWriter(others)

	compaction := rank.Compact(records(others))
	if _, err := rank.Apply(ctx, compaction, write); err != nil {
		return 0, errors.Wrap(err, "compacting")
	}

	slot, shifts := rank.OpenSlot(records(withMoves(others, compaction)), target)
	if _, err := rank.Apply(ctx, shifts, write); err != nil {
		return 0, errors.Wrap(err, "opening slot")
	}
	return slot, nil
}

// rankWriter rewrites a card of cards with its new rank and all its other fields unchanged.
func (svc *Service) rankWriter(cards []Card) rank.Writer {
	byID := make(map[int]Card, len(cards))
	for _, c := range cards {
		byID[c.ID] = c
	}
	return func(ctx context.Context, mv rank.Move) error {
		c, ok := byID[mv.ID]
		if !ok {
			return errors.Wrapf(ErrNotFound, "card #%d", mv.ID)
		}
		c.DisplayOrder = mv.To
		if _, err := svc.repo.UpdateCard(ctx, c); err != nil {
			return err
		}
		byID[mv.ID] = c
		return nil
	}
}

func (svc *Service) parkAt() int {
	floor := svc.parkRank
	if max := svc.snapshot.MaxRank() + 1; max > floor {
		floor = max
	}
	return rank.ParkRank(svc.snapshot.Len(), floor)
}

// resync always runs after a mutation; its own failure never hides the operation's.
func (svc *Service) resync(ctx context.Context, op string) {
	if _, err := svc.Refresh(ctx); err != nil {
		svc.logger.Error(fmt.Sprintf("resync after %s", op), err)
	}
}

func (svc *Service) fail(op string, err error) {
	svc.logger.Error(fmt.Sprintf("card %s failed", op), err)
	if core.IsValidationError(err) {
		svc.notify(core.Notice{Level: core.NoticeError, Message: errors.Cause(err).Error()})
		return
	}
	svc.notify(core.Notice{Level: core.NoticeError, Message: fmt.Sprintf("Failed to %s: %v", op, errors.Cause(err))})
}

func (svc *Service) succeed(msg string) {
	svc.logger.Info(msg)
	svc.notify(core.Notice{Level: core.NoticeSuccess, Message: msg})
}

func (svc *Service) notify(n core.Notice) {
	if svc.notifier != nil {
		svc.notifier.Notify(n)
	}
}

func records(cards []Card) []rank.Record {
	recs := make([]rank.Record, 0, len(cards))
	for _, c := range cards {
		recs = append(recs, c)
	}
	return recs
}

// withMoves returns a copy of cards with moves applied.
func withMoves(cards []Card, moves []rank.Move) []Card {
	to := make(map[int]int, len(moves))
	for _, mv := range moves {
		to[mv.ID] = mv.To
	}
	out := make([]Card, 0, len(cards))
	for _, c := range cards {
		if r, ok := to[c.ID]; ok {
			c.DisplayOrder = r
		}
		out = append(out, c)
	}
	return out
}

func without(cards []Card, id int) []Card {
	out := make([]Card, 0, len(cards))
	for _, c := range cards {
		if c.ID != id {
			out = append(out, c)
		}
	}
	return out
}

func find(cards []Card, id int) (Card, bool) {
	for _, c := range cards {
		if c.ID == id {
			return c, true
		}
	}
	return Card{}, false
}
