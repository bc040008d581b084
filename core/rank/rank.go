// Package rank plans and applies the rank rewrites that keep a remotely stored collection
// ordered 1..N when the store rejects any write that would duplicate a rank.
//
// Each write is applied on its own, so the order of a batch matters: a record may only
// take a rank nobody holds at that instant. Compact lowers ranks walking upwards and
// OpenSlot raises ranks walking downwards; swapping either direction produces a
// transient collision on the store.
package rank

import (
	"context"
	"fmt"
	"sort"

	"github.com/pkg/errors"
)

// Direction in which a batch of moves must be issued, by current rank.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "descending"
	}
	return "ascending"
}

// ParkOffset is added to the collection size to get a rank no sibling can hold.
const ParkOffset = 1000

// Record is anything holding a place in a ranked collection.
type Record interface {
	RecordID() int
	RecordRank() int
}

// Move rewrites the rank of a single record.
type Move struct {
	ID   int
	From int
	To   int
}

func (mv Move) String() string {
	return fmt.Sprintf("#%d: %d -> %d", mv.ID, mv.From, mv.To)
}

// Writer persists one move. It must not return before the store has accepted the write.
type Writer func(ctx context.Context, mv Move) error

// Sorted returns a copy of recs ordered by rank, ties broken by ID.
func Sorted(recs []Record) []Record {
	out := make([]Record, len(recs))
	copy(out, recs)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].RecordRank() != out[j].RecordRank() {
			return out[i].RecordRank() < out[j].RecordRank()
		}
		return out[i].RecordID() < out[j].RecordID()
	})
	return out
}

// Order sorts moves by their current rank in the given direction.
func Order(moves []Move, dir Direction) []Move {
	sort.SliceStable(moves, func(i, j int) bool {
		if dir == Descending {
			return moves[i].From > moves[j].From
		}
		return moves[i].From < moves[j].From
	})
	return moves
}

// Compact returns the moves that renumber recs to 1..len(recs) keeping their relative order.
// Records already at their slot are left alone.
//
// Moves down are issued Ascending: when a record drops to slot k, every record that held
// a rank <= k has already been placed below k. Records sitting below their slot (rank < 1)
// can only form a prefix; they go first and Descending, like OpenSlot.
func Compact(recs []Record) []Move {
	var up, down []Move
	for i, r := range Sorted(recs) {
		want := i + 1
		switch {
		case r.RecordRank() < want:
			up = append(up, Move{ID: r.RecordID(), From: r.RecordRank(), To: want})
		case r.RecordRank() > want:
			down = append(down, Move{ID: r.RecordID(), From: r.RecordRank(), To: want})
		}
	}
	moves := make([]Move, 0, len(up)+len(down))
	moves = append(moves, Order(up, Descending)...)
	return append(moves, Order(down, Ascending)...)
}

// Clamp bounds target to [1, n+1], n being the number of records already ranked.
func Clamp(target, n int) int {
	if target < 1 {
		return 1
	}
	if target > n+1 {
		return n + 1
	}
	return target
}

// OpenSlot frees rank target (clamped) in a compacted collection by moving every record
// at or after it one rank up. It returns the freed rank and the moves, highest rank first.
func OpenSlot(recs []Record, target int) (int, []Move) {
	slot := Clamp(target, len(recs))
	var moves []Move
	for _, r := range recs {
		if r.RecordRank() >= slot {
			moves = append(moves, Move{ID: r.RecordID(), From: r.RecordRank(), To: r.RecordRank() + 1})
		}
	}
	return slot, Order(moves, Descending)
}

// ParkRank returns a rank out of reach of a collection of n records, never lower than floor.
func ParkRank(n, floor int) int {
	if n+ParkOffset > floor {
		return n + ParkOffset
	}
	return floor
}

// Contiguous reports whether the ranks of recs are exactly 1..len(recs).
func Contiguous(recs []Record) bool {
	for i, r := range Sorted(recs) {
		if r.RecordRank() != i+1 {
			return false
		}
	}
	return true
}

// Apply issues moves one at a time, in order, stopping at the first failure.
// It returns how many moves were applied.
func Apply(ctx context.Context, moves []Move, write Writer) (int, error) {
	for i, mv := range moves {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if err := write(ctx, mv); err != nil {
			return i, errors.Wrapf(err, "moving %s", mv)
		}
	}
	return len(moves), nil
}
