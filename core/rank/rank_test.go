package rank

import (
	"context"
	"fmt"
	"math/rand"
	"reflect"
	"sort"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
)

type rec struct{ id, rank int }

func (r rec) RecordID() int   { return r.id }
func (r rec) RecordRank() int { return r.rank }

func records(pairs ...int) []Record {
	recs := make([]Record, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		recs = append(recs, rec{id: pairs[i], rank: pairs[i+1]})
	}
	return recs
}

// uniqueStore mimics a backend enforcing rank uniqueness on every single write.
type uniqueStore struct {
	ranks  map[int]int // id -> rank
	holder map[int]int // rank -> id
	writes []Move
}

func newUniqueStore(recs []Record) *uniqueStore {
	st := &uniqueStore{ranks: map[int]int{}, holder: map[int]int{}}
	for _, r := range recs {
		st.ranks[r.RecordID()] = r.RecordRank()
		st.holder[r.RecordRank()] = r.RecordID()
	}
	return st
}

func (st *uniqueStore) write(_ context.Context, mv Move) error {
	if id, ok := st.holder[mv.To]; ok && id != mv.ID {
		return fmt.Errorf("rank %d held by #%d", mv.To, id)
	}
	delete(st.holder, st.ranks[mv.ID])
	st.ranks[mv.ID] = mv.To
	st.holder[mv.To] = mv.ID
	st.writes = append(st.writes, mv)
	return nil
}

func (st *uniqueStore) records() []Record {
	recs := make([]Record, 0, len(st.ranks))
	for id, r := range st.ranks {
		recs = append(recs, rec{id: id, rank: r})
	}
	return Sorted(recs)
}

func ids(recs []Record) []int {
	out := make([]int, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.RecordID())
	}
	return out
}

// distinctRanks turns arbitrary bytes into a shuffled collection with distinct ranks >= 0.
func distinctRanks(raw []uint8, rnd *rand.Rand) []Record {
	seen := make(map[int]bool)
	var recs []Record
	for i, b := range raw {
		r := int(b)
		if seen[r] {
			continue
		}
		seen[r] = true
		recs = append(recs, rec{id: i + 1, rank: r})
	}
	rnd.Shuffle(len(recs), func(i, j int) { recs[i], recs[j] = recs[j], recs[i] })
	return recs
}

func TestCompact(t *testing.T) {
	tests := []struct {
		name      string
		recs      []Record
		wantMoves []Move
	}{
		{name: "empty"},
		{name: "contiguous", recs: records(1, 1, 2, 2, 3, 3)},
		{name: "gaps", recs: records(1, 1, 2, 3, 3, 5), wantMoves: []Move{{ID: 2, From: 3, To: 2}, {ID: 3, From: 5, To: 3}}},
		{name: "gaps (shuffled input)", recs: records(3, 5, 1, 1, 2, 3), wantMoves: []Move{{ID: 2, From: 3, To: 2}, {ID: 3, From: 5, To: 3}}},
		{name: "single far away", recs: records(7, 42), wantMoves: []Move{{ID: 7, From: 42, To: 1}}},
		{name: "tail gap", recs: records(1, 1, 2, 2, 3, 10), wantMoves: []Move{{ID: 3, From: 10, To: 3}}},
		{
			name:      "zero based",
			recs:      records(1, 0, 2, 1, 3, 2, 4, 7),
			wantMoves: []Move{{ID: 3, From: 2, To: 3}, {ID: 2, From: 1, To: 2}, {ID: 1, From: 0, To: 1}, {ID: 4, From: 7, To: 4}},
		},
		{name: "duplicates (ties by ID)", recs: records(2, 3, 1, 3), wantMoves: []Move{{ID: 1, From: 3, To: 1}, {ID: 2, From: 3, To: 2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compact(tt.recs); !reflect.DeepEqual(got, tt.wantMoves) && len(got)+len(tt.wantMoves) > 0 {
				t.Errorf("Compact() = %v; want %v", got, tt.wantMoves)
			}
		})
	}
}

func TestOpenSlot(t *testing.T) {
	compacted := records(1, 1, 2, 2, 3, 3)
	tests := []struct {
		name      string
		target    int
		wantSlot  int
		wantMoves []Move
	}{
		{name: "first", target: 1, wantSlot: 1, wantMoves: []Move{{ID: 3, From: 3, To: 4}, {ID: 2, From: 2, To: 3}, {ID: 1, From: 1, To: 2}}},
		{name: "middle", target: 2, wantSlot: 2, wantMoves: []Move{{ID: 3, From: 3, To: 4}, {ID: 2, From: 2, To: 3}}},
		{name: "append", target: 4, wantSlot: 4},
		{name: "clamp high", target: 99, wantSlot: 4},
		{name: "clamp low", target: -3, wantSlot: 1, wantMoves: []Move{{ID: 3, From: 3, To: 4}, {ID: 2, From: 2, To: 3}, {ID: 1, From: 1, To: 2}}},
		{name: "zero means first", target: 0, wantSlot: 1, wantMoves: []Move{{ID: 3, From: 3, To: 4}, {ID: 2, From: 2, To: 3}, {ID: 1, From: 1, To: 2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slot, moves := OpenSlot(compacted, tt.target)
			if slot != tt.wantSlot {
				t.Errorf("OpenSlot() slot = %d; want %d", slot, tt.wantSlot)
			}
			if !reflect.DeepEqual(moves, tt.wantMoves) && len(moves)+len(tt.wantMoves) > 0 {
				t.Errorf("OpenSlot() moves = %v; want %v", moves, tt.wantMoves)
			}
		})
	}
}

func TestOpenSlot_ascendingCollides(t *testing.T) {
	st := newUniqueStore(records(1, 1, 2, 2, 3, 3))
	_, moves := OpenSlot(st.records(), 1)

	if _, err := Apply(context.Background(), Order(moves, Ascending), st.write); err == nil {
		t.Error("Apply() ascending shift error = nil; want a collision")
	}
}

func TestParkRank(t *testing.T) {
	tests := []struct {
		n, floor, want int
	}{
		{n: 0, floor: 9999, want: 9999},
		{n: 5, floor: 9999, want: 9999},
		{n: 9500, floor: 9999, want: 10500},
		{n: 3, floor: 0, want: 1003},
	}
	for _, tt := range tests {
		if got := ParkRank(tt.n, tt.floor); got != tt.want {
			t.Errorf("ParkRank(%d, %d) = %d; want %d", tt.n, tt.floor, got, tt.want)
		}
	}
}

func TestApply(t *testing.T) {
	ctx := context.Background()
	moves := []Move{{ID: 1, From: 3, To: 1}, {ID: 2, From: 5, To: 2}, {ID: 3, From: 9, To: 3}}

	var seen []Move
	failAt := 2
	n, err := Apply(ctx, moves, func(_ context.Context, mv Move) error {
		if len(seen) == failAt {
			return fmt.Errorf("boom")
		}
		seen = append(seen, mv)
		return nil
	})
	if err == nil {
		t.Fatal("Apply() error = nil; want boom")
	}
	assert.Equal(t, 2, n)
	assert.Equal(t, moves[:2], seen)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	n, err = Apply(cancelled, moves, func(context.Context, Move) error { return nil })
	assert.Equal(t, 0, n)
	assert.Equal(t, context.Canceled, err)
}

func TestCompact_properties(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))

	collisionFree := func(raw []uint8) bool {
		recs := distinctRanks(raw, rnd)
		st := newUniqueStore(recs)
		if _, err := Apply(context.Background(), Compact(recs), st.write); err != nil {
			t.Logf("Compact(%v): %v", recs, err)
			return false
		}
		after := st.records()
		// contiguous, same relative order, idempotent
		return Contiguous(after) &&
			reflect.DeepEqual(ids(after), ids(Sorted(recs))) &&
			len(Compact(after)) == 0
	}
	if err := quick.Check(collisionFree, &quick.Config{MaxCount: 500}); err != nil {
		t.Error(err)
	}

	orderInsensitive := func(raw []uint8) bool {
		recs := distinctRanks(raw, rnd)
		shuffled := make([]Record, len(recs))
		copy(shuffled, recs)
		rnd.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		return reflect.DeepEqual(Compact(recs), Compact(shuffled))
	}
	if err := quick.Check(orderInsensitive, &quick.Config{MaxCount: 500}); err != nil {
		t.Error(err)
	}
}

func TestOpenSlot_properties(t *testing.T) {
	rnd := rand.New(rand.NewSource(2))

	f := func(size uint8, target int8) bool {
		n := int(size % 40)
		recs := make([]Record, 0, n)
		for i := 1; i <= n; i++ {
			recs = append(recs, rec{id: 100 + i, rank: i})
		}
		rnd.Shuffle(len(recs), func(i, j int) { recs[i], recs[j] = recs[j], recs[i] })

		st := newUniqueStore(recs)
		slot, moves := OpenSlot(recs, int(target))
		if _, err := Apply(context.Background(), moves, st.write); err != nil {
			t.Logf("OpenSlot(%d, %d): %v", n, target, err)
			return false
		}
		if _, taken := st.holder[slot]; taken {
			return false
		}
		var got []int
		for r := range st.holder {
			got = append(got, r)
		}
		sort.Ints(got)
		want := make([]int, 0, n)
		for r := 1; r <= n+1; r++ {
			if r != slot {
				want = append(want, r)
			}
		}
		return len(moves) == n+1-slot && reflect.DeepEqual(got, want) || (n == 0 && len(got) == 0)
	}
	if err := quick.Check(f, &quick.Config{MaxCount: 500}); err != nil {
		t.Error(err)
	}
}
