package inmemdb

import (
	"sync"

	"github.com/clubsite/clubsite/core/card"
)

type (
	DB struct {
		card   *cardTable
		member *memberTable
	}

	cardTable struct {
		sync.RWMutex
		table map[int]*card.Card
		pk    int

		ops    []Op
		lists  int
		writes int
		failAt int // fail the write with this 1-based index, 0 = never
		fault  error
	}

	memberTable struct {
		sync.RWMutex
		table map[int]*card.Member
	}
)

func Open() (*DB, error) {
	db := &DB{
		card:   &cardTable{table: make(map[int]*card.Card)},
		member: &memberTable{table: make(map[int]*card.Member)},
	}
	return db, nil
}
