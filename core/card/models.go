package card

import (
	"strconv"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/clubsite/clubsite/core"
	"github.com/clubsite/clubsite/core/rank"
)

// Card is a "Meet Our Admin" card shown on the landing page.
// DisplayOrder is its rank: unique and contiguous (1..N) across all cards at rest.
type Card struct {
	ID           int     `json:"id"`
	Position     string  `json:"position"`
	DisplayName  string  `json:"display_name"`
	Description  *string `json:"description"`
	MemberID     *int    `json:"member_id"`
	DisplayOrder int     `json:"display_order"`
}

var _ rank.Record = Card{}

func (c Card) RecordID() int   { return c.ID }
func (c Card) RecordRank() int { return c.DisplayOrder }

func (c Card) String() string {
	if c.DisplayName != "" {
		return c.DisplayName
	}
	return "#" + strconv.Itoa(c.ID)
}

// Member is a club member a card can be linked to (for the photo).
type Member struct {
	ID          int    `json:"member_id"`
	EnglishName string `json:"english_name"`
	IsActive    bool   `json:"is_active"`
}

// NewCard contains information needed to create a new Card.
type NewCard struct {
	Position    string `json:"position" validate:"required"`
	DisplayName string `json:"display_name" validate:"required"`
	Description string `json:"description"`
	MemberID    *int   `json:"member_id" validate:"omitempty,min=1"`
	// DisplayOrder is the wanted rank; zero places the card last.
	DisplayOrder int `json:"display_order" validate:"min=0"`
}

func (nc *NewCard) Validate(validate *validator.Validate, translator ut.Translator) error {
	nc.Position = core.CleanString(nc.Position)
	nc.DisplayName = core.CleanString(nc.DisplayName)
	nc.Description = core.CleanString(nc.Description)
	return core.ValidateStruct(validate, translator, nc)
}

func (nc NewCard) card() Card {
	return Card{
		Position:     nc.Position,
		DisplayName:  nc.DisplayName,
		Description:  core.NullString(nc.Description),
		MemberID:     nc.MemberID,
		DisplayOrder: nc.DisplayOrder,
	}
}

// UpdateCard defines what information must be provided to modify an existing Card.
// The whole record is rewritten, as the backend has no partial update.
type UpdateCard struct {
	Position     string `json:"position" validate:"required"`
	DisplayName  string `json:"display_name" validate:"required"`
	Description  string `json:"description"`
	MemberID     *int   `json:"member_id" validate:"omitempty,min=1"`
	DisplayOrder int    `json:"display_order" validate:"required,min=1"`
}

// UpdateFrom returns an UpdateCard holding the current values of c.
func UpdateFrom(c Card) UpdateCard {
	uc := UpdateCard{
		Position:     c.Position,
		DisplayName:  c.DisplayName,
		MemberID:     c.MemberID,
		DisplayOrder: c.DisplayOrder,
	}
	if c.Description != nil {
		uc.Description = *c.Description
	}
	return uc
}

func (uc *UpdateCard) Validate(validate *validator.Validate, translator ut.Translator) error {
	uc.Position = core.CleanString(uc.Position)
	uc.DisplayName = core.CleanString(uc.DisplayName)
	uc.Description = core.CleanString(uc.Description)
	return core.ValidateStruct(validate, translator, uc)
}

func (uc UpdateCard) card(id int) Card {
	return Card{
		ID:           id,
		Position:     uc.Position,
		DisplayName:  uc.DisplayName,
		Description:  core.NullString(uc.Description),
		MemberID:     uc.MemberID,
		DisplayOrder: uc.DisplayOrder,
	}
}
