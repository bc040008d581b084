package echoapi

import (
	"net/http"
	"sort"
	"strconv"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/clubsite/clubsite/core"
	"github.com/clubsite/clubsite/core/card"
)

type cardApi struct {
	repo       card.Repository
	members    card.MemberRepository
	validate   *validator.Validate
	translator ut.Translator
}

// cardPayload is the card sent by the admin page; the whole record on update.
type cardPayload struct {
	Position     string  `json:"position" validate:"required"`
	DisplayName  string  `json:"display_name" validate:"required"`
	Description  *string `json:"description"`
	MemberID     *int    `json:"member_id" validate:"omitempty,min=1"`
	DisplayOrder int     `json:"display_order" validate:"min=0"`
}

func (p *cardPayload) validateAndClean(validate *validator.Validate, translator ut.Translator) error {
	p.Position = core.CleanString(p.Position)
	p.DisplayName = core.CleanString(p.DisplayName)
	if p.Description != nil {
		p.Description = core.NullString(*p.Description)
	}
	return core.ValidateStruct(validate, translator, p)
}

func (p cardPayload) card(id int) card.Card {
	return card.Card{
		ID:           id,
		Position:     p.Position,
		DisplayName:  p.DisplayName,
		Description:  p.Description,
		MemberID:     p.MemberID,
		DisplayOrder: p.DisplayOrder,
	}
}

func registerCardAPI(g *echo.Group, guards []echo.MiddlewareFunc, deps ServerDeps) {
	api := cardApi{
		repo:       deps.CardRepo,
		members:    deps.MemberRepo,
		validate:   deps.Validate,
		translator: deps.Translator,
	}

	// public
	g.GET("/admin-cards", api.query)

	// admin page
	ag := g.Group("/adminpage", guards...)
	ag.POST("/admin-cards", api.create)
	ag.PUT("/admin-cards/:id", api.update)
	ag.DELETE("/admin-cards/:id", api.destroy)
	ag.GET("/members_list", api.queryMembers)
}

// Handlers

func (api *cardApi) query(ctx echo.Context) error {
	cards, err := api.repo.ListCards(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing cards")
	}
	sort.SliceStable(cards, func(i, j int) bool { return cards[i].DisplayOrder < cards[j].DisplayOrder })
	return ctx.JSON(http.StatusOK, echo.Map{"cards": cards})
}

func (api *cardApi) create(ctx echo.Context) error {
	var data cardPayload
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to cardPayload")
	}
	if err := data.validateAndClean(api.validate, api.translator); err != nil {
		return err
	}

	c, err := api.repo.CreateCard(ctx.Request().Context(), data.card(0))
	if err != nil {
		return errors.Wrap(err, "creating card")
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"card": c})
}

func (api *cardApi) update(ctx echo.Context) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}
	var data cardPayload
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to cardPayload")
	}
	if err = data.validateAndClean(api.validate, api.translator); err != nil {
		return err
	}

	c, err := api.repo.UpdateCard(ctx.Request().Context(), data.card(id))
	if err != nil {
		return errors.Wrapf(err, "updating card #%d", id)
	}
	return ctx.JSON(http.StatusOK, echo.Map{"card": c})
}

func (api *cardApi) destroy(ctx echo.Context) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}
	if err = api.repo.DeleteCard(ctx.Request().Context(), id); err != nil {
		return errors.Wrapf(err, "deleting card #%d", id)
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *cardApi) queryMembers(ctx echo.Context) error {
	members := make([]card.Member, 0)
	if api.members != nil {
		var err error
		if members, err = api.members.ListMembers(ctx.Request().Context()); err != nil {
			return errors.Wrap(err, "listing members")
		}
	}
	return ctx.JSON(http.StatusOK, echo.Map{"members": members})
}

func paramID(ctx echo.Context) (int, error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || id < 1 {
		return 0, errInvalidID
	}
	return id, nil
}
