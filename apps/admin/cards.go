package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/clubsite/clubsite/core/card"
)

func (cli *commandLine) list() error {
	cards, err := cli.svc.Refresh(context.Background())
	if err != nil {
		return err
	}
	if len(cards) == 0 {
		cli.printf("no cards yet\n")
		return nil
	}
	for _, c := range cards {
		cli.printf("%4d  %-24s %-20s #%d\n", c.DisplayOrder, c.DisplayName, c.Position, c.ID)
	}
	cli.printf("next: %d\n", cli.svc.NextRank())
	return nil
}

func (cli *commandLine) create(nc card.NewCard) error {
	_, err := cli.svc.Create(context.Background(), nc)
	return err
}

// edit rewrites card id with its current values changed by apply.
func (cli *commandLine) edit(id int, apply func(uc *card.UpdateCard)) error {
	ctx := context.Background()
	if _, err := cli.svc.Refresh(ctx); err != nil {
		return err
	}
	var current *card.Card
	for _, c := range cli.svc.Cards() {
		if c.ID == id {
			c := c
			current = &c
			break
		}
	}
	if current == nil {
		return errors.Wrapf(card.ErrNotFound, "card #%d", id)
	}

	uc := card.UpdateFrom(*current)
	apply(&uc)
	_, err := cli.svc.Update(ctx, id, uc)
	return err
}

func (cli *commandLine) delete(id int) error {
	ctx := context.Background()
	if _, err := cli.svc.Refresh(ctx); err != nil {
		return err
	}
	return cli.svc.Delete(ctx, id)
}

func (cli *commandLine) normalize() error {
	_, err := cli.svc.Normalize(context.Background())
	return err
}

// plan prints the writes placing card id (a new card if zero) at rank order, then the resulting order.
func (cli *commandLine) plan(id, order int) error {
	ctx := context.Background()
	if _, err := cli.svc.Refresh(ctx); err != nil {
		return err
	}
	p, err := cli.svc.Plan(ctx, id, order)
	if err != nil {
		return err
	}

	cli.printf("slot: %d\n", p.Slot)
	if len(p.Moves) == 0 {
		cli.printf("no card moves\n")
	}
	for i, mv := range p.Moves {
		cli.printf("%3d. %s\n", i+1, mv)
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        orderLines(p.Before),
		B:        orderLines(p.After),
		FromFile: "current",
		ToFile:   "planned",
		Context:  3,
	})
	if err != nil {
		return errors.Wrap(err, "diffing orders")
	}
	cli.printf("%s", diff)
	return nil
}

func orderLines(cards []card.Card) []string {
	lines := make([]string, 0, len(cards))
	for _, c := range cards {
		lines = append(lines, fmt.Sprintf("%d. %s (%s)\n", c.DisplayOrder, c.String(), c.Position))
	}
	return lines
}

func (cli *commandLine) members() error {
	members := cli.svc.ActiveMembers(context.Background())
	if len(members) == 0 {
		cli.printf("no active members\n")
		return nil
	}
	for _, m := range members {
		cli.printf("%4d  %s\n", m.ID, m.EnglishName)
	}
	return nil
}
