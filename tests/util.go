package testutil

import (
	"context"
	"testing"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/clubsite/clubsite/core"
	"github.com/clubsite/clubsite/core/card"
)

func Config() *core.Config {
	return &core.Config{
		Env:       "TEST",
		AppName:   "ClubSite",
		Debug:     true,
		TestMode:  true,
		SecretKey: "test-secret",
		API:       core.APIConfig{Timeout: 5 * time.Second},
		Server: core.ServerConfig{
			Host:            "localhost",
			JWTExpiration:   time.Hour,
			ShutdownTimeout: time.Second,
		},
		Cards: core.CardsConfig{ParkRank: 9999},
	}
}

func Validator() (*validator.Validate, ut.Translator) {
	translator := core.NewTranslator()
	return core.NewValidator(translator), translator
}

// CreateCards writes one card per name straight into repo, at ranks ranks[i] (i+1 when ranks is short).
func CreateCards(t *testing.T, repo card.Repository, names []string, ranks ...int) []card.Card {
	cards := make([]card.Card, 0, len(names))
	for i, name := range names {
		r := i + 1
		if i < len(ranks) {
			r = ranks[i]
		}
		c, err := repo.CreateCard(context.Background(), card.Card{
			Position:     "Officer",
			DisplayName:  name,
			DisplayOrder: r,
		})
		if err != nil {
			t.Fatalf("CreateCards() failed: %v", err)
		}
		cards = append(cards, c)
	}
	return cards
}

// Names lists the display names of cards, in their given order.
func Names(cards []card.Card) []string {
	names := make([]string, 0, len(cards))
	for _, c := range cards {
		names = append(names, c.DisplayName)
	}
	return names
}

// Ranks lists the display orders of cards, in their given order.
func Ranks(cards []card.Card) []int {
	ranks := make([]int, 0, len(cards))
	for _, c := range cards {
		ranks = append(ranks, c.DisplayOrder)
	}
	return ranks
}
