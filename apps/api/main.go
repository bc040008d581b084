package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	echoapi "github.com/clubsite/clubsite/apps/api/echo"
	"github.com/clubsite/clubsite/core"
	"github.com/clubsite/clubsite/core/card"
	logsvc "github.com/clubsite/clubsite/services/logger"
	inmemdb "github.com/clubsite/clubsite/storage/inmem"
)

func main() {
	seed := flag.Bool("seed", false, "load demo cards and members")
	flag.Parse()

	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	db, err := inmemdb.Open()
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening store: %v", err), err)
	}
	cardRepo := inmemdb.NewCardRepository(db)
	memberRepo := inmemdb.NewMemberRepository(db)
	if *seed {
		if err = seedDemo(cardRepo, memberRepo); err != nil {
			logger.Fatal(fmt.Sprintf("seeding store: %v", err), err)
		}
	}

	translator := core.NewTranslator()
	validate := core.NewValidator(translator)

	// =========================================================================
	// Start API Service

	logger.Info(fmt.Sprintf("Dev backend initializing : version %q on %s", conf.Build, conf.Server.Address))
	defer logger.Info("Dev backend stopped")

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:       conf,
			Logger:     logger,
			CardRepo:   cardRepo,
			MemberRepo: memberRepo,
			Validate:   validate,
			Translator: translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

// seedDemo loads a few cards, some with legacy gaps so that normalize has work to do.
func seedDemo(cards card.Repository, members *inmemdb.MemberRepository) error {
	ctx := context.Background()
	demo := []struct {
		position, name string
		member, order  int
	}{
		{"President", "Jane Kim", 1, 1},
		{"Vice President", "Min-jun Park", 2, 2},
		{"Treasurer", "Alex Chen", 3, 4},
		{"Secretary", "Sam Lee", 0, 7},
	}
	for _, d := range demo {
		c := card.Card{Position: d.position, DisplayName: d.name, DisplayOrder: d.order}
		if d.member > 0 {
			m, err := members.AddMember(ctx, card.Member{ID: d.member, EnglishName: d.name, IsActive: true})
			if err != nil {
				return err
			}
			c.MemberID = &m.ID
		}
		if _, err := cards.CreateCard(ctx, c); err != nil {
			return err
		}
	}
	_, err := members.AddMember(ctx, card.Member{ID: 9, EnglishName: "Former Member"})
	return err
}
