package main

import (
	"log"
	"os"

	"github.com/clubsite/clubsite/core"
	"github.com/clubsite/clubsite/core/card"
	logsvc "github.com/clubsite/clubsite/services/logger"
	notifysvc "github.com/clubsite/clubsite/services/notify"
	"github.com/clubsite/clubsite/storage/remote"
)

func main() {
	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stderr, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	client := remote.NewClient(conf, logger)
	translator := core.NewTranslator()

	// start CLI
	cli := commandLine{
		conf: conf,
		out:  os.Stdout,
		svc: card.NewService(card.ServiceDeps{
			Repo:       client,
			Members:    client,
			Notifier:   notifysvc.NewConsoleService(os.Stdout),
			Logger:     logger,
			Validate:   core.NewValidator(translator),
			Translator: translator,
			ParkRank:   conf.Cards.ParkRank,
		}),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error("admin command failed", err)
		}
		os.Exit(1)
	}
}
