package main

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"golang.org/x/term"

	"github.com/clubsite/clubsite/core"
	"github.com/clubsite/clubsite/core/card"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf *core.Config
	svc  *card.Service
	out  io.Writer
}

func (cli *commandLine) printUsage() {
	cli.printf("Usage:\n")
	cli.printf("  list                                          - list the cards by rank\n")
	cli.printf("  create -position P -name N [-description D] [-member M] [-order K]\n")
	cli.printf("                                                - add a card at rank K (last if omitted)\n")
	cli.printf("  edit -id I [-position P] [-name N] [-description D] [-member M] [-order K]\n")
	cli.printf("                                                - rewrite a card, moving it to rank K\n")
	cli.printf("  delete -id I                                  - remove a card and close the gap\n")
	cli.printf("  normalize                                     - renumber the cards 1..N\n")
	cli.printf("  plan [-id I] -order K                         - show the writes a placement would issue\n")
	cli.printf("  members                                       - list the members a card can link to\n")
	cli.printf("  token -subject S [-username U]                - mint an admin JWT for the dev backend\n")
}

func (cli *commandLine) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(cli.out, format, args...)
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	listCmd := flag.NewFlagSet("list", flag.ExitOnError)

	createCmd := flag.NewFlagSet("create", flag.ExitOnError)
	createPosition := createCmd.String("position", "", "The position held, e.g. President.")
	createName := createCmd.String("name", "", "The name displayed on the card.")
	createDesc := createCmd.String("description", "", "An optional short bio.")
	createMember := createCmd.Int("member", 0, "The ID of the member linked to the card, if any.")
	createOrder := createCmd.Int("order", 0, "The wanted rank; last if omitted.")

	editCmd := flag.NewFlagSet("edit", flag.ExitOnError)
	editID := editCmd.Int("id", 0, "The card's ID.")
	editPosition := editCmd.String("position", "", "The new position.")
	editName := editCmd.String("name", "", "The new displayed name.")
	editDesc := editCmd.String("description", "", "The new bio; empty clears it.")
	editMember := editCmd.Int("member", 0, "The new linked member; 0 unlinks it.")
	editOrder := editCmd.Int("order", 0, "The new rank.")

	deleteCmd := flag.NewFlagSet("delete", flag.ExitOnError)
	deleteID := deleteCmd.Int("id", 0, "The card's ID.")

	normalizeCmd := flag.NewFlagSet("normalize", flag.ExitOnError)

	planCmd := flag.NewFlagSet("plan", flag.ExitOnError)
	planID := planCmd.Int("id", 0, "The card's ID; omit for a new card.")
	planOrder := planCmd.Int("order", 0, "The wanted rank; last if omitted.")

	membersCmd := flag.NewFlagSet("members", flag.ExitOnError)

	tokenCmd := flag.NewFlagSet("token", flag.ExitOnError)
	tokenSubject := tokenCmd.String("subject", "", "The admin's ID.")
	tokenUsername := tokenCmd.String("username", "", "The admin's username.")

	switch args[1] {
	case "list":
		if err := listCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.list()

	case "create":
		if err := createCmd.Parse(args[2:]); err != nil {
			return err
		}
		nc := card.NewCard{
			Position:     *createPosition,
			DisplayName:  *createName,
			Description:  *createDesc,
			MemberID:     optionalID(*createMember),
			DisplayOrder: *createOrder,
		}
		return cli.create(nc)

	case "edit":
		if err := editCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *editID <= 0 {
			editCmd.Usage()
			return errHelp
		}
		set := setFlags(editCmd)
		return cli.edit(*editID, func(uc *card.UpdateCard) {
			if set["position"] {
				uc.Position = *editPosition
			}
			if set["name"] {
				uc.DisplayName = *editName
			}
			if set["description"] {
				uc.Description = *editDesc
			}
			if set["member"] {
				uc.MemberID = optionalID(*editMember)
			}
			if set["order"] {
				uc.DisplayOrder = *editOrder
			}
		})

	case "delete":
		if err := deleteCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *deleteID <= 0 {
			deleteCmd.Usage()
			return errHelp
		}
		return cli.delete(*deleteID)

	case "normalize":
		if err := normalizeCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.normalize()

	case "plan":
		if err := planCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.plan(*planID, *planOrder)

	case "members":
		if err := membersCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.members()

	case "token":
		if err := tokenCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *tokenSubject == "" {
			tokenCmd.Usage()
			return errHelp
		}
		return cli.token(*tokenSubject, *tokenUsername)

	default:
		cli.printUsage()
		return errHelp
	}
}

// setFlags returns the names of the flags given on the command line.
func setFlags(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

func optionalID(id int) *int {
	if id == 0 {
		return nil
	}
	return &id
}
