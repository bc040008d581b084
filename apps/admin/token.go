package main

import (
	"syscall"

	echoapi "github.com/clubsite/clubsite/apps/api/echo"
)

// token prints a JWT accepted by the dev backend's admin page routes.
func (cli *commandLine) token(subject, username string) error {
	conf := *cli.conf
	if conf.SecretKey == "" {
		cli.printf("Enter secret key:")
		secret, err := readPasswordFunc(int(syscall.Stdin))
		cli.printf("\n")
		if err != nil {
			return err
		}
		if len(secret) == 0 {
			return errHelp
		}
		conf.SecretKey = string(secret)
	}

	token, err := echoapi.GenerateToken(&conf, echoapi.NewClaims(&conf, subject, username))
	if err != nil {
		return err
	}
	cli.printf("%s\n", token)
	return nil
}
