package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"go.mcproto.dev/mcproto/pkg/yggdrasil"
)

func yggdrasilCommand() *cli.Command {
	return &cli.Command{
		Name:  "yggdrasil",
		Usage: "exercise the Yggdrasil authentication API",
		Subcommands: []*cli.Command{
			yggdrasilAuthenticateCommand(),
			yggdrasilValidateCommand(),
		},
	}
}

func yggdrasilAuthenticateCommand() *cli.Command {
	return &cli.Command{
		Name:  "authenticate",
		Usage: "log in with a Mojang username and password",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Required: true},
			&cli.StringFlag{Name: "password", Required: true},
			&cli.StringFlag{Name: "base-url", Usage: "overrides " + yggdrasil.DefaultBaseURL},
			&cli.BoolFlag{Name: "request-user"},
		},
		Action: func(c *cli.Context) error {
			client := yggdrasil.New(yggdrasil.Options{BaseURL: c.String("base-url")})
			resp, err := client.Authenticate(c.Context, yggdrasil.AuthenticateRequest{
				Username:    c.String("username"),
				Password:    c.String("password"),
				RequestUser: c.Bool("request-user"),
			})
			if err != nil {
				return cli.Exit(fmt.Errorf("authentication failed: %w", err), 1)
			}
			fmt.Printf("access token: %s\n", resp.AccessToken)
			if resp.SelectedProfile != nil {
				fmt.Printf("selected profile: %s (%s)\n", resp.SelectedProfile.Name, resp.SelectedProfile.ID)
			}
			return nil
		},
	}
}

func yggdrasilValidateCommand() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "check whether an access token is still usable",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "access-token", Required: true},
			&cli.StringFlag{Name: "base-url", Usage: "overrides " + yggdrasil.DefaultBaseURL},
		},
		Action: func(c *cli.Context) error {
			client := yggdrasil.New(yggdrasil.Options{BaseURL: c.String("base-url")})
			ok, err := client.Validate(c.Context, yggdrasil.ValidateRequest{AccessToken: c.String("access-token")})
			if err != nil {
				return cli.Exit(fmt.Errorf("validate request failed: %w", err), 1)
			}
			if ok {
				fmt.Println("token is valid")
			} else {
				fmt.Println("token is invalid")
			}
			return nil
		},
	}
}
