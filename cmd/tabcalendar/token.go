package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/guilherme-santos/tabcalendar/internal/httpapi"
)

var TokenCommand = _tokenCommand{
	Name:        "token",
	Description: "Issue a bearer token for a user (development)",
}

type _tokenCommand struct {
	Name        string
	Description string
}

func (s _tokenCommand) Run(ctx context.Context, args []string) error {
	var (
		email     string
		jwtSecret string
		ttl       time.Duration
	)

	fs := newFlagSet(s.Name)
	fs.StringVar(&email, "email", "", "email of the user")
	fs.StringVar(&jwtSecret, "jwt-secret", getEnv("JWT_SECRET", ""), "secret used to sign the token")
	fs.DurationVar(&ttl, "ttl", 24*time.Hour, "how long the token is valid")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if email == "" || jwtSecret == "" {
		return fmt.Errorf("-email and -jwt-secret are required")
	}

	token, err := httpapi.GenerateJWT(jwtSecret, email, ttl)
	if err != nil {
		return err
	}
	fmt.Fprintln(flag.CommandLine.Output(), token)
	return nil
}
