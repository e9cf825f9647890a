package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/guilherme-santos/tabcalendar/calendar/google"
	"github.com/guilherme-santos/tabcalendar/internal"
)

const googleProvider = "google"

var ConfigureCommand = _configureCommand{
	Name:        "configure",
	Description: "Give access to a Google calendar account",
}

type _configureCommand struct {
	Name        string
	Description string
}

func (s _configureCommand) Run(ctx context.Context, args []string) error {
	var (
		account  string
		credFile string
		listenOn string
	)

	fs := newFlagSet(s.Name)
	fs.StringVar(&account, "account", "", "google account (e-mail) to authorize")
	fs.StringVar(&credFile, "google-cred", getEnv("GOOGLE_CREDENTIALS", "credentials.json"), "credentials file for google")
	fs.StringVar(&listenOn, "listen", "localhost:8080", "address the OAuth redirect is served on")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if account == "" {
		return fmt.Errorf("-account is required")
	}

	storage, closeDB, err := openStorage()
	if err != nil {
		return err
	}
	defer closeDB()

	googleCal, err := newGoogleClient(credFile)
	if err != nil {
		return err
	}

	w := flag.CommandLine.Output()

	authToken, err := googleCal.Login(ctx, listenOn, func(authURL string) {
		fmt.Fprintf(w, "Go to the following link in your browser\n%s\n", authURL)
	})
	if err != nil {
		return fmt.Errorf("google: logging in: %v", err)
	}

	auth, err := json.Marshal(authToken)
	if err != nil {
		return err
	}
	acc := internal.Account{
		Platform: googleProvider,
		Name:     account,
		Auth:     string(auth),
	}
	fmt.Fprintf(w, "Saving account %q for %q provider...\n", acc.Name, acc.Platform)
	err = storage.AddAccount(ctx, &acc)
	if err != nil {
		return fmt.Errorf("saving account: %v", err)
	}
	return nil
}

func newGoogleClient(credFile string) (*google.Client, error) {
	credJSON, err := os.ReadFile(credFile)
	if err != nil {
		return nil, fmt.Errorf("reading credentials file: %v", err)
	}
	googleCal, err := google.NewClient(credJSON)
	if err != nil {
		return nil, fmt.Errorf("creating client: %v", err)
	}
	googleCal.Output = flag.CommandLine.Output()
	googleCal.Verbose = cfg.Verbose
	return googleCal, nil
}
