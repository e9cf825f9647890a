package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/guilherme-santos/tabcalendar/calendar"
	"github.com/guilherme-santos/tabcalendar/internal"
	"github.com/guilherme-santos/tabcalendar/internal/exporter"
)

var ExportCommand = _exportCommand{
	Name:        "export",
	Description: "Export the events of a tab to a Google calendar",
}

type _exportCommand struct {
	Name        string
	Description string
}

func (s _exportCommand) Run(ctx context.Context, args []string) error {
	var (
		email       string
		tabName     string
		containerID int64
		account     string
		calendarID  string
		name        string
		credFile    string
		skipCleanup bool
	)

	fs := newFlagSet(s.Name)
	fs.StringVar(&email, "email", "", "owner of the events")
	fs.StringVar(&tabName, "tab", internal.MainTab.String(), "tab kind, main or sub")
	fs.Int64Var(&containerID, "id", 0, "id of the main or sub tab")
	fs.StringVar(&account, "account", "", "google account configured with the configure command")
	fs.StringVar(&calendarID, "calendar", "primary", "google calendar id to export to")
	fs.StringVar(&name, "name", "", "prefix events with [name]")
	fs.StringVar(&credFile, "google-cred", getEnv("GOOGLE_CREDENTIALS", "credentials.json"), "credentials file for google")
	fs.BoolVar(&skipCleanup, "skip-cleanup", false, "keep exported copies of deleted events")
	if err := fs.Parse(args); err != nil {
		return err
	}

	tab, ok := internal.ParseTab(tabName)
	if !ok {
		return fmt.Errorf("unknown tab %q, expected main or sub", tabName)
	}
	if email == "" || account == "" || containerID <= 0 {
		return fmt.Errorf("-email, -account and -id are required")
	}

	storage, closeDB, err := openStorage()
	if err != nil {
		return err
	}
	defer closeDB()

	userID, err := storage.UserIDByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("resolving %s: %v", email, err)
	}
	acc, err := storage.Account(ctx, googleProvider+"/"+account)
	if err != nil {
		return fmt.Errorf("loading account %s: %v (run configure first)", account, err)
	}

	googleCal, err := newGoogleClient(credFile)
	if err != nil {
		return err
	}
	mux := calendar.NewMux()
	mux.Register(googleProvider, googleCal)

	exp := exporter.New(flag.CommandLine.Output(), mux, storage)
	exp.SkipCleanup = skipCleanup

	return exp.Export(ctx, userID, tab, containerID, &internal.Target{
		Name:       name,
		ProviderID: calendarID,
		Account:    *acc,
	})
}
