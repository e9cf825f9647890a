package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/guilherme-santos/tabcalendar/internal"
)

const CallbackPath = "/tabcalendar"

type Client struct {
	oauthCfg *oauth2.Config

	Output  io.Writer
	Verbose bool
}

func NewClient(credJSON []byte) (*Client, error) {
	oauthCfg, err := google.ConfigFromJSON(credJSON, calendar.CalendarEventsScope)
	if err != nil {
		return nil, fmt.Errorf("google: parsing credentials file: %v", err)
	}

	return &Client{
		oauthCfg: oauthCfg,
		Output:   os.Stdout,
	}, nil
}

const defaultSleep = 5 * time.Second

func (c Client) CreateEvent(ctx context.Context, target *internal.Target, req *internal.Event) (string, error) {
	msg := fmt.Sprintf("creating event: %q on %s... ", req.Name, req.Date)
	defer func() {
		c.logf(target, "%s", msg)
	}()

	svc, err := c.calendarSvc(ctx, target)
	if err != nil {
		msg += "❌"
		return "", err
	}

	for {
		gevent, err := svc.Events.Insert(target.ProviderID, newGoogleEvent(prefix(target), req)).Context(ctx).Do()
		if err == nil {
			msg += "✅"
			return gevent.Id, nil
		}
		if shouldRetry(err) {
			if err := sleep(ctx); err != nil {
				return "", err
			}
			continue
		}
		msg += "❌"
		return "", err
	}
}

func (c Client) UpdateEvent(ctx context.Context, target *internal.Target, providerID string, req *internal.Event) error {
	msg := fmt.Sprintf("updating event: %q on %s... ", req.Name, req.Date)
	defer func() {
		c.logf(target, "%s", msg)
	}()

	svc, err := c.calendarSvc(ctx, target)
	if err != nil {
		msg += "❌"
		return err
	}

	for {
		_, err := svc.Events.Update(target.ProviderID, providerID, newGoogleEvent(prefix(target), req)).Context(ctx).Do()
		if err == nil {
			msg += "✅"
			return nil
		}
		if shouldRetry(err) {
			if err := sleep(ctx); err != nil {
				return err
			}
			continue
		}
		msg += "❌"
		return err
	}
}

func (c Client) DeleteEvent(ctx context.Context, target *internal.Target, providerID string) error {
	msg := fmt.Sprintf("deleting event %s... ", providerID)
	defer func() {
		c.logf(target, "%s", msg)
	}()

	svc, err := c.calendarSvc(ctx, target)
	if err != nil {
		msg += "❌"
		return err
	}
	for {
		err = svc.Events.Delete(target.ProviderID, providerID).Context(ctx).Do()
		if err == nil || alreadyDeleted(err) {
			msg += "✅"
			return nil
		}
		if shouldRetry(err) {
			if err := sleep(ctx); err != nil {
				return err
			}
			continue
		}
		msg += "❌"
		return err
	}
}

// Login runs the OAuth consent flow, serving the redirect on addr. The
// credentials file must list http://<addr>/tabcalendar as redirect URL.
func (c Client) Login(ctx context.Context, addr string, showURL func(authURL string)) (*oauth2.Token, error) {
	state := fmt.Sprintf("tabcalendar-%d", time.Now().UTC().UnixNano())
	authURL := c.oauthCfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	showURL(authURL)

	mux := http.NewServeMux()
	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	var (
		token   *oauth2.Token
		authErr error
	)

	mux.HandleFunc(CallbackPath, func(w http.ResponseWriter, req *http.Request) {
		defer func() {
			go server.Shutdown(context.Background())
		}()

		query := req.URL.Query()
		if query.Get("state") != state {
			authErr = errors.New("oauth link is not valid")
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		token, authErr = c.oauthCfg.Exchange(ctx, query.Get("code"))
		if authErr != nil {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintln(w, "Unable to retrieve token:", authErr)
			return
		}

		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "All good, you can close this window!")
	})

	go func() {
		<-ctx.Done()
		server.Shutdown(context.Background())
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return nil, err
	}
	if err := ctx.Err(); err != nil && token == nil {
		return nil, err
	}
	if authErr != nil {
		return nil, authErr
	}
	return token, nil
}

func (c Client) calendarSvc(ctx context.Context, target *internal.Target) (*calendar.Service, error) {
	var tok *oauth2.Token
	err := json.Unmarshal([]byte(target.Account.Auth), &tok)
	if err != nil {
		return nil, fmt.Errorf("google: decoding token of %s: %v", target.Account.ID(), err)
	}
	httpClient := c.oauthCfg.Client(ctx, tok)
	return calendar.NewService(ctx, option.WithHTTPClient(httpClient))
}

func (c Client) logf(target *internal.Target, format string, a ...any) {
	if c.Verbose {
		internal.Logf(c.Output, "google:", target, format, a...)
	}
}

func prefix(target *internal.Target) string {
	if target.Name == "" {
		return ""
	}
	return fmt.Sprintf("[%s] ", target.Name)
}

func sleep(ctx context.Context) error {
	select {
	case <-time.After(defaultSleep):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func shouldRetry(err error) bool {
	return errIsReason(err, "rateLimitExceeded")
}

func alreadyDeleted(err error) bool {
	return errIsReason(err, "deleted")
}

func errIsReason(err error, reason string) bool {
	var gErr *googleapi.Error
	if !errors.As(err, &gErr) {
		return false
	}

	for _, err := range gErr.Errors {
		switch err.Reason {
		case reason:
			return true
		}
	}
	return false
}
