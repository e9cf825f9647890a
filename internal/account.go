package internal

import "context"

type Account struct {
	Platform string
	Name     string
	Auth     string
}

func (a Account) ID() string {
	return a.Platform + "/" + a.Name
}

// Target is a calendar on an external provider that events get exported to.
type Target struct {
	Name       string
	ProviderID string
	Account    Account
}

func (t Target) ID() string {
	return t.Account.ID() + "/" + t.ProviderID
}

func (t Target) String() string {
	return t.ID()
}

type Mux interface {
	Get(platform string) (Provider, error)
}

type Provider interface {
	CreateEvent(_ context.Context, _ *Target, _ *Event) (providerID string, _ error)
	UpdateEvent(_ context.Context, _ *Target, providerID string, _ *Event) error
	DeleteEvent(_ context.Context, _ *Target, providerID string) error
}
