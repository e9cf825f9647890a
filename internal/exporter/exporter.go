package exporter

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/guilherme-santos/tabcalendar/internal"
)

var ErrExporting = errors.New("an error occurred while exporting, check the logs")

type (
	Mux    = internal.Mux
	Target = internal.Target
	Event  = internal.Event
)

type Storage interface {
	ListEvents(_ context.Context, _ internal.Tab, containerID, userID int64) ([]*Event, error)

	ExportedEventID(_ context.Context, _ *Target, eventID int64) (string, error)
	SaveExportedEvent(_ context.Context, _ *Target, eventID int64, providerID string) error
	DeleteExportedEvent(_ context.Context, _ *Target, eventID int64) error
	OrphanedExports(_ context.Context, _ *Target) (map[int64]string, error)
}

type Exporter struct {
	output  io.Writer
	mux     Mux
	storage Storage

	// SkipCleanup leaves provider copies of deleted events in place.
	SkipCleanup bool
}

func New(output io.Writer, providers Mux, storage Storage) *Exporter {
	if output == nil {
		output = os.Stdout
	}
	return &Exporter{
		output:  output,
		mux:     providers,
		storage: storage,
	}
}

// Export pushes every event of the tab container to target. Events exported
// before are updated in place.
func (e Exporter) Export(ctx context.Context, userID int64, tab internal.Tab, containerID int64, target *Target) error {
	logf(e.output, target, "Exporting %s tab %d...", tab, containerID)

	provider, err := e.mux.Get(target.Account.Platform)
	if err != nil {
		logf(e.output, target, "Unable to load provider: %v", err)
		return ErrExporting
	}

	events, err := e.storage.ListEvents(ctx, tab, containerID, userID)
	if err != nil {
		logf(e.output, target, "Unable to list events: %v", err)
		return err
	}

	var (
		exported uint64
		foundErr bool
	)
	for _, event := range events {
		if err := ctx.Err(); err != nil {
			return err
		}

		providerID, err := e.storage.ExportedEventID(ctx, target, event.ID)
		if err != nil {
			logf(e.output, target, "Unable to get exported id of event %d: %v", event.ID, err)
			return err
		}

		if providerID == "" {
			err = e.createEvent(ctx, provider, target, event)
		} else {
			err = e.updateEvent(ctx, provider, target, providerID, event)
		}
		if err != nil {
			foundErr = true
			continue
		}
		exported++
	}

	if !e.SkipCleanup {
		if err := e.cleanup(ctx, provider, target); err != nil {
			foundErr = true
		}
	}

	if foundErr {
		logf(e.output, target, "Export complete with errors, %d event(s) exported", exported)
		return ErrExporting
	}
	if exported == 0 {
		logf(e.output, target, "No events found to be exported")
	} else {
		logf(e.output, target, "%d event(s) exported succesfully", exported)
	}
	return nil
}

func (e Exporter) cleanup(ctx context.Context, provider internal.Provider, target *Target) error {
	orphans, err := e.storage.OrphanedExports(ctx, target)
	if err != nil {
		logf(e.output, target, "Unable to list deleted events: %v", err)
		return err
	}

	var foundErr error
	for eventID, providerID := range orphans {
		logf(e.output, target, "Deleting event %s, removed from the calendar", providerID)

		if err := provider.DeleteEvent(ctx, target, providerID); err != nil {
			logf(e.output, target, "Unable to delete event from provider %s: %v", providerID, err)
			foundErr = err
			continue
		}
		if err := e.storage.DeleteExportedEvent(ctx, target, eventID); err != nil {
			logf(e.output, target, "Unable to delete event from storage %d: %v", eventID, err)
			foundErr = err
		}
	}
	return foundErr
}

func (e Exporter) createEvent(ctx context.Context, provider internal.Provider, target *Target, event *Event) error {
	logf(e.output, target, "Creating event: %q on %s", event.Name, formatDateTime(event.Date))

	providerID, err := provider.CreateEvent(ctx, target, event)
	if err != nil {
		logf(e.output, target, "Unable to create event on the provider: %v", err)
		return err
	}
	logf(e.output, target, "Map event id %d to %s", event.ID, providerID)

	err = e.storage.SaveExportedEvent(ctx, target, event.ID, providerID)
	if err != nil {
		logf(e.output, target, "Unable to save exported event: %v", err)

		// Without the mapping the next export would create it again.
		_ = provider.DeleteEvent(ctx, target, providerID)
		return err
	}
	return nil
}

func (e Exporter) updateEvent(ctx context.Context, provider internal.Provider, target *Target, providerID string, event *Event) error {
	logf(e.output, target, "Updating event %s: %q on %s", providerID, event.Name, formatDateTime(event.Date))

	err := provider.UpdateEvent(ctx, target, providerID, event)
	if err != nil {
		logf(e.output, target, "Unable to update event on the provider %s: %v", providerID, err)
		return err
	}
	return nil
}
