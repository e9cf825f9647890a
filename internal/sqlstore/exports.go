package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/guilherme-santos/tabcalendar/internal"
)

func (s Storage) AddAccount(ctx context.Context, account *internal.Account) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (id, auth) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET auth = excluded.auth
	`, account.ID(), account.Auth)
	return err
}

func (s Storage) Account(ctx context.Context, id string) (*internal.Account, error) {
	var auth string
	err := s.db.GetContext(ctx, &auth, `SELECT auth FROM accounts WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, internal.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}

	acc := internal.Account{Auth: auth}
	acc.Platform, acc.Name, _ = strings.Cut(id, "/")
	return &acc, nil
}

func (s Storage) ExportedEventID(ctx context.Context, target *internal.Target, eventID int64) (string, error) {
	var providerID string
	err := s.db.GetContext(ctx, &providerID, `
		SELECT provider_id
		FROM calendar_exports
		WHERE target_id = $1 AND event_id = $2
	`, target.ID(), eventID)
	if errors.Is(err, sql.ErrNoRows) {
		err = nil
	}
	return providerID, err
}

func (s Storage) SaveExportedEvent(ctx context.Context, target *internal.Target, eventID int64, providerID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO calendar_exports (target_id, event_id, provider_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (target_id, event_id) DO UPDATE SET provider_id = excluded.provider_id
	`, target.ID(), eventID, providerID)
	return err
}

func (s Storage) DeleteExportedEvent(ctx context.Context, target *internal.Target, eventID int64) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM calendar_exports WHERE target_id = $1 AND event_id = $2
	`, target.ID(), eventID)
	return err
}

// OrphanedExports returns, keyed by event id, the provider ids of exported
// events whose calendar row is gone.
func (s Storage) OrphanedExports(ctx context.Context, target *internal.Target) (map[int64]string, error) {
	var rows []exportedEvent
	err := s.db.SelectContext(ctx, &rows, `
		SELECT x.event_id, x.provider_id
		FROM calendar_exports x
		LEFT JOIN calendar c ON c.id = x.event_id
		WHERE x.target_id = $1 AND c.id IS NULL
	`, target.ID())
	if err != nil {
		return nil, err
	}

	res := make(map[int64]string, len(rows))
	for _, r := range rows {
		res[r.EventID] = r.ProviderID
	}
	return res, nil
}
