package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/guilherme-santos/tabcalendar/internal"
)

const (
	SQLiteDriver   = "sqlite3"
	PostgresDriver = "postgres"
)

// Both drivers understand $n placeholders, so one dialect serves both.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type Storage struct {
	db *sqlx.DB
}

func NewStorage(db *sql.DB, driverName string) *Storage {
	return &Storage{
		db: sqlx.NewDb(db, driverName),
	}
}

func (s Storage) UserIDByEmail(ctx context.Context, email string) (int64, error) {
	var id int64
	err := s.db.GetContext(ctx, &id, `SELECT id FROM users WHERE email = $1`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, internal.ErrUserNotFound
	}
	return id, err
}

func (s Storage) ListMainTabEvents(ctx context.Context, mainID, userID int64) ([]*internal.Event, error) {
	return s.ListEvents(ctx, internal.MainTab, mainID, userID)
}

func (s Storage) ListSubTabEvents(ctx context.Context, subID, userID int64) ([]*internal.Event, error) {
	return s.ListEvents(ctx, internal.SubTab, subID, userID)
}

func (s Storage) ListEvents(ctx context.Context, tab internal.Tab, containerID, userID int64) ([]*internal.Event, error) {
	query, args, err := psql.
		Select(eventColumns).
		From("calendar").
		Where(sq.Eq{tab.Column(): containerID, "user_id": userID}).
		OrderBy("date ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []Event
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	res := make([]*internal.Event, len(rows))
	for i, e := range rows {
		res[i] = e.Convert()
	}
	return res, nil
}

func (s Storage) CreateMainTabEvent(ctx context.Context, userID, mainID int64, e internal.NewEvent) (*internal.Event, error) {
	return s.CreateEvent(ctx, internal.MainTab, userID, mainID, e)
}

func (s Storage) CreateSubTabEvent(ctx context.Context, userID, subID int64, e internal.NewEvent) (*internal.Event, error) {
	return s.CreateEvent(ctx, internal.SubTab, userID, subID, e)
}

func (s Storage) CreateEvent(ctx context.Context, tab internal.Tab, userID, containerID int64, e internal.NewEvent) (*internal.Event, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}

	values := map[string]any{
		"user_id":    userID,
		tab.Column(): containerID,
		"event_name": e.Name,
		"date":       e.Date.UTC(),
		"notes":      toNullString(e.Notes),
	}
	if e.TaskID != nil {
		values["task_id"] = *e.TaskID
	}

	query, args, err := psql.
		Insert("calendar").
		SetMap(values).
		Suffix("RETURNING " + eventColumns).
		ToSql()
	if err != nil {
		return nil, err
	}
	return s.queryEvent(ctx, query, args...)
}

func (s Storage) UpdateEvent(ctx context.Context, eventID, userID int64, u internal.EventUpdate) (*internal.Event, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}

	stmt := psql.Update("calendar")
	if u.Name != nil && *u.Name != "" {
		stmt = stmt.Set("event_name", *u.Name)
	}
	if u.Date != nil && !u.Date.IsZero() {
		stmt = stmt.Set("date", u.Date.UTC())
	}
	query, args, err := stmt.
		Set("notes", toNullString(u.Notes)).
		Set("updated_at", sq.Expr("CURRENT_TIMESTAMP")).
		Where(sq.Eq{"id": eventID, "user_id": userID}).
		Suffix("RETURNING " + eventColumns).
		ToSql()
	if err != nil {
		return nil, err
	}

	e, err := s.queryEvent(ctx, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, s.missingEvent(ctx, eventID)
	}
	return e, err
}

func (s Storage) DeleteEvent(ctx context.Context, eventID, userID int64) (*internal.Event, error) {
	query, args, err := psql.
		Delete("calendar").
		Where(sq.Eq{"id": eventID, "user_id": userID}).
		Suffix("RETURNING " + eventColumns).
		ToSql()
	if err != nil {
		return nil, err
	}

	e, err := s.queryEvent(ctx, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, s.missingEvent(ctx, eventID)
	}
	return e, err
}

func (s Storage) queryEvent(ctx context.Context, query string, args ...any) (*internal.Event, error) {
	var row Event
	if err := s.db.QueryRowxContext(ctx, query, args...).StructScan(&row); err != nil {
		return nil, err
	}
	return row.Convert(), nil
}

// missingEvent tells apart an id that doesn't exist from one owned by
// someone else, after a write matched no rows.
func (s Storage) missingEvent(ctx context.Context, eventID int64) error {
	var owner int64
	err := s.db.GetContext(ctx, &owner, `SELECT user_id FROM calendar WHERE id = $1`, eventID)
	if errors.Is(err, sql.ErrNoRows) {
		return internal.ErrEventNotFound
	}
	if err != nil {
		return err
	}
	return internal.ErrEventNotOwned
}

func toNullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

