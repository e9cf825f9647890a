package sqlstore

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/guilherme-santos/tabcalendar/internal"
)

const eventColumns = "id, user_id, main_id, sub_id, task_id, event_name, date, notes, created_at, updated_at"

type Event struct {
	ID        int64          `db:"id"`
	UserID    int64          `db:"user_id"`
	MainID    sql.NullInt64  `db:"main_id"`
	SubID     sql.NullInt64  `db:"sub_id"`
	TaskID    sql.NullInt64  `db:"task_id"`
	Name      string         `db:"event_name"`
	Date      Timestamp      `db:"date"`
	Notes     sql.NullString `db:"notes"`
	CreatedAt Timestamp      `db:"created_at"`
	UpdatedAt Timestamp      `db:"updated_at"`
}

func (e Event) Convert() *internal.Event {
	return &internal.Event{
		ID:        e.ID,
		UserID:    e.UserID,
		MainID:    nullInt(e.MainID),
		SubID:     nullInt(e.SubID),
		TaskID:    nullInt(e.TaskID),
		Name:      e.Name,
		Date:      e.Date.Time,
		Notes:     nullString(e.Notes),
		CreatedAt: e.CreatedAt.Time,
		UpdatedAt: e.UpdatedAt.Time,
	}
}

func nullInt(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	return &v.Int64
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

// Timestamp scans both native time values (postgres) and the text form
// SQLite hands back when it can't tell the column type, e.g. in RETURNING.
type Timestamp struct {
	time.Time
}

var timestampFormats = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
}

func (t *Timestamp) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		t.Time = time.Time{}
		return nil
	case time.Time:
		t.Time = v.UTC()
		return nil
	case []byte:
		return t.parse(string(v))
	case string:
		return t.parse(v)
	}
	return fmt.Errorf("sqlstore: cannot scan %T into Timestamp", src)
}

func (t *Timestamp) parse(s string) error {
	for _, layout := range timestampFormats {
		if v, err := time.Parse(layout, s); err == nil {
			t.Time = v.UTC()
			return nil
		}
	}
	return fmt.Errorf("sqlstore: unrecognized timestamp %q", s)
}

type exportedEvent struct {
	EventID    int64  `db:"event_id"`
	ProviderID string `db:"provider_id"`
}
