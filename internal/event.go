package internal

import "time"

type Event struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	MainID    *int64    `json:"main_id"`
	SubID     *int64    `json:"sub_id"`
	TaskID    *int64    `json:"task_id"`
	Name      string    `json:"event_name"`
	Date      time.Time `json:"date"`
	Notes     *string   `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewEvent is what a caller supplies to create an event in a tab.
type NewEvent struct {
	Name   string
	Date   time.Time
	Notes  *string
	TaskID *int64
}

func (e NewEvent) Validate() error {
	if e.Name == "" {
		return &BadRequestError{Field: "event_name"}
	}
	if e.Date.IsZero() {
		return &BadRequestError{Field: "date"}
	}
	return nil
}

// EventUpdate lists the fields to change. Name and Date are left untouched
// when nil, Notes is always written and a nil value clears it.
type EventUpdate struct {
	Name  *string
	Date  *time.Time
	Notes *string
}

func (u EventUpdate) Validate() error {
	if (u.Name == nil || *u.Name == "") && (u.Date == nil || u.Date.IsZero()) {
		return &BadRequestError{Field: "event_name or date"}
	}
	return nil
}

type Tab string

func (t Tab) String() string {
	return string(t)
}

// Column is the calendar column holding the tab container id.
func (t Tab) Column() string {
	switch t {
	case SubTab:
		return "sub_id"
	default:
		return "main_id"
	}
}

var (
	MainTab Tab = "main"
	SubTab  Tab = "sub"
)

func ParseTab(v string) (Tab, bool) {
	switch Tab(v) {
	case MainTab:
		return MainTab, true
	case SubTab:
		return SubTab, true
	}
	return "", false
}
