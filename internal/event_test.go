package internal

import (
	"errors"
	"testing"
	"time"
)

func TestNewEventValidate(t *testing.T) {
	when := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	tests := map[string]struct {
		event NewEvent
		field string
	}{
		"valid":        {NewEvent{Name: "Standup", Date: when}, ""},
		"missing name": {NewEvent{Date: when}, "event_name"},
		"missing date": {NewEvent{Name: "Standup"}, "date"},
		"missing both": {NewEvent{}, "event_name"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.event.Validate()
			if tt.field == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var badReq *BadRequestError
			if !errors.As(err, &badReq) {
				t.Fatalf("got %v, want BadRequestError", err)
			}
			if badReq.Field != tt.field {
				t.Errorf("field: got %q, want %q", badReq.Field, tt.field)
			}
		})
	}
}

func TestEventUpdateValidate(t *testing.T) {
	name, empty := "Standup", ""
	when := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	if err := (EventUpdate{Name: &name}).Validate(); err != nil {
		t.Errorf("name only: %v", err)
	}
	if err := (EventUpdate{Date: &when}).Validate(); err != nil {
		t.Errorf("date only: %v", err)
	}
	if err := (EventUpdate{Name: &empty, Notes: &name}).Validate(); err == nil {
		t.Error("empty name and no date should be rejected")
	}
}

func TestBadRequestErrorMessage(t *testing.T) {
	err := &BadRequestError{Field: "date"}
	if got, want := err.Error(), "Required field - date - missing from request body."; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestTab(t *testing.T) {
	if MainTab.Column() != "main_id" || SubTab.Column() != "sub_id" {
		t.Errorf("columns: got %s, %s", MainTab.Column(), SubTab.Column())
	}
	if tab, ok := ParseTab("sub"); !ok || tab != SubTab {
		t.Errorf("ParseTab(sub): got %v, %v", tab, ok)
	}
	if _, ok := ParseTab("side"); ok {
		t.Error("ParseTab(side) should fail")
	}
}
