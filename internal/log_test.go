package internal

import (
	"bytes"
	"testing"
)

func TestLogf(t *testing.T) {
	var buf bytes.Buffer
	target := &Target{ProviderID: "primary", Account: Account{Platform: "google", Name: "a@x.com"}}

	Logf(&buf, "google:", target, "%d event(s)", 2)
	Logf(&buf, "", nil, "done")

	want := "google: Target google/a@x.com/primary: 2 event(s)\ndone\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}
