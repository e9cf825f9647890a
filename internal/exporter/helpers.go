package exporter

import (
	"io"
	"time"

	"github.com/guilherme-santos/tabcalendar/internal"
)

func formatDateTime(d time.Time) string {
	return d.In(time.Local).Format("02 Jan 06 15:04")
}

func logf(w io.Writer, target *Target, format string, a ...any) {
	internal.Logf(w, "", target, format, a...)
}
