// SPDX-License-Identifier: MPL-2.0

package installer

import (
	"fmt"
	"time"
)

// DateLayout is the display layout for release timestamps.
const DateLayout = "2006-01-02 15:04:05 -0700"

// FormatSize renders a byte count in KB below one megabyte and MB above,
// always with two decimals.
func FormatSize(bytes int64) string {
	kb := float64(bytes) / 1024
	if kb < 1024 {
		return fmt.Sprintf("%.2f KB", kb)
	}
	return fmt.Sprintf("%.2f MB", kb/1024)
}

// FormatDate renders t in loc using DateLayout, or "N/A" when t is nil.
// A nil loc means time.Local.
func FormatDate(t *time.Time, loc *time.Location) string {
	if t == nil {
		return "N/A"
	}
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DateLayout)
}

// RawDate renders t the way the API reported it, or "N/A".
func RawDate(t *time.Time) string {
	if t == nil {
		return "N/A"
	}
	return t.UTC().Format(time.RFC3339)
}
