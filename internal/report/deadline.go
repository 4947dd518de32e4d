package report

import (
	"log"
	"time"
)

// Deadline returns the submission cutoff for a report date: midday of the
// following day, plant local time. Operators may file and amend until then;
// editors may always amend but the report is flagged late.
func Deadline(reportDate time.Time, loc *time.Location) time.Time {
	next := reportDate.AddDate(0, 0, 1)
	return time.Date(next.Year(), next.Month(), next.Day(), 12, 0, 0, 0, loc)
}

// Timezone resolves the configured deadline timezone, falling back to UTC on
// a bad name rather than refusing to start.
func Timezone(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("[WARN] Unknown timezone %q, deadlines will use UTC", name)
		return time.UTC
	}
	return loc
}
