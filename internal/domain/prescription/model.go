package prescription

import (
	"time"

	"github.com/google/uuid"
)

// Prescription maps to the prescription table. Start and end dates are
// calendar dates; the time component is ignored.
type Prescription struct {
	ID                uuid.UUID `db:"id" json:"id"`
	PatientID         uuid.UUID `db:"patient_id" json:"patient_id"`
	PrescribingDoctor string    `db:"prescribing_doctor" json:"prescribing_doctor"`
	EmailDoctor       string    `db:"email_doctor" json:"email_doctor"`
	StartDate         time.Time `db:"start_date" json:"start_date"`
	EndDate           time.Time `db:"end_date" json:"end_date"`
	DocumentKey       string    `db:"document_key" json:"document_key,omitempty"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// DateOnly truncates a timestamp to its calendar date in UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsValidOn reports whether the prescription covers the given date. Both
// bounds are inclusive.
func (p *Prescription) IsValidOn(d time.Time) bool {
	day := DateOnly(d)
	return !day.Before(DateOnly(p.StartDate)) && !day.After(DateOnly(p.EndDate))
}

// ExpiresWithin reports whether the prescription ends after the reference
// date but within the horizon. A prescription ending today is already due,
// not expiring soon.
func (p *Prescription) ExpiresWithin(ref time.Time, horizon time.Duration) bool {
	day := DateOnly(ref)
	end := DateOnly(p.EndDate)
	limit := day.Add(horizon)
	return end.After(day) && !end.After(limit)
}
