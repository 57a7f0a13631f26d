package core

import "time"

// RawRecord is one untyped event entry as returned by the open-data API.
// It is consumed exactly once by the Validator.
type RawRecord map[string]any

// Coordinates is a longitude/latitude pair attached to an event location.
type Coordinates struct {
	Lon float64
	Lat float64
}

// Event is the canonical, fully typed event entity produced by the
// Validator. Events are never mutated after construction. The input-only
// location_region field is checked during validation and not retained.
type Event struct {
	UID                 string
	CanonicalURL        string
	Title               string
	Description         string
	LongDescription     string // HTML stripped to plain text during validation
	Conditions          string
	City                string
	Keywords            []string
	FirstBegin          time.Time
	FirstEnd            time.Time
	LastBegin           time.Time
	LastEnd             time.Time
	AccessibilityLabels []string
	Coordinates         *Coordinates
}

// Rejection is the outcome for a raw record that failed validation.
// It carries the original record and a human-readable cause, and is
// appended to the rejection log instead of becoming an Event.
type Rejection struct {
	Record RawRecord `json:"record"`
	Reason string    `json:"error"`
}
