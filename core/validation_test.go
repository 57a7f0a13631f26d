package core

import (
	"errors"
	"strings"
	"testing"
	"time"
)

const testRegion = "Bretagne"

// fixedNow keeps the temporal rules deterministic across a test run.
var fixedNow = time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

func newTestValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := NewValidator(ValidatorConfig{
		Region:    testRegion,
		UntilDays: 365,
		Now:       func() time.Time { return fixedNow },
	})
	if err != nil {
		t.Fatalf("NewValidator() error = %v", err)
	}
	return v
}

// validRecord returns a raw record that passes every rule. Tests mutate
// copies of it to trigger individual rejections.
func validRecord() RawRecord {
	return RawRecord{
		"uid":                    "event123",
		"canonicalurl":           "https://example.com/event123",
		"title_fr":               "Un évènement",
		"description_fr":         "Une description.",
		"longdescription_fr":     "<p>Contenu <b>long</b></p>",
		"conditions_fr":          "Aucune",
		"location_city":          "Rennes",
		"keywords_fr":            []any{"art", "musique"},
		"firstdate_begin":        fixedNow.Add(24 * time.Hour).Format(time.RFC3339),
		"firstdate_end":          fixedNow.Add(48 * time.Hour).Format(time.RFC3339),
		"lastdate_begin":         fixedNow.Add(72 * time.Hour).Format(time.RFC3339),
		"lastdate_end":           fixedNow.Add(96 * time.Hour).Format(time.RFC3339),
		"accessibility_label_fr": []any{"PMR"},
		"location_coordinates":   map[string]any{"lon": -1.67, "lat": 48.11},
		"location_region":        testRegion,
	}
}

func TestValidateAcceptsValidRecord(t *testing.T) {
	v := newTestValidator(t)

	ev, rej := v.Validate(validRecord())
	if rej != nil {
		t.Fatalf("Validate() rejected valid record: %s", rej.Reason)
	}

	if ev.UID != "event123" {
		t.Errorf("UID = %q, want %q", ev.UID, "event123")
	}
	if ev.Title != "Un évènement" {
		t.Errorf("Title = %q", ev.Title)
	}
	if ev.LongDescription != "Contenu long" {
		t.Errorf("LongDescription = %q, want markup stripped", ev.LongDescription)
	}
	if len(ev.Keywords) != 2 || ev.Keywords[0] != "art" {
		t.Errorf("Keywords = %v", ev.Keywords)
	}
	if ev.Coordinates == nil || ev.Coordinates.Lon != -1.67 || ev.Coordinates.Lat != 48.11 {
		t.Errorf("Coordinates = %v", ev.Coordinates)
	}
	if !ev.FirstBegin.After(fixedNow) {
		t.Errorf("FirstBegin = %v, want after validation time", ev.FirstBegin)
	}
}

func TestValidateOptionalFieldsMayBeAbsent(t *testing.T) {
	v := newTestValidator(t)

	record := validRecord()
	delete(record, "description_fr")
	delete(record, "longdescription_fr")
	delete(record, "conditions_fr")
	delete(record, "location_city")
	delete(record, "keywords_fr")
	delete(record, "accessibility_label_fr")
	delete(record, "location_coordinates")

	ev, rej := v.Validate(record)
	if rej != nil {
		t.Fatalf("Validate() rejected record with absent optionals: %s", rej.Reason)
	}
	if ev.LongDescription != "" {
		t.Errorf("LongDescription = %q, want empty", ev.LongDescription)
	}
	if ev.Coordinates != nil {
		t.Errorf("Coordinates = %v, want nil", ev.Coordinates)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(RawRecord)
		wantReason string
	}{
		{
			name:       "invalid region",
			mutate:     func(r RawRecord) { r["location_region"] = "WrongRegion" },
			wantReason: "invalid region",
		},
		{
			name:       "missing region",
			mutate:     func(r RawRecord) { delete(r, "location_region") },
			wantReason: "invalid region",
		},
		{
			name:       "missing uid",
			mutate:     func(r RawRecord) { delete(r, "uid") },
			wantReason: "field uid",
		},
		{
			name:       "title has wrong type",
			mutate:     func(r RawRecord) { r["title_fr"] = 42.0 },
			wantReason: "field title_fr",
		},
		{
			name:       "unparseable date",
			mutate:     func(r RawRecord) { r["firstdate_begin"] = "not-a-date" },
			wantReason: "field firstdate_begin",
		},
		{
			name: "past firstdate_begin",
			mutate: func(r RawRecord) {
				r["firstdate_begin"] = fixedNow.Add(-time.Hour).Format(time.RFC3339)
			},
			wantReason: "date must not be more than one year old",
		},
		{
			name: "lastdate_begin too far in the future",
			mutate: func(r RawRecord) {
				r["lastdate_begin"] = fixedNow.AddDate(0, 0, 366).Format(time.RFC3339)
			},
			wantReason: "too far in the future",
		},
		{
			name:       "malformed coordinates",
			mutate:     func(r RawRecord) { r["location_coordinates"] = "48.11,-1.67" },
			wantReason: "field location_coordinates",
		},
		{
			name:       "keywords not a list",
			mutate:     func(r RawRecord) { r["keywords_fr"] = 7.0 },
			wantReason: "field keywords_fr",
		},
	}

	v := newTestValidator(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := validRecord()
			tt.mutate(record)

			ev, rej := v.Validate(record)
			if ev != nil {
				t.Fatalf("Validate() accepted record, want rejection containing %q", tt.wantReason)
			}
			if rej == nil {
				t.Fatal("Validate() returned neither event nor rejection")
			}
			if !strings.Contains(rej.Reason, tt.wantReason) {
				t.Errorf("Reason = %q, want it to contain %q", rej.Reason, tt.wantReason)
			}
		})
	}
}

func TestValidateAcceptsBoundaryDates(t *testing.T) {
	v := newTestValidator(t)

	t.Run("firstdate_begin exactly now", func(t *testing.T) {
		record := validRecord()
		record["firstdate_begin"] = fixedNow.Format(time.RFC3339)

		_, rej := v.Validate(record)
		if rej != nil {
			t.Errorf("Validate() rejected firstdate_begin == now: %s", rej.Reason)
		}
	})

	t.Run("lastdate_begin exactly at window end", func(t *testing.T) {
		limit := fixedNow.AddDate(0, 0, 365)
		record := validRecord()
		record["lastdate_begin"] = limit.Format(time.RFC3339)
		record["lastdate_end"] = limit.Add(2 * time.Hour).Format(time.RFC3339)

		_, rej := v.Validate(record)
		if rej != nil {
			t.Errorf("Validate() rejected lastdate_begin == now+365d: %s", rej.Reason)
		}
	})
}

func TestValidateReportsFirstViolationOnly(t *testing.T) {
	v := newTestValidator(t)

	// Both the region and a date are invalid; the region pre-check runs first.
	record := validRecord()
	record["location_region"] = "WrongRegion"
	record["firstdate_begin"] = "not-a-date"

	_, rej := v.Validate(record)
	if rej == nil {
		t.Fatal("Validate() accepted invalid record")
	}
	if !strings.Contains(rej.Reason, "invalid region") {
		t.Errorf("Reason = %q, want the region violation to be reported first", rej.Reason)
	}
}

func TestValidateClassifiesEveryRecord(t *testing.T) {
	v := newTestValidator(t)

	batch := []RawRecord{
		validRecord(),
		{"uid": "only-a-uid"},
		validRecord(),
		{},
	}

	accepted, rejected := 0, 0
	for _, record := range batch {
		ev, rej := v.Validate(record)
		switch {
		case ev != nil && rej == nil:
			accepted++
		case ev == nil && rej != nil:
			rejected++
		default:
			t.Fatal("Validate() must return exactly one outcome")
		}
	}

	if accepted+rejected != len(batch) {
		t.Errorf("accepted+rejected = %d, want %d", accepted+rejected, len(batch))
	}
	if accepted != 2 {
		t.Errorf("accepted = %d, want 2", accepted)
	}
}

func TestNewValidatorConfig(t *testing.T) {
	if _, err := NewValidator(ValidatorConfig{}); !errors.Is(err, ErrRegionRequired) {
		t.Errorf("NewValidator(empty) error = %v, want ErrRegionRequired", err)
	}
	if _, err := NewValidator(ValidatorConfig{Region: "X", UntilDays: -1}); !errors.Is(err, ErrInvalidWindow) {
		t.Errorf("NewValidator(negative window) error = %v, want ErrInvalidWindow", err)
	}
	v, err := NewValidator(ValidatorConfig{Region: "X"})
	if err != nil {
		t.Fatalf("NewValidator() error = %v", err)
	}
	if v.untilDays != 365 {
		t.Errorf("untilDays default = %d, want 365", v.untilDays)
	}
}
