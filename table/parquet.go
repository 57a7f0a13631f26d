// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package table

import (
	"fmt"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/poiesic/eventide/core"
)

// eventRow is the declared parquet schema for one validated event. The
// nested coordinates pair is flattened into two optional scalars so every
// column carries a scalar or a string list.
type eventRow struct {
	UID                 string    `parquet:"uid"`
	CanonicalURL        string    `parquet:"canonicalurl"`
	Title               string    `parquet:"title_fr"`
	Description         *string   `parquet:"description_fr,optional"`
	LongDescription     *string   `parquet:"longdescription_fr,optional"`
	Conditions          *string   `parquet:"conditions_fr,optional"`
	City                *string   `parquet:"location_city,optional"`
	Keywords            []string  `parquet:"keywords_fr,list"`
	FirstBegin          time.Time `parquet:"firstdate_begin"`
	FirstEnd            time.Time `parquet:"firstdate_end"`
	LastBegin           time.Time `parquet:"lastdate_begin"`
	LastEnd             time.Time `parquet:"lastdate_end"`
	AccessibilityLabels []string  `parquet:"accessibility_label_fr,list"`
	Lon                 *float64  `parquet:"location_lon,optional"`
	Lat                 *float64  `parquet:"location_lat,optional"`
}

// eventColumns lists the schema's column names in declaration order.
var eventColumns = []string{
	"uid",
	"canonicalurl",
	"title_fr",
	"description_fr",
	"longdescription_fr",
	"conditions_fr",
	"location_city",
	"keywords_fr",
	"firstdate_begin",
	"firstdate_end",
	"lastdate_begin",
	"lastdate_end",
	"accessibility_label_fr",
	"location_lon",
	"location_lat",
}

// WriteEvents persists the accepted batch as a single parquet file,
// fully overwriting any previous file at path. It returns the written
// row and column counts. A zero-row batch writes an empty table.
func WriteEvents(path string, events []*core.Event) (rows, cols int, err error) {
	records := make([]eventRow, len(events))
	for i, ev := range events {
		records[i] = rowFromEvent(ev)
	}

	if err := parquet.WriteFile(path, records); err != nil {
		return 0, 0, fmt.Errorf("writing table %s: %w", path, err)
	}
	return len(records), len(eventColumns), nil
}

// Load reads a parquet event table back into its generic form.
func Load(path string) (*Table, error) {
	records, err := parquet.ReadFile[eventRow](path)
	if err != nil {
		return nil, fmt.Errorf("reading table %s: %w", path, err)
	}

	rows := make([]map[string]any, len(records))
	for i, record := range records {
		rows[i] = record.toMap()
	}
	return New(eventColumns, rows), nil
}

func rowFromEvent(ev *core.Event) eventRow {
	row := eventRow{
		UID:                 ev.UID,
		CanonicalURL:        ev.CanonicalURL,
		Title:               ev.Title,
		Description:         optional(ev.Description),
		LongDescription:     optional(ev.LongDescription),
		Conditions:          optional(ev.Conditions),
		City:                optional(ev.City),
		Keywords:            ev.Keywords,
		FirstBegin:          ev.FirstBegin,
		FirstEnd:            ev.FirstEnd,
		LastBegin:           ev.LastBegin,
		LastEnd:             ev.LastEnd,
		AccessibilityLabels: ev.AccessibilityLabels,
	}
	if ev.Coordinates != nil {
		lon, lat := ev.Coordinates.Lon, ev.Coordinates.Lat
		row.Lon, row.Lat = &lon, &lat
	}
	return row
}

func (r eventRow) toMap() map[string]any {
	return map[string]any{
		"uid":                    r.UID,
		"canonicalurl":           r.CanonicalURL,
		"title_fr":               r.Title,
		"description_fr":         deref(r.Description),
		"longdescription_fr":     deref(r.LongDescription),
		"conditions_fr":          deref(r.Conditions),
		"location_city":          deref(r.City),
		"keywords_fr":            anyList(r.Keywords),
		"firstdate_begin":        r.FirstBegin,
		"firstdate_end":          r.FirstEnd,
		"lastdate_begin":         r.LastBegin,
		"lastdate_end":           r.LastEnd,
		"accessibility_label_fr": anyList(r.AccessibilityLabels),
		"location_lon":           derefFloat(r.Lon),
		"location_lat":           derefFloat(r.Lat),
	}
}

// optional maps the domain's empty-string optionals to parquet nulls.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func derefFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func anyList(items []string) any {
	if items == nil {
		return nil
	}
	return items
}
