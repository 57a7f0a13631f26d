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


package core

import (
	"fmt"
	"time"
)

// ValidatorConfig holds the parameters the validation rules depend on.
// It is passed explicitly so the same rules are testable with arbitrary
// regions and windows.
type ValidatorConfig struct {
	// Region is the single accepted value for the record's location_region
	// field. Records from any other region are rejected.
	Region string

	// UntilDays bounds how far in the future lastdate_begin may lie.
	// Default: 365.
	UntilDays int

	// Now supplies the validation time. Default: time.Now.
	Now func() time.Time
}

// Validator classifies raw records as accepted or rejected.
//
// Validation runs an ordered list of rules; the first violation is
// terminal for that record and reported as a Rejection. Business-rule
// violations and malformed input (wrong types, unparseable dates) are
// both rejections, never errors, so a batch of N records always yields
// exactly N outcomes.
type Validator struct {
	region    string
	untilDays int
	now       func() time.Time
}

// rule applies one validation step, coercing raw fields into ev or
// returning the violation that rejects the record.
type rule func(raw RawRecord, ev *Event) error

// NewValidator creates a validator for the given configuration.
func NewValidator(cfg ValidatorConfig) (*Validator, error) {
	if cfg.Region == "" {
		return nil, ErrRegionRequired
	}
	if cfg.UntilDays == 0 {
		cfg.UntilDays = 365
	}
	if cfg.UntilDays < 0 {
		return nil, ErrInvalidWindow
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Validator{
		region:    cfg.Region,
		untilDays: cfg.UntilDays,
		now:       cfg.Now,
	}, nil
}

// Validate coerces and checks a single raw record. Exactly one of the
// results is non-nil.
func (v *Validator) Validate(raw RawRecord) (*Event, *Rejection) {
	ev := &Event{}
	for _, r := range []rule{
		v.checkRegion,
		coerceIdentity,
		coerceTexts,
		coerceDates,
		coerceCoordinates,
		normalizeLongDescription,
		v.checkFirstBegin,
		v.checkLastBegin,
	} {
		if err := r(raw, ev); err != nil {
			return nil, &Rejection{Record: raw, Reason: err.Error()}
		}
	}
	return ev, nil
}

// checkRegion is the cross-field pre-check: the input-only
// location_region field must equal the configured region.
func (v *Validator) checkRegion(raw RawRecord, _ *Event) error {
	region, _ := raw["location_region"].(string)
	if region != v.region {
		return fmt.Errorf("invalid region: %q (only %q is accepted)", region, v.region)
	}
	return nil
}

// coerceIdentity fills the required string fields.
func coerceIdentity(raw RawRecord, ev *Event) error {
	var err error
	if ev.UID, err = stringField(raw, "uid"); err != nil {
		return err
	}
	if ev.CanonicalURL, err = stringField(raw, "canonicalurl"); err != nil {
		return err
	}
	if ev.Title, err = stringField(raw, "title_fr"); err != nil {
		return err
	}
	return nil
}

// coerceTexts fills the optional free-text and list fields.
func coerceTexts(raw RawRecord, ev *Event) error {
	var err error
	if ev.Description, err = optionalString(raw, "description_fr"); err != nil {
		return err
	}
	if ev.LongDescription, err = optionalString(raw, "longdescription_fr"); err != nil {
		return err
	}
	if ev.Conditions, err = optionalString(raw, "conditions_fr"); err != nil {
		return err
	}
	if ev.City, err = optionalString(raw, "location_city"); err != nil {
		return err
	}
	if ev.Keywords, err = stringList(raw, "keywords_fr"); err != nil {
		return err
	}
	if ev.AccessibilityLabels, err = stringList(raw, "accessibility_label_fr"); err != nil {
		return err
	}
	return nil
}

// coerceDates parses the four required ISO-8601 timestamps.
func coerceDates(raw RawRecord, ev *Event) error {
	var err error
	if ev.FirstBegin, err = timeField(raw, "firstdate_begin"); err != nil {
		return err
	}
	if ev.FirstEnd, err = timeField(raw, "firstdate_end"); err != nil {
		return err
	}
	if ev.LastBegin, err = timeField(raw, "lastdate_begin"); err != nil {
		return err
	}
	if ev.LastEnd, err = timeField(raw, "lastdate_end"); err != nil {
		return err
	}
	return nil
}

// coerceCoordinates reads the optional nested lon/lat object.
func coerceCoordinates(raw RawRecord, ev *Event) error {
	value, ok := raw["location_coordinates"]
	if !ok || value == nil {
		return nil
	}
	obj, ok := value.(map[string]any)
	if !ok {
		return fmt.Errorf("field location_coordinates: cannot coerce %v to a lon/lat pair", value)
	}
	lon, lonOK := obj["lon"].(float64)
	lat, latOK := obj["lat"].(float64)
	if !lonOK || !latOK {
		return fmt.Errorf("field location_coordinates: cannot coerce %v to a lon/lat pair", value)
	}
	ev.Coordinates = &Coordinates{Lon: lon, Lat: lat}
	return nil
}

// normalizeLongDescription strips markup from the long description after
// all field coercions succeeded.
func normalizeLongDescription(_ RawRecord, ev *Event) error {
	ev.LongDescription = StripHTML(ev.LongDescription)
	return nil
}

// checkFirstBegin rejects any event whose first start is already in the
// past at validation time. The message wording predates the configurable
// since window and is preserved as observed.
func (v *Validator) checkFirstBegin(_ RawRecord, ev *Event) error {
	if ev.FirstBegin.Before(v.now()) {
		return fmt.Errorf("date must not be more than one year old")
	}
	return nil
}

// checkLastBegin rejects events starting beyond now + the future window.
func (v *Validator) checkLastBegin(_ RawRecord, ev *Event) error {
	until := v.now().AddDate(0, 0, v.untilDays)
	if ev.LastBegin.After(until) {
		return fmt.Errorf("lastdate_begin is too far in the future (>%d days). Value: %s",
			v.untilDays, ev.LastBegin.Format(time.RFC3339))
	}
	return nil
}

func stringField(raw RawRecord, name string) (string, error) {
	value, ok := raw[name]
	if !ok || value == nil {
		return "", fmt.Errorf("field %s: required value is missing", name)
	}
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("field %s: cannot coerce %v to string", name, value)
	}
	return s, nil
}

func optionalString(raw RawRecord, name string) (string, error) {
	value, ok := raw[name]
	if !ok || value == nil {
		return "", nil
	}
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("field %s: cannot coerce %v to string", name, value)
	}
	return s, nil
}

func stringList(raw RawRecord, name string) ([]string, error) {
	value, ok := raw[name]
	if !ok || value == nil {
		return nil, nil
	}
	items, ok := value.([]any)
	if !ok {
		// Decoded JSON may already carry a typed slice.
		if typed, ok := value.([]string); ok {
			return typed, nil
		}
		return nil, fmt.Errorf("field %s: cannot coerce %v to a list of strings", name, value)
	}
	out := make([]string, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("field %s: cannot coerce %v to a list of strings", name, value)
		}
		out[i] = s
	}
	return out, nil
}

func timeField(raw RawRecord, name string) (time.Time, error) {
	value, ok := raw[name]
	if !ok || value == nil {
		return time.Time{}, fmt.Errorf("field %s: required value is missing", name)
	}
	s, ok := value.(string)
	if !ok {
		return time.Time{}, fmt.Errorf("field %s: cannot coerce %v to a timestamp", name, value)
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("field %s: cannot parse %q as an ISO-8601 timestamp", name, s)
	}
	return ts, nil
}
