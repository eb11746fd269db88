package runner

import (
	"bytes"
	"crypto/sha1"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// NotAvailable is the placeholder for a field the results page did not provide.
const NotAvailable = "N/A"

// Record represents one finisher row of a race result
type Record struct {
	Position    string `json:"position"`
	Name        string `json:"name"`
	Time        string `json:"time"`
	Age         string `json:"age,omitempty"`
	Gender      string `json:"gender,omitempty"`
	Nationality string `json:"nationality,omitempty"`
	ProfileLink string `json:"profile_link,omitempty"`
	Category    string `json:"category,omitempty"`
}

// ResultSet is an ordered list of records. Order is the order the server returned.
type ResultSet []Record

// UnmarshalJSON decodes a record, coercing missing, null, or blank fields to "N/A".
// Non-string scalars keep their JSON text, so a numeric position of 1 becomes "1".
// A record that is itself null is an error.
func (r *Record) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return errors.New("decoding runner record: record is null")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("decoding runner record: %w", err)
	}

	*r = Record{
		Position:    fieldText(fields["position"]),
		Name:        fieldText(fields["name"]),
		Time:        fieldText(fields["time"]),
		Age:         fieldText(fields["age"]),
		Gender:      fieldText(fields["gender"]),
		Nationality: fieldText(fields["nationality"]),
		ProfileLink: fieldText(fields["profile_link"]),
		Category:    fieldText(fields["category"]),
	}
	return nil
}

// fieldText converts a raw JSON value into display text
func fieldText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return NotAvailable
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return OrNotAvailable(s)
	}

	text := strings.TrimSpace(string(raw))
	if text == "null" {
		return NotAvailable
	}
	return OrNotAvailable(text)
}

// OrNotAvailable returns "N/A" for blank values and the value unchanged otherwise.
func OrNotAvailable(value string) string {
	if strings.TrimSpace(value) == "" {
		return NotAvailable
	}
	return value
}

// Normalize applies the missing-value policy to records built in code rather than
// decoded from JSON. Only the fields used by the layout are filled.
func (r Record) Normalize(layout Layout) Record {
	r.Position = OrNotAvailable(r.Position)
	r.Name = OrNotAvailable(r.Name)
	r.Time = OrNotAvailable(r.Time)

	switch layout {
	case LayoutProfile:
		r.Age = OrNotAvailable(r.Age)
		r.Gender = OrNotAvailable(r.Gender)
		r.Nationality = OrNotAvailable(r.Nationality)
		r.ProfileLink = OrNotAvailable(r.ProfileLink)
	case LayoutCategory:
		r.Category = OrNotAvailable(r.Category)
	}
	return r
}

// HasProfileLink reports whether the record links to a runner profile
func (r Record) HasProfileLink() bool {
	link := strings.TrimSpace(r.ProfileLink)
	return link != "" && link != NotAvailable
}

// GenerateStableKey creates an identifier based on the normalized runner name.
// The key stays the same when a runner's position or time changes between scrapes.
func GenerateStableKey(name string) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(name), " "))

	h := sha1.New()
	h.Write([]byte(normalized))
	return fmt.Sprintf("%x", h.Sum(nil))
}
