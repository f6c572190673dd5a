// README: Trip record model built incrementally from the model's Travel tool calls.
package trip

import (
	"errors"
	"strconv"
)

// ErrCoercion is returned when a Travel argument cannot be coerced to its field type.
var ErrCoercion = errors.New("cannot coerce travel argument")

const (
	// DefaultAdults is the trip-side default party size. The hotel search keeps its own default.
	DefaultAdults    = 1
	DefaultInterests = "general sightseeing"
)

// Duration sentinels used when a day count cannot be derived.
const (
	DurationFlexible     = "Flexible / One-way"
	DurationNotSpecified = "Not specified"
	DurationInvalid      = "Invalid dates"
	DurationParseError   = "Date parse error"
)

// Record is the canonical trip request.
type Record struct {
	Origin          string `json:"origin,omitempty"`
	Destination     string `json:"destination,omitempty"`
	Duration        string `json:"duration,omitempty"`
	Adults          int    `json:"adults,omitempty"`
	Budget          string `json:"budget,omitempty"`
	DepartureDate   string `json:"departure_date,omitempty"`
	ReturnDate      string `json:"return_date,omitempty"`
	Interests       string `json:"interests,omitempty"`
	NeedsDirections bool   `json:"needs_directions,omitempty"`
}

// Detail is one labelled, non-empty field of a record.
type Detail struct {
	Label string
	Value string
}

// Details lists the populated fields in a fixed order for prompts and debug views.
func (r Record) Details() []Detail {
	var out []Detail
	add := func(label, v string) {
		if v != "" {
			out = append(out, Detail{Label: label, Value: v})
		}
	}
	add("Depart", r.Origin)
	add("Destination", r.Destination)
	add("Duration", r.Duration)
	if r.Adults > 0 {
		add("Adults", strconv.Itoa(r.Adults))
	}
	add("Budget", r.Budget)
	add("Departure Date", r.DepartureDate)
	add("Return Date", r.ReturnDate)
	add("Interests", r.Interests)
	return out
}

func isDurationSentinel(v string) bool {
	switch v {
	case DurationFlexible, DurationNotSpecified, DurationInvalid, DurationParseError:
		return true
	}
	return false
}
