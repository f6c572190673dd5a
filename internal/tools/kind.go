package tools

// Kind is the closed set of tools the planner knows how to route.
type Kind int

const (
	KindUnknown Kind = iota
	KindTravel
	KindFlight
	KindHotel
	KindActivities
	KindEntertainment
	KindDirections
)

// Tool names as presented to the model.
const (
	NameTravel        = "Travel"
	NameFlight        = "amadeus_flight_search"
	NameHotel         = "quick_hotel_search"
	NameActivities    = "google_search_activities"
	NameEntertainment = "google_search_entertainment"
	NameDirections    = "get_directions"
)

var kindNames = map[Kind]string{
	KindTravel:        NameTravel,
	KindFlight:        NameFlight,
	KindHotel:         NameHotel,
	KindActivities:    NameActivities,
	KindEntertainment: NameEntertainment,
	KindDirections:    NameDirections,
}

// ParseKind maps a tool name to its kind. Unrecognized names yield KindUnknown.
func ParseKind(name string) Kind {
	for k, n := range kindNames {
		if n == name {
			return k
		}
	}
	return KindUnknown
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "unknown"
}
