package service

import (
	"wayfarer/internal/ai"
	"wayfarer/internal/modules/thread"
	"wayfarer/internal/tools"
)

// stage is the planner state reconstructed from flags and the conversation log.
type stage int

const (
	stageTripInfo stage = iota
	stageFlight
	stageHotel
	stageActivities
	stageDirections
	stageSummary
)

func (s stage) String() string {
	switch s {
	case stageTripInfo:
		return "trip_info"
	case stageFlight:
		return "flight"
	case stageHotel:
		return "hotel"
	case stageActivities:
		return "activities"
	case stageDirections:
		return "directions"
	default:
		return "summary"
	}
}

// tool returns the single tool the stage asks for.
func (s stage) tool() tools.Kind {
	switch s {
	case stageTripInfo:
		return tools.KindTravel
	case stageFlight:
		return tools.KindFlight
	case stageHotel:
		return tools.KindHotel
	case stageActivities:
		return tools.KindActivities
	case stageDirections:
		return tools.KindDirections
	default:
		return tools.KindUnknown
	}
}

// progress says which searches have run, by flag or by a result in the log.
type progress struct {
	flight, hotel, activities, directions bool
}

func observe(th *thread.Thread) progress {
	p := progress{
		flight:     th.Flags.FlightSearched,
		hotel:      th.Flags.HotelSearched,
		activities: th.Flags.ActivitiesSearched,
		directions: th.Flags.DirectionsSearched,
	}
	for _, m := range th.Messages {
		if m.Role != ai.RoleTool {
			continue
		}
		switch tools.ParseKind(m.ToolName) {
		case tools.KindFlight:
			p.flight = true
		case tools.KindHotel:
			p.hotel = true
		case tools.KindActivities:
			p.activities = true
		case tools.KindDirections:
			p.directions = true
		}
	}
	return p
}

func (p progress) searchesDone() bool {
	return p.flight && p.hotel && p.activities
}

// complete reports whether every required stage has run. Directions only
// count when the trip asked for them.
func (p progress) complete(needsDirections bool) bool {
	return p.searchesDone() && (!needsDirections || p.directions)
}

// next picks the stage by strict priority: missing destination, flight,
// hotel, activities, then directions when needed, then the summary.
func next(th *thread.Thread, p progress) stage {
	switch {
	case th.Trip.Destination == "":
		return stageTripInfo
	case !p.flight:
		return stageFlight
	case !p.hotel:
		return stageHotel
	case !p.activities:
		return stageActivities
	case th.Trip.NeedsDirections && !p.directions:
		return stageDirections
	default:
		return stageSummary
	}
}

// request is one LLM invocation. A nil tools slice means nothing is bound.
type request struct {
	stage    stage
	messages []ai.Message
	tools    []ai.ToolSchema
}

func buildRequest(th *thread.Thread, p progress, st stage, schemas []ai.ToolSchema) request {
	switch st {
	case stageSummary:
		msgs := append([]ai.Message{ai.System(summaryPrompt(th))}, th.Messages...)
		return request{stage: st, messages: msgs}
	case stageDirections:
		msgs := append([]ai.Message{ai.System(directionsPrompt(th, p))}, th.Messages...)
		return request{stage: st, messages: msgs, tools: schemas}
	case stageTripInfo:
		msgs := []ai.Message{ai.System(nextToolPrompt(th, p, st.tool()))}
		if u, ok := latestUser(th.Messages); ok {
			msgs = append(msgs, u)
		}
		return request{stage: st, messages: msgs, tools: schemas}
	default:
		return request{stage: st, messages: []ai.Message{ai.System(nextToolPrompt(th, p, st.tool()))}, tools: schemas}
	}
}

func latestUser(msgs []ai.Message) (ai.Message, bool) {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == ai.RoleUser {
			return msgs[i], true
		}
	}
	return ai.Message{}, false
}

// keepFirstCall drops every tool call after the first one.
func keepFirstCall(m ai.Message) ai.Message {
	if len(m.ToolCalls) > 1 {
		m.ToolCalls = m.ToolCalls[:1:1]
	}
	return m
}
