package service

import (
	"fmt"
	"strings"

	"wayfarer/internal/modules/budget"
	"wayfarer/internal/modules/thread"
	"wayfarer/internal/modules/trip"
	"wayfarer/internal/tools"
)

// FallbackReply is returned when a turn ends without a final answer.
const FallbackReply = "Sorry, I could not generate a travel plan this time. Please try again or rephrase your request."

// contextBlock lists the known trip details the model should use for tool arguments.
func contextBlock(th *thread.Thread) string {
	details := th.Trip.Details()
	if th.Budget.Carrier != "" && th.Budget.Carrier != budget.UnknownCarrier {
		details = append(details, trip.Detail{Label: "Flight Carrier", Value: th.Budget.Carrier})
	}
	if len(details) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Current Travel Plan Details:\n")
	for _, d := range details {
		fmt.Fprintf(&b, "- %s: %s\n", d.Label, d.Value)
	}
	return b.String()
}

func searchStatus(p progress, feasibility budget.Status) string {
	if feasibility == "" {
		feasibility = "UNKNOWN"
	}
	return fmt.Sprintf(
		"\nCURRENT SEARCH STATUS:\n- Flight Searched: %t\n- Hotel Searched: %t\n- Activities Searched: %t\n- Budget Status: %s\n",
		p.flight, p.hotel, p.activities, feasibility,
	)
}

// nextToolPrompt asks for exactly one tool call.
func nextToolPrompt(th *thread.Thread, p progress, next tools.Kind) string {
	lines := []string{
		"You are a travel planning assistant. Your ONLY job is to determine the SINGLE NEXT tool to call based on the explicit instructions below.",
		"DO NOT DEVIATE. DO NOT CALL PREVIOUS TOOLS.",
		"\nData available for tool call:",
		contextBlock(th),
		searchStatus(p, th.Budget.Status),
	}
	switch next {
	case tools.KindTravel:
		lines = append(lines, "Instruction: User details are missing. Call ONLY the 'Travel' tool to get them.")
	case tools.KindFlight:
		lines = append(lines,
			"Instruction: Flight search is needed. Call ONLY the 'amadeus_flight_search' tool using the data provided.",
			"Use IATA airport or city codes for origin and destination.",
		)
	case tools.KindHotel:
		lines = append(lines,
			"Instruction: Hotel search is needed. Flight search is COMPLETE.",
			"Call ONLY the 'quick_hotel_search' tool using the data provided.",
			"DO NOT call 'amadeus_flight_search' again.",
		)
	case tools.KindActivities:
		lines = append(lines,
			"Instruction: Activity search is needed. Flight and Hotel searches are COMPLETE.",
			"Call ONLY the 'google_search_activities' tool using the data provided.",
			"DO NOT call 'amadeus_flight_search' or 'quick_hotel_search' again.",
		)
	}
	lines = append(lines,
		fmt.Sprintf("\nYour response MUST be a call to the tool '%s'.", next),
		"Provide ONLY the tool call, no other text.",
	)
	return strings.Join(lines, "\n")
}

func directionsPrompt(th *thread.Thread, p progress) string {
	return strings.Join([]string{
		"You are an expert travel planner.",
		"The user needs directions between two locations from the plan.",
		"Here is the data you must use for the tool call (including hotel/activity names from previous steps in message history):",
		contextBlock(th),
		fmt.Sprintf(
			"\nCURRENT STATUS:\n- Flight Searched: %t\n- Hotel Searched: %t\n- Activities Searched: %t\n- Directions Searched: %t\n",
			p.flight, p.hotel, p.activities, p.directions,
		),
		"Task: Get directions.",
		fmt.Sprintf("Tool to use: '%s'.", tools.NameDirections),
		"You need to infer the start_location_name and end_location_name from the user request and message history.",
		"Be specific with names and include the city (e.g., Start='Hotel Le Djoloff, Dakar', End='IFAN Museum of African Arts, Dakar').",
		"Choose a suitable profile (e.g., 'foot-walking' or 'driving-car').",
		"DO NOT use any other tool.",
		fmt.Sprintf("\nCRITICAL: Only call '%s' NOW.", tools.NameDirections),
	}, "\n")
}

func summaryPrompt(th *thread.Thread) string {
	return fmt.Sprintf(`You are an expert travel planner providing the FINAL travel plan summary.

IMPORTANT: You must not call any tools. You already have all the information needed.

You have received:
- User interests
- Flight search results
- Hotel search results
- Activity search results
- (Potentially) Directions results
(All this information is in the message history)

Your task now is to provide a comprehensive final response including:

1.  **Trip Summary** (Destination, Duration, Budget, Interests, Status)
2.  **Flight Details** (Carrier, Price in the original currency, Price in USD using 1 EUR = %.2f USD)
3.  **Hotel Recommendations** (Top 2-3 with Name, Price, Rating)
4.  **Activity Recommendations** (Summarize search, suggest 2-3 specific activities)
5.  **Local Transportation/Directions** (IF available in message history from '%s' tool, summarize the duration and distance. If not, omit this section.)
6.  **Budget Breakdown** (Flight USD, Hotel USD, Remaining USD)
7.  **Recommendations** (Feasibility, Suggestions)

%s
%s

Provide a well-formatted, conversational response. DO NOT call any tools.`,
		budget.EURToUSD, tools.NameDirections, contextBlock(th), th.Budget.Summary())
}
