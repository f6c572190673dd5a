package tools

import (
	"context"

	"wayfarer/internal/ai"
)

// TravelTool is the structured trip-details tool. The model fills its
// arguments from the user's request; the planner's extraction stage reads them
// back from the tool call, so executing it only acknowledges receipt.
type TravelTool struct{}

func (TravelTool) Kind() Kind { return KindTravel }

func (TravelTool) Schema() ai.ToolSchema {
	return ai.ToolSchema{
		Name:        NameTravel,
		Description: "Record the user's trip details extracted from their request.",
		Params: []ai.Param{
			{Name: "depart", Type: ai.TypeString, Description: "The place the user will start from"},
			{Name: "destination", Type: ai.TypeString, Description: "The destination the user wants to go"},
			{Name: "duration", Type: ai.TypeString, Description: "The duration of the travel (e.g., '4 days', '7 days')"},
			{Name: "adults", Type: ai.TypeInteger, Description: "The number of adult travelers."},
			{Name: "budget", Type: ai.TypeString, Description: "User budget to spend (e.g., '3000 USD')"},
			{Name: "departureDate", Type: ai.TypeString, Description: "The exact departure date in YYYY-MM-DD format (e.g., 2025-11-01)."},
			{Name: "returnDate", Type: ai.TypeString, Description: "The exact return date in YYYY-MM-DD format (e.g., 2025-11-06)."},
			{Name: "interests", Type: ai.TypeString, Description: "User's interests for activities (e.g., 'history, food', 'hiking, museums', 'beach, nightlife')."},
			{Name: "needs_directions", Type: ai.TypeBoolean, Description: "Set to true if the user explicitly asks for directions between places mentioned in the plan (e.g., 'hotel to museum')."},
		},
	}
}

func (TravelTool) Execute(context.Context, map[string]any) Outcome {
	return success("Trip details received.")
}
