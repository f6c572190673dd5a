// README: Budget assessment derived from the flight search result and the user's budget text.
package budget

import "wayfarer/internal/types"

// Status is the feasibility verdict of a trip budget.
type Status string

const (
	StatusFeasible   Status = "FEASIBLE"
	StatusOverBudget Status = "OVER_BUDGET"
	StatusError      Status = "ERROR"
)

const (
	// EURToUSD is the fixed conversion rate applied to EUR prices. Other
	// currencies pass through unconverted.
	EURToUSD = 1.07
	// MinGroundCostUSD is what must remain after the flight for the trip to be feasible.
	MinGroundCostUSD = 300.0
	UnknownCarrier   = "Unknown"
)

// Assessment is recomputed every time a flight result arrives.
type Assessment struct {
	FlightCost    types.Money `json:"flight_cost"`
	FlightCostUSD float64     `json:"flight_cost_usd"`
	Carrier       string      `json:"carrier,omitempty"`
	BudgetUSD     float64     `json:"budget_usd"`
	Remaining     float64     `json:"remaining"`
	Status        Status      `json:"status,omitempty"`
}

// Errored is the zero-valued assessment returned whenever the stage cannot run.
func Errored() Assessment {
	return Assessment{Status: StatusError}
}

// FlightResult is the latest flight tool output as recorded in the conversation log.
type FlightResult struct {
	Text   string
	Failed bool
}
