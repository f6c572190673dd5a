// README: Budget stage. Compares the cheapest flight against the user's budget.
package budget

import "fmt"

// Assess computes the budget verdict for the latest flight result. It never
// panics: a nil or failed result, an unparseable summary or any runtime fault
// yields the Errored assessment.
func Assess(flight *FlightResult, budgetText string) (out Assessment) {
	defer func() {
		if r := recover(); r != nil {
			out = Errored()
		}
	}()

	if flight == nil || flight.Failed {
		return Errored()
	}
	parsed, err := ParseFlightSummary(flight.Text)
	if err != nil {
		return Errored()
	}

	flightUSD := ToUSD(parsed.Price)
	budgetUSD := ParseBudget(budgetText)
	remaining := budgetUSD - flightUSD

	status := StatusOverBudget
	if remaining >= MinGroundCostUSD {
		status = StatusFeasible
	}
	return Assessment{
		FlightCost:    parsed.Price,
		FlightCostUSD: flightUSD,
		Carrier:       parsed.Carrier,
		BudgetUSD:     budgetUSD,
		Remaining:     remaining,
		Status:        status,
	}
}

// Summary renders the assessment for the final-summary prompt.
func (a Assessment) Summary() string {
	if a.Status == StatusError || a.Status == "" {
		return "Budget check: unavailable (no usable flight price)."
	}
	return fmt.Sprintf(
		"Budget check: flight %s (%.2f USD) with %s. User budget %.2f USD, remaining %.2f USD. Status: %s.",
		a.FlightCost, a.FlightCostUSD, a.Carrier, a.BudgetUSD, a.Remaining, a.Status,
	)
}
