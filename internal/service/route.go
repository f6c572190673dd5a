package service

import (
	"wayfarer/internal/ai"
	"wayfarer/internal/modules/budget"
	"wayfarer/internal/modules/thread"
	"wayfarer/internal/modules/trip"
	"wayfarer/internal/tools"
)

// route runs the post-processing stage for the tool that just executed.
func (p *Planner) route(th *thread.Thread, kind tools.Kind) {
	switch kind {
	case tools.KindTravel:
		p.extract(th)
	case tools.KindFlight:
		p.assessBudget(th)
	case tools.KindHotel:
		th.Flags.HotelSearched = true
	case tools.KindActivities:
		th.Flags.ActivitiesSearched = true
	case tools.KindDirections:
		th.Flags.DirectionsSearched = true
	case tools.KindEntertainment, tools.KindUnknown:
		// Not part of the workflow; control returns to the decision step.
	default:
		p.logger.Warn("no route for tool kind", "kind", int(kind))
	}
}

func (p *Planner) extract(th *thread.Thread) {
	args, ok := trip.LatestTravelArgs(th.Messages)
	if !ok {
		return
	}
	rec, err := trip.Apply(th.Trip, args)
	if err != nil {
		p.logger.Warn("travel extraction skipped", "thread", th.ID, "err", err)
		return
	}
	th.Trip = rec
	p.logger.Info("trip details extracted", "thread", th.ID,
		"destination", rec.Destination, "duration", rec.Duration, "budget", rec.Budget,
		"interests", rec.Interests, "needs_directions", rec.NeedsDirections)
}

func (p *Planner) assessBudget(th *thread.Thread) {
	th.Budget = budget.Assess(latestFlight(th.Messages), th.Trip.Budget)
	th.Flags.FlightSearched = true
	p.metrics.BudgetAssessed(string(th.Budget.Status))
	p.logger.Info("budget check", "thread", th.ID,
		"flight_usd", th.Budget.FlightCostUSD, "budget_usd", th.Budget.BudgetUSD,
		"remaining", th.Budget.Remaining, "status", th.Budget.Status)
}

func latestFlight(msgs []ai.Message) *budget.FlightResult {
	for i := len(msgs) - 1; i >= 0; i-- {
		m := msgs[i]
		if m.Role == ai.RoleTool && tools.ParseKind(m.ToolName) == tools.KindFlight {
			return &budget.FlightResult{Text: m.Content, Failed: m.Failed}
		}
	}
	return nil
}
