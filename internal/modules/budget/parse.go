package budget

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"wayfarer/internal/types"
)

var ErrNoPrice = errors.New("no price found in flight summary")

var (
	priceRe   = regexp.MustCompile(`(\d+\.?\d*)\s*([A-Z]{3})`)
	carrierRe = regexp.MustCompile(`(?:Operating Airline\(s\)|Validating Airline):\s*([^(\n|]+)`)
	integerRe = regexp.MustCompile(`\d+`)
)

// ParsedPrice is what can be recovered from a flight summary text.
type ParsedPrice struct {
	Price   types.Money
	Carrier string
}

// ParseFlightSummary extracts the first "<amount> <CUR>" pair and the carrier
// name from a flight tool result. A missing carrier is reported as Unknown; a
// missing price is an error.
func ParseFlightSummary(text string) (ParsedPrice, error) {
	m := priceRe.FindStringSubmatch(text)
	if m == nil {
		return ParsedPrice{}, ErrNoPrice
	}
	amount, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return ParsedPrice{}, fmt.Errorf("parse price %q: %w", m[1], err)
	}

	carrier := UnknownCarrier
	if c := carrierRe.FindStringSubmatch(text); c != nil {
		if name := strings.TrimSpace(c[1]); name != "" {
			carrier = name
		}
	}
	return ParsedPrice{
		Price:   types.Money{Amount: amount, Currency: m[2]},
		Carrier: carrier,
	}, nil
}

// ParseBudget returns the first integer found in the budget text, or 0.
func ParseBudget(text string) float64 {
	m := integerRe.FindString(text)
	if m == "" {
		return 0
	}
	n, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return n
}

// ToUSD converts EUR at the fixed rate and leaves every other currency as is.
func ToUSD(m types.Money) float64 {
	if m.Currency == "EUR" {
		return m.Amount * EURToUSD
	}
	return m.Amount
}
