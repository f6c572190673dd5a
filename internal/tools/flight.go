package tools

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"wayfarer/internal/ai"
)

const (
	DefaultAmadeusBaseURL = "https://test.api.amadeus.com"

	flightOffersPath = "/v2/shopping/flight-offers"
	amadeusTokenPath = "/v1/security/oauth2/token"
	maxFlightOffers  = 5
)

// FlightConfig holds Amadeus credentials.
type FlightConfig struct {
	ClientID     string
	ClientSecret string
	BaseURL      string
	Timeout      time.Duration
}

// FlightSearch finds the cheapest Amadeus flight offer for an itinerary.
type FlightSearch struct {
	http     *resty.Client
	airlines AirlineDirectory
}

// NewFlightSearch builds the adapter. Missing credentials leave it unconfigured:
// every call then answers with a "not configured" outcome.
func NewFlightSearch(cfg FlightConfig, airlines AirlineDirectory) *FlightSearch {
	if airlines == nil {
		airlines = DefaultAirlines()
	}
	f := &FlightSearch{airlines: airlines}
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return f
	}

	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultAmadeusBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	creds := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     base + amadeusTokenPath,
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	f.http = resty.NewWithClient(creds.Client(context.Background())).
		SetBaseURL(base).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return f
}

type flightArgs struct {
	Origin        string `json:"originLocationCode" validate:"required"`
	Destination   string `json:"destinationLocationCode" validate:"required"`
	DepartureDate string `json:"departureDate" validate:"required"`
	ReturnDate    string `json:"returnDate"`
	Adults        int    `json:"adults" validate:"gte=0"`
}

type flightOffersResponse struct {
	Data []flightOffer `json:"data"`
}

type flightOffer struct {
	Price struct {
		Total    string `json:"total"`
		Currency string `json:"currency"`
	} `json:"price"`
	ValidatingAirlineCodes []string `json:"validatingAirlineCodes"`
	Itineraries            []struct {
		Segments []struct {
			CarrierCode string `json:"carrierCode"`
			Operating   *struct {
				CarrierCode string `json:"carrierCode"`
			} `json:"operating"`
		} `json:"segments"`
	} `json:"itineraries"`
}

type amadeusErrorResponse struct {
	Errors []struct {
		Status int    `json:"status"`
		Code   int    `json:"code"`
		Title  string `json:"title"`
		Detail string `json:"detail"`
	} `json:"errors"`
}

func (e amadeusErrorResponse) String() string {
	if len(e.Errors) == 0 {
		return "unknown error"
	}
	first := e.Errors[0]
	detail := first.Detail
	if detail == "" {
		detail = first.Title
	}
	return fmt.Sprintf("%d - %s", first.Code, detail)
}

func (f *FlightSearch) Kind() Kind { return KindFlight }

func (f *FlightSearch) Schema() ai.ToolSchema {
	return ai.ToolSchema{
		Name:        NameFlight,
		Description: "Searches Amadeus for the cheapest flight offers between two airports on specified dates. Returns the cheapest price and carrier/airline information.",
		Params: []ai.Param{
			{Name: "originLocationCode", Type: ai.TypeString, Required: true, Description: "The IATA code of the departure airport (e.g., RBA for Rabat)."},
			{Name: "destinationLocationCode", Type: ai.TypeString, Required: true, Description: "The IATA code of the arrival airport (e.g., BKK for Bangkok)."},
			{Name: "departureDate", Type: ai.TypeString, Required: true, Description: "The exact departure date in YYYY-MM-DD format (e.g., 2025-11-01)."},
			{Name: "returnDate", Type: ai.TypeString, Description: "The exact return date in YYYY-MM-DD format. Required for round trip."},
			{Name: "adults", Type: ai.TypeInteger, Description: "The number of adult passengers."},
		},
	}
}

func (f *FlightSearch) Execute(ctx context.Context, args map[string]any) Outcome {
	if f.http == nil {
		return failure(ErrNotConfigured, "Amadeus API is not configured. Cannot search for flights.")
	}

	var in flightArgs
	if err := decodeArgs(args, &in); err != nil {
		return failure(err, fmt.Sprintf("Input Error: %v", err))
	}
	if in.Adults < 1 {
		in.Adults = 1
	}

	params := map[string]string{
		"originLocationCode":      in.Origin,
		"destinationLocationCode": in.Destination,
		"departureDate":           in.DepartureDate,
		"adults":                  strconv.Itoa(in.Adults),
		"max":                     strconv.Itoa(maxFlightOffers),
	}
	if in.ReturnDate != "" {
		params["returnDate"] = in.ReturnDate
	}

	var result flightOffersResponse
	var apiErr amadeusErrorResponse
	resp, err := f.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&result).
		SetError(&apiErr).
		Get(flightOffersPath)
	if err != nil {
		return failure(fmt.Errorf("%w: %v", ErrUpstream, err),
			fmt.Sprintf("An unexpected error occurred during the flight search: %v", err))
	}
	if resp.IsError() {
		return failure(fmt.Errorf("%w: amadeus status %d", ErrUpstream, resp.StatusCode()),
			fmt.Sprintf("Amadeus API Error: Could not complete search. Check your IATA codes and dates. Details: %s", apiErr))
	}

	return f.summarize(result.Data)
}

// summarize picks the cheapest offer and renders its price and carriers.
func (f *FlightSearch) summarize(offers []flightOffer) Outcome {
	cheapest := math.Inf(1)
	var best *flightOffer
	for i := range offers {
		price, err := strconv.ParseFloat(offers[i].Price.Total, 64)
		if err != nil {
			continue
		}
		if price < cheapest {
			cheapest = price
			best = &offers[i]
		}
	}
	if best == nil {
		return failure(ErrNoResults, "No flight offers found for this itinerary.")
	}

	var operating []string
	seen := make(map[string]bool)
	add := func(code string) {
		if code != "" && !seen[code] {
			seen[code] = true
			operating = append(operating, code)
		}
	}
	for _, it := range best.Itineraries {
		for _, seg := range it.Segments {
			add(seg.CarrierCode)
			if seg.Operating != nil {
				add(seg.Operating.CarrierCode)
			}
		}
	}

	parts := []string{fmt.Sprintf("Cheapest flight price found: %.2f %s", cheapest, best.Price.Currency)}
	if len(best.ValidatingAirlineCodes) > 0 {
		parts = append(parts, fmt.Sprintf("Ticket Provider/Validating Airline: %s (%s)",
			strings.Join(f.names(best.ValidatingAirlineCodes), ", "),
			strings.Join(best.ValidatingAirlineCodes, ", ")))
	}
	if len(operating) > 0 {
		parts = append(parts, fmt.Sprintf("Operating Airline(s): %s (%s)",
			strings.Join(f.names(operating), ", "),
			strings.Join(operating, ", ")))
	}
	parts = append(parts, "Note: This is a test environment result and prices are not guaranteed.")
	return success(strings.Join(parts, " | "))
}

func (f *FlightSearch) names(codes []string) []string {
	out := make([]string, len(codes))
	for i, c := range codes {
		out[i] = f.airlines.Name(c)
	}
	return out
}
