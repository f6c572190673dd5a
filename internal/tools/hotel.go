package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"wayfarer/internal/ai"
)

const (
	DefaultSearchAPIURL = "https://www.searchapi.io/api/v1/search"

	// DefaultHotelAdults is the hotel-side default occupancy. It is independent
	// of the trip record's default adult count.
	DefaultHotelAdults = 2

	sortLowestPrice = "3"
	maxHotels       = 10
	maxAmenities    = 5
	maxHotelRates   = 5
	maxTimeLen      = 16
)

// HotelConfig holds SearchApi settings.
type HotelConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// HotelSearch queries Google Hotels data through SearchApi.
type HotelSearch struct {
	http   *resty.Client
	apiKey string
}

func NewHotelSearch(cfg HotelConfig) *HotelSearch {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultSearchAPIURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HotelSearch{
		apiKey: cfg.APIKey,
		http: resty.New().
			SetBaseURL(base).
			SetTimeout(timeout).
			SetHeader("Accept", "application/json"),
	}
}

// HotelQuery is a full hotel search request.
type HotelQuery struct {
	Query    string
	CheckIn  string
	CheckOut string
	Adults   int
	Children int
	Currency string
	GL       string
	HL       string
	SortBy   string
}

func (q *HotelQuery) applyDefaults() {
	if q.Adults < 1 {
		q.Adults = DefaultHotelAdults
	}
	if q.Currency == "" {
		q.Currency = "USD"
	}
	if q.GL == "" {
		q.GL = "us"
	}
	if q.HL == "" {
		q.HL = "en"
	}
	if q.SortBy == "" {
		q.SortBy = sortLowestPrice
	}
}

// flexString accepts either a JSON string or a JSON number.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	*f = flexString(b)
	return nil
}

type hotelRate struct {
	Lowest   flexString `json:"lowest"`
	Currency string     `json:"currency"`
}

type hotelProperty struct {
	Name          string    `json:"name"`
	Type          string    `json:"type"`
	PropertyToken string    `json:"property_token"`
	RatePerNight  hotelRate `json:"rate_per_night"`
	TotalRate     hotelRate `json:"total_rate"`
	OverallRating *float64  `json:"overall_rating"`
	Reviews       int       `json:"reviews"`
	CheckInTime   string    `json:"check_in_time"`
	CheckOutTime  string    `json:"check_out_time"`
	NearbyPlaces  []struct {
		Name string `json:"name"`
	} `json:"nearby_places"`
	Amenities []string `json:"amenities"`
	Link      string   `json:"link"`
}

type hotelSearchResponse struct {
	Properties []hotelProperty `json:"properties"`
}

type hotelDetailsResponse struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	OverallRating *float64 `json:"overall_rating"`
	Reviews       int      `json:"reviews"`
	Amenities     []string `json:"amenities"`
	Prices        []struct {
		Source string     `json:"source"`
		Rate   flexString `json:"rate"`
		Total  flexString `json:"total"`
		Link   string     `json:"link"`
	} `json:"prices"`
}

type searchAPIError struct {
	Error string `json:"error"`
}

func (h *HotelSearch) configured() bool {
	return h.apiKey != ""
}

// Search runs a full hotel search and formats up to ten properties.
func (h *HotelSearch) Search(ctx context.Context, q HotelQuery) Outcome {
	if !h.configured() {
		return failure(ErrNotConfigured, "SearchApi is not configured. Please set the SearchApi key.")
	}
	q.applyDefaults()

	params := map[string]string{
		"engine":         "google_hotels",
		"q":              "hotels in " + q.Query,
		"check_in_date":  q.CheckIn,
		"check_out_date": q.CheckOut,
		"adults":         strconv.Itoa(q.Adults),
		"currency":       q.Currency,
		"gl":             q.GL,
		"hl":             q.HL,
		"sort_by":        q.SortBy,
		"api_key":        h.apiKey,
	}
	if q.Children > 0 {
		params["children"] = strconv.Itoa(q.Children)
	}

	var result hotelSearchResponse
	if out, ok := h.get(ctx, params, &result); !ok {
		return out
	}
	if len(result.Properties) == 0 {
		return failure(ErrNoResults, fmt.Sprintf("No hotels found for '%s' on the specified dates. Try adjusting your search criteria.", q.Query))
	}

	shown := result.Properties
	if len(shown) > maxHotels {
		shown = shown[:maxHotels]
	}
	entries := make([]string, 0, len(shown))
	for i, p := range shown {
		entries = append(entries, formatHotel(i+1, p, q.Currency))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hotel Search Results for '%s'\n", q.Query)
	fmt.Fprintf(&b, "%s to %s | %d adult(s)", q.CheckIn, q.CheckOut, q.Adults)
	if q.Children > 0 {
		fmt.Fprintf(&b, ", %d child(ren)", q.Children)
	}
	sortLabel := "Best Match"
	if q.SortBy == sortLowestPrice {
		sortLabel = "Lowest Price"
	}
	fmt.Fprintf(&b, "\nSorted by: %s\n", sortLabel)
	fmt.Fprintf(&b, "\nFound %d hotels. Showing top %d:\n\n", len(result.Properties), len(entries))
	b.WriteString(strings.Join(entries, "\n\n"))
	b.WriteString("\n\nPrices include taxes and fees. Click booking links for more details and to reserve.")
	return success(b.String())
}

// Quick searches by destination with USD, US English and lowest-price sort.
// budgetMax only adds a note; results are not filtered.
func (h *HotelSearch) Quick(ctx context.Context, destination, checkIn, checkOut string, adults, budgetMax int) Outcome {
	out := h.Search(ctx, HotelQuery{
		Query:    destination,
		CheckIn:  checkIn,
		CheckOut: checkOut,
		Adults:   adults,
		Currency: "USD",
		GL:       "us",
		HL:       "en",
		SortBy:   sortLowestPrice,
	})
	if budgetMax > 0 && !out.Failed() {
		out.Text += fmt.Sprintf("\n\nBudget Filter: Looking for hotels under $%d/night. Review the prices above.", budgetMax)
	}
	return out
}

// DetailsQuery identifies one property and stay.
type DetailsQuery struct {
	HotelID  string
	CheckIn  string
	CheckOut string
	Adults   int
	Currency string
}

// Details fetches the rates and amenities of a single property.
func (h *HotelSearch) Details(ctx context.Context, q DetailsQuery) Outcome {
	if !h.configured() {
		return failure(ErrNotConfigured, "SearchApi is not configured. Please set the SearchApi key.")
	}
	if q.Adults < 1 {
		q.Adults = DefaultHotelAdults
	}
	if q.Currency == "" {
		q.Currency = "USD"
	}

	params := map[string]string{
		"engine":         "google_hotels",
		"property_token": q.HotelID,
		"check_in_date":  q.CheckIn,
		"check_out_date": q.CheckOut,
		"adults":         strconv.Itoa(q.Adults),
		"currency":       q.Currency,
		"api_key":        h.apiKey,
	}

	var d hotelDetailsResponse
	if out, ok := h.get(ctx, params, &d); !ok {
		return out
	}

	name := orDefault(d.Name, "Unknown Hotel")
	desc := orDefault(d.Description, "No description available")
	amenities := "Not listed"
	if len(d.Amenities) > 0 {
		amenities = strings.Join(d.Amenities, ", ")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\nRating: %s/5 (%d reviews)\n%s\n\nAmenities: %s\n\n", name, formatRating(d.OverallRating), d.Reviews, desc, amenities)
	if len(d.Prices) == 0 {
		b.WriteString("No rates available for the selected dates.\n")
		return success(b.String())
	}
	b.WriteString("Available Rates:\n\n")
	for i, p := range d.Prices {
		if i == maxHotelRates {
			break
		}
		fmt.Fprintf(&b, "%d. %s: %s %s/night | Total: %s %s\n",
			i+1, orDefault(p.Source, "Provider"), orDefault(string(p.Rate), "N/A"), q.Currency, orDefault(string(p.Total), "N/A"), q.Currency)
		if p.Link != "" {
			fmt.Fprintf(&b, "   Book: %s\n", p.Link)
		}
	}
	return success(b.String())
}

// get performs one SearchApi request. The bool is false when out carries a failure.
func (h *HotelSearch) get(ctx context.Context, params map[string]string, result any) (Outcome, bool) {
	var apiErr searchAPIError
	resp, err := h.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(result).
		SetError(&apiErr).
		Get("")
	if err != nil {
		return failure(fmt.Errorf("%w: %v", ErrUpstream, err), fmt.Sprintf("API request failed: %v", err)), false
	}
	if resp.IsError() {
		msg := apiErr.Error
		if msg == "" {
			msg = resp.Status()
		}
		return failure(fmt.Errorf("%w: searchapi status %d", ErrUpstream, resp.StatusCode()),
			fmt.Sprintf("API request failed: %s", msg)), false
	}
	return Outcome{}, true
}

func formatHotel(idx int, p hotelProperty, currency string) string {
	priceCurrency := orDefault(p.RatePerNight.Currency, currency)
	lowest := orDefault(string(p.RatePerNight.Lowest), "N/A")

	var b strings.Builder
	fmt.Fprintf(&b, "%d. %s\n", idx, orDefault(p.Name, "Unknown Hotel"))
	fmt.Fprintf(&b, "   Type: %s\n", orDefault(p.Type, "Hotel"))
	fmt.Fprintf(&b, "   Price: %s %s/night", lowest, priceCurrency)
	if total := string(p.TotalRate.Lowest); total != "" {
		fmt.Fprintf(&b, " | Total: %s %s", total, priceCurrency)
	}

	amenities := "Not listed"
	if len(p.Amenities) > 0 {
		list := p.Amenities
		if len(list) > maxAmenities {
			list = list[:maxAmenities]
		}
		amenities = strings.Join(list, ", ")
	}
	fmt.Fprintf(&b, "\n   Rating: %s/5 (%d reviews)\n   Amenities: %s", formatRating(p.OverallRating), p.Reviews, amenities)

	if p.CheckInTime != "" {
		fmt.Fprintf(&b, "\n   Check-in: %s", truncate(p.CheckInTime, maxTimeLen))
	}
	if p.CheckOutTime != "" {
		fmt.Fprintf(&b, " | Check-out: %s", truncate(p.CheckOutTime, maxTimeLen))
	}
	if len(p.NearbyPlaces) > 0 && p.NearbyPlaces[0].Name != "" {
		fmt.Fprintf(&b, "\n   Near: %s", p.NearbyPlaces[0].Name)
	}
	if p.Link != "" {
		fmt.Fprintf(&b, "\n   Booking Link: %s", p.Link)
	}
	if p.PropertyToken != "" {
		fmt.Fprintf(&b, "\n   Hotel ID: %s", p.PropertyToken)
	}
	return b.String()
}

func formatRating(r *float64) string {
	if r == nil {
		return "N/A"
	}
	return strconv.FormatFloat(*r, 'f', -1, 64)
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

type quickHotelArgs struct {
	Destination string `json:"destination" validate:"required"`
	CheckIn     string `json:"checkin_date" validate:"required"`
	CheckOut    string `json:"checkout_date" validate:"required"`
	Adults      int    `json:"adults" validate:"gte=0"`
	BudgetMax   int    `json:"budget_max" validate:"gte=0"`
}

func (h *HotelSearch) Kind() Kind { return KindHotel }

func (h *HotelSearch) Schema() ai.ToolSchema {
	return ai.ToolSchema{
		Name:        NameHotel,
		Description: "Quick hotel search by destination name. Automatically formats query and returns budget-friendly options.",
		Params: []ai.Param{
			{Name: "destination", Type: ai.TypeString, Required: true, Description: "Destination city or area (e.g., 'Bangkok', 'Paris', 'New York')."},
			{Name: "checkin_date", Type: ai.TypeString, Required: true, Description: "Check-in date in YYYY-MM-DD format."},
			{Name: "checkout_date", Type: ai.TypeString, Required: true, Description: "Check-out date in YYYY-MM-DD format."},
			{Name: "adults", Type: ai.TypeInteger, Description: "Number of adult guests."},
			{Name: "budget_max", Type: ai.TypeInteger, Description: "Maximum budget per night in USD (optional filter)."},
		},
	}
}

// Execute runs the quick variant, which is the one bound to the model.
func (h *HotelSearch) Execute(ctx context.Context, args map[string]any) Outcome {
	if !h.configured() {
		return failure(ErrNotConfigured, "SearchApi is not configured. Please set the SearchApi key.")
	}
	var in quickHotelArgs
	if err := decodeArgs(args, &in); err != nil {
		return failure(err, fmt.Sprintf("Input Error: %v", err))
	}
	return h.Quick(ctx, in.Destination, in.CheckIn, in.CheckOut, in.Adults, in.BudgetMax)
}
