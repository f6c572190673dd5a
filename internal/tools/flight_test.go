package tools

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const offersJSON = `{"data":[
 {"price":{"total":"1500.00","currency":"EUR"},"validatingAirlineCodes":["AF"],
  "itineraries":[{"segments":[{"carrierCode":"AF"}]}]},
 {"price":{"total":"1234.50","currency":"EUR"},"validatingAirlineCodes":["EK"],
  "itineraries":[
   {"segments":[{"carrierCode":"EK"},{"carrierCode":"EK","operating":{"carrierCode":"QR"}}]},
   {"segments":[{"carrierCode":"ZZ"}]}]},
 {"price":{"total":"n/a","currency":"EUR"}}
]}`

type amadeusFake struct {
	query  url.Values
	status int
	body   string
}

func newAmadeus(t *testing.T, fake *amadeusFake) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc(amadeusTokenPath, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		assert.Equal(t, "id", r.PostForm.Get("client_id"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok","token_type":"Bearer","expires_in":1799}`))
	})
	mux.HandleFunc(flightOffersPath, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		fake.query = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		if fake.status != 0 {
			w.WriteHeader(fake.status)
		}
		_, _ = w.Write([]byte(fake.body))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func flightArgsFixture() map[string]any {
	return map[string]any{
		"originLocationCode":      "JFK",
		"destinationLocationCode": "RAK",
		"departureDate":           "2025-11-01",
		"returnDate":              "2025-11-06",
	}
}

func TestFlightSearch_CheapestOffer(t *testing.T) {
	fake := &amadeusFake{body: offersJSON}
	srv := newAmadeus(t, fake)
	f := NewFlightSearch(FlightConfig{ClientID: "id", ClientSecret: "secret", BaseURL: srv.URL}, nil)

	out := f.Execute(context.Background(), flightArgsFixture())
	require.False(t, out.Failed(), out.Text)
	assert.Equal(t,
		"Cheapest flight price found: 1234.50 EUR | Ticket Provider/Validating Airline: Emirates (EK) | "+
			"Operating Airline(s): Emirates, Qatar Airways, ZZ (EK, QR, ZZ) | "+
			"Note: This is a test environment result and prices are not guaranteed.",
		out.Text)

	assert.Equal(t, "1", fake.query.Get("adults"))
	assert.Equal(t, "5", fake.query.Get("max"))
	assert.Equal(t, "2025-11-06", fake.query.Get("returnDate"))
}

func TestFlightSearch_OneWayOmitsReturnDate(t *testing.T) {
	fake := &amadeusFake{body: offersJSON}
	srv := newAmadeus(t, fake)
	f := NewFlightSearch(FlightConfig{ClientID: "id", ClientSecret: "secret", BaseURL: srv.URL}, nil)

	args := flightArgsFixture()
	delete(args, "returnDate")
	args["adults"] = float64(2)
	out := f.Execute(context.Background(), args)
	require.False(t, out.Failed())
	assert.False(t, fake.query.Has("returnDate"))
	assert.Equal(t, "2", fake.query.Get("adults"))
}

func TestFlightSearch_Failures(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		out := NewFlightSearch(FlightConfig{}, nil).Execute(context.Background(), flightArgsFixture())
		assert.ErrorIs(t, out.Err, ErrNotConfigured)
		assert.Equal(t, "Amadeus API is not configured. Cannot search for flights.", out.Text)
	})

	t.Run("no offers", func(t *testing.T) {
		srv := newAmadeus(t, &amadeusFake{body: `{"data":[]}`})
		f := NewFlightSearch(FlightConfig{ClientID: "id", ClientSecret: "secret", BaseURL: srv.URL}, nil)
		out := f.Execute(context.Background(), flightArgsFixture())
		assert.ErrorIs(t, out.Err, ErrNoResults)
		assert.Equal(t, "No flight offers found for this itinerary.", out.Text)
	})

	t.Run("api error", func(t *testing.T) {
		srv := newAmadeus(t, &amadeusFake{
			status: http.StatusBadRequest,
			body:   `{"errors":[{"status":400,"code":477,"title":"INVALID FORMAT","detail":"originLocationCode is invalid"}]}`,
		})
		f := NewFlightSearch(FlightConfig{ClientID: "id", ClientSecret: "secret", BaseURL: srv.URL}, nil)
		out := f.Execute(context.Background(), flightArgsFixture())
		assert.ErrorIs(t, out.Err, ErrUpstream)
		assert.Equal(t, "Amadeus API Error: Could not complete search. Check your IATA codes and dates. Details: 477 - originLocationCode is invalid", out.Text)
	})

	t.Run("missing arguments", func(t *testing.T) {
		srv := newAmadeus(t, &amadeusFake{body: offersJSON})
		f := NewFlightSearch(FlightConfig{ClientID: "id", ClientSecret: "secret", BaseURL: srv.URL}, nil)
		out := f.Execute(context.Background(), map[string]any{"originLocationCode": "JFK"})
		assert.ErrorIs(t, out.Err, ErrInvalidArgs)
		assert.Contains(t, out.Text, "Input Error")
	})
}

func TestAirlineDirectory_Name(t *testing.T) {
	d := DefaultAirlines()
	assert.Equal(t, "Royal Air Maroc", d.Name("AT"))
	assert.Equal(t, "XQ", d.Name("XQ"))
}
